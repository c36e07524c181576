package event

// DeadZone is how far (container units) the pointer must travel with the
// button held before a press becomes a drag.
const DeadZone = 4.0

// Tracker synthesizes drag and click events from a stream of normalized
// pointer events. It is not safe for concurrent use.
type Tracker struct {
	pressed  bool
	dragging bool
	source   Target
	down     Event
	last     Event
}

// Track consumes e and returns e followed by any events it implies:
//
//	press, move beyond DeadZone      -> DragStart, Drag
//	move while dragging              -> Drag
//	release while dragging           -> Drop, DragEnd
//	release without dragging         -> LeftClick
func (t *Tracker) Track(e Event) []Event {
	out := []Event{e}

	switch e.Kind {
	case MouseDown:
		if e.Button != ButtonLeft {
			return out
		}
		t.pressed, t.dragging = true, false
		t.source = e.Draggable
		t.down, t.last = e, e

	case MouseMove:
		if !t.pressed {
			return out
		}
		if !t.dragging {
			if !t.source.Valid() || e.Container.Dist(t.down.Container) <= DeadZone {
				return out
			}
			t.dragging = true
			start := t.derive(DragStart, t.down)
			out = append(out, start)
			t.last = t.down
		}
		out = append(out, t.derive(Drag, e))
		t.last = e

	case MouseUp:
		if !t.pressed || e.Button != ButtonLeft {
			return out
		}
		if t.dragging {
			out = append(out, t.derive(Drop, e), t.derive(DragEnd, e))
		} else {
			click := e
			click.Kind = LeftClick
			out = append(out, click)
		}
		t.Reset()
	}
	return out
}

// Dragging reports whether a drag is in progress.
func (t *Tracker) Dragging() bool { return t.dragging }

// Reset abandons any in-flight gesture.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

func (t *Tracker) derive(kind Kind, at Event) Event {
	d := at
	d.Kind = kind
	d.Source = t.source
	d.Start = t.down.Container
	d.Delta = at.Container.Sub(t.last.Container)
	return d
}
