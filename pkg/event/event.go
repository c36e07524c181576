package event

import (
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// Kind is the semantic event kind.
type Kind string

const (
	MouseDown   Kind = "MOUSE_DOWN"
	MouseMove   Kind = "MOUSE_MOVE"
	MouseUp     Kind = "MOUSE_UP"
	MouseWheel  Kind = "MOUSE_WHEEL"
	KeyDown     Kind = "KEY_DOWN"
	ContextMenu Kind = "CONTEXT_MENU"
	LeftClick   Kind = "LEFT_CLICK"
	DragStart   Kind = "DRAG_START"
	Drag        Kind = "DRAG"
	DragEnd     Kind = "DRAG_END"
	Drop        Kind = "DROP"
)

// Target identifies a semantic element.
type Target struct {
	Type diagram.ElementType
	ID   string
}

// Valid reports whether t names an element.
func (t Target) Valid() bool { return t.Type != "" }

// Event is a normalized UI event.
type Event struct {
	Kind Kind

	// Target is the nearest ancestor marked as an event target.
	Target Target
	// Draggable is the nearest draggable ancestor, if any.
	Draggable Target
	// DropZone is the nearest drop zone ancestor, if any.
	DropZone Target

	// Position is in workspace space; Container is relative to the
	// container's top-left corner.
	Position  geom.Point
	Container geom.Point

	// Source is the dragged element for DragStart, Drag, DragEnd and Drop.
	Source Target
	// Delta is the container-space movement since the previous drag event.
	Delta geom.Point
	// Start is the container-space point where the gesture began.
	Start geom.Point

	Button Button
	Wheel  float64 // Wheel deltaY
	Key    string
	Mods   Modifiers
}

// Normalizer converts raw events for a single container.
type Normalizer struct {
	// Origin is the container's top-left corner in client space.
	Origin geom.Point
}

// Normalize translates raw into a semantic event. The workspace transform
// is inverted so Position lands in the same logical space nodes are
// stored in. ok is false for raw events with no semantic counterpart.
func (n Normalizer) Normalize(raw Raw, ws diagram.Workspace) (Event, bool) {
	container := raw.Client.Sub(n.Origin)
	e := Event{
		Container: container,
		Position:  geom.ToWorkspace(container, ws.Position, ws.Scale),
		Button:    raw.Button,
		Mods:      raw.Mods,
	}

	switch raw.Kind {
	case RawMouseDown:
		e.Kind = MouseDown
	case RawMouseMove:
		e.Kind = MouseMove
	case RawMouseUp:
		e.Kind = MouseUp
	case RawTouchStart:
		e.Kind, e.Button = MouseDown, ButtonLeft
	case RawTouchMove:
		e.Kind, e.Button = MouseMove, ButtonLeft
	case RawTouchEnd:
		e.Kind, e.Button = MouseUp, ButtonLeft
	case RawWheel:
		e.Kind, e.Wheel = MouseWheel, raw.DeltaY
	case RawKeyDown:
		if raw.Key == "" {
			return Event{}, false
		}
		e.Kind, e.Key = KeyDown, raw.Key
	case RawContextMenu:
		e.Kind, e.Button = ContextMenu, ButtonRight
	default:
		return Event{}, false
	}

	e.Target = Closest(raw.Target, AttrEventTarget)
	e.Draggable = Closest(raw.Target, AttrDraggable)
	e.DropZone = Closest(raw.Target, AttrDropZone)
	return e, true
}

// Closest walks from el up through its ancestors and returns the identity
// of the first element whose flag attribute is "true".
func Closest(el Element, flag string) Target {
	for ; el != nil; el = el.Parent() {
		if v, ok := el.Attr(flag); ok && v == "true" {
			typ, _ := el.Attr(AttrType)
			id, _ := el.Attr(AttrID)
			return Target{Type: diagram.ElementType(typ), ID: id}
		}
	}
	return Target{}
}
