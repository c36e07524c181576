// Package event turns raw host input into the small vocabulary of semantic
// UI events the interaction layer understands.
//
// A host feeds Raw events (pointer, touch, wheel, keyboard) together with
// the Element under the pointer. The Normalizer resolves the nearest
// semantic ancestor through attribute probes and converts client
// coordinates into workspace coordinates; the Tracker synthesizes drag,
// drop and click events from press/move/release sequences.
package event

import "github.com/ha1tch/diagram-toolkit/pkg/geom"

// Attribute names probed on elements.
const (
	AttrType        = "data-type"
	AttrID          = "data-id"
	AttrDraggable   = "data-draggable"
	AttrDropZone    = "data-dropzone"
	AttrEventTarget = "data-event-target"
)

// Element is a read-only view of a host UI element.
type Element interface {
	// Attr returns the value of a data attribute.
	Attr(name string) (string, bool)
	// Parent returns the enclosing element, or nil at the root.
	Parent() Element
}

// RawKind is the kind of a host input event.
type RawKind int

const (
	RawMouseDown RawKind = iota
	RawMouseMove
	RawMouseUp
	RawWheel
	RawKeyDown
	RawContextMenu
	RawTouchStart
	RawTouchMove
	RawTouchEnd
)

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Modifiers is the modifier key state at the time of an event.
type Modifiers struct {
	Shift, Ctrl, Alt, Meta bool
}

// Command reports whether the platform command modifier (Ctrl or Meta)
// is held.
func (m Modifiers) Command() bool { return m.Ctrl || m.Meta }

// Raw is a host input event. Client is in the host's client space.
type Raw struct {
	Kind   RawKind
	Client geom.Point
	Button Button
	DeltaY float64 // Wheel only; negative scrolls up
	Key    string  // Key name: "Delete", "Escape", "a", ...
	Mods   Modifiers
	Target Element // Element under the pointer, may be nil
}
