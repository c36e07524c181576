package config

import (
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// Handle is an opaque value a renderer returns for something it drew.
// The core stores it and hands it back to Destroy, never inspecting it.
type Handle any

// Slot locates a rendered element in container space.
type Slot struct {
	Type  diagram.ElementType
	ID    string
	Box   geom.Rect
	Scale float64 // workspace zoom; 1 for panels and menus
}

// Renderer draws the elements whose look the core does not own.
type Renderer interface {
	Node(n diagram.Node, slot Slot) Handle
	Panel(p diagram.Panel, slot Slot) Handle
	Destroy(h Handle)
}

// EdgePath is the geometry of an edge in container space: a cubic curve
// from Src to Dest with control points C1 and C2, plus the two barbs of
// the arrowhead when one is shown.
type EdgePath struct {
	Src, C1, C2, Dest geom.Point
	Arrow             *[2]geom.Point
}

// EdgeRenderer is implemented by renderers that draw edges. Without it
// edges are left to the host.
type EdgeRenderer interface {
	Edge(e diagram.Edge, path EdgePath, slot Slot) Handle
}

// PotentialNodeRenderer draws the preview of a node being dragged out of
// a library.
type PotentialNodeRenderer interface {
	PotentialNode(p diagram.PotentialNode, slot Slot) Handle
}

// ContextMenuRenderer draws an open context menu. A nil Handle means
// there is nothing to show.
type ContextMenuRenderer interface {
	ContextMenu(m diagram.ContextMenu, slot Slot) Handle
}
