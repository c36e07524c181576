// Package diagram defines the normalized state tree of a diagram editor:
// the graph (nodes, edges), the floating panels and plugins, and the view
// (workspace pan/zoom, editor mode, transient gesture state).
//
// State is treated as immutable. Reducers produce a new State for every
// transition, cloning only the maps they touch, so two states can be
// compared by map identity to detect which domains changed.
package diagram

import "github.com/ha1tch/diagram-toolkit/pkg/geom"

// Mode is the editor interaction mode.
type Mode string

const (
	ModeDrag     Mode = "DRAG"
	ModeSelect   Mode = "SELECT"
	ModeReadOnly Mode = "READ_ONLY"
)

// Anchor names a viewport corner a panel can dock to.
type Anchor string

const (
	AnchorNone        Anchor = ""
	AnchorTopLeft     Anchor = "TOP_LEFT"
	AnchorTopRight    Anchor = "TOP_RIGHT"
	AnchorBottomLeft  Anchor = "BOTTOM_LEFT"
	AnchorBottomRight Anchor = "BOTTOM_RIGHT"
)

// Anchors lists every dockable corner.
var Anchors = []Anchor{AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight}

// ElementType is the semantic kind of an element under the pointer.
type ElementType string

const (
	ElementNode             ElementType = "DiagramMaker.Node"
	ElementEdge             ElementType = "DiagramMaker.Edge"
	ElementPanel            ElementType = "DiagramMaker.Panel"
	ElementPanelDragHandle  ElementType = "DiagramMaker.PanelDragHandle"
	ElementWorkspace        ElementType = "DiagramMaker.Workspace"
	ElementConnector        ElementType = "DiagramMaker.Connector"
	ElementSelectionMarquee ElementType = "DiagramMaker.SelectionMarquee"
	ElementContextMenu      ElementType = "DiagramMaker.ContextMenu"
	ElementPotentialNode    ElementType = "DiagramMaker.PotentialNode"
	ElementLibraryItem      ElementType = "DiagramMaker.LibraryItem"
)

// Node is a vertex of the graph. Position is the top-left corner in
// workspace coordinates.
type Node struct {
	ID           string     `json:"id" yaml:"id"`
	TypeID       string     `json:"typeId,omitempty" yaml:"typeId,omitempty"`
	Position     geom.Point `json:"position" yaml:"position"`
	Size         geom.Size  `json:"size" yaml:"size"`
	Selected     bool       `json:"selected,omitempty" yaml:"selected,omitempty"`
	Dragging     bool       `json:"dragging,omitempty" yaml:"dragging,omitempty"`
	ConsumerData any        `json:"consumerData,omitempty" yaml:"consumerData,omitempty"`
}

// Rect returns the node's bounding box.
func (n Node) Rect() geom.Rect { return geom.RectAt(n.Position, n.Size) }

// Edge connects two nodes by id.
type Edge struct {
	ID           string `json:"id" yaml:"id"`
	Src          string `json:"src" yaml:"src"`
	Dest         string `json:"dest" yaml:"dest"`
	Selected     bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
	ConsumerData any    `json:"consumerData,omitempty" yaml:"consumerData,omitempty"`
}

// Panel is a floating UI panel. Position is always absolute (container
// space); Offset holds the distance from the anchor corner while docked.
type Panel struct {
	ID             string     `json:"id" yaml:"id"`
	Position       geom.Point `json:"position" yaml:"position"`
	Size           geom.Size  `json:"size" yaml:"size"`
	PositionAnchor Anchor     `json:"positionAnchor,omitempty" yaml:"positionAnchor,omitempty"`
	Offset         geom.Point `json:"offset" yaml:"offset"`
	Dragging       bool       `json:"dragging,omitempty" yaml:"dragging,omitempty"`
}

// Anchored reports whether the panel is docked to a corner.
func (p Panel) Anchored() bool { return p.PositionAnchor != AnchorNone }

// Plugin is consumer-owned data mounted in the editor.
type Plugin struct {
	Size geom.Size `json:"size" yaml:"size"`
	Data any       `json:"data,omitempty" yaml:"data,omitempty"`
}

// Workspace is the pan/zoom view over the canvas.
type Workspace struct {
	Position          geom.Point `json:"position" yaml:"position"`
	Scale             float64    `json:"scale" yaml:"scale"`
	CanvasSize        geom.Size  `json:"canvasSize" yaml:"canvasSize"`
	ViewContainerSize geom.Size  `json:"viewContainerSize" yaml:"viewContainerSize"`
}

// Marquee is the in-progress selection rectangle.
type Marquee struct {
	Anchor   geom.Point `json:"anchor" yaml:"anchor"`
	Position geom.Point `json:"position" yaml:"position"`
}

// Rect returns the marquee rectangle regardless of drag direction.
func (m Marquee) Rect() geom.Rect { return geom.RectFromCorners(m.Anchor, m.Position) }

// ContextMenu is an open context menu and the element it targets.
type ContextMenu struct {
	Position   geom.Point  `json:"position" yaml:"position"`
	TargetType ElementType `json:"targetType" yaml:"targetType"`
	TargetID   string      `json:"targetId,omitempty" yaml:"targetId,omitempty"`
}

// Editor holds mode and transient UI state. Marquee and ContextMenu are
// never persisted in history.
type Editor struct {
	Mode             Mode         `json:"mode" yaml:"mode"`
	SelectionMarquee *Marquee     `json:"selectionMarquee,omitempty" yaml:"selectionMarquee,omitempty"`
	ContextMenu      *ContextMenu `json:"contextMenu,omitempty" yaml:"contextMenu,omitempty"`
}

// PotentialNode is a node being dragged out of a library panel. Position
// is the pointer, in workspace space; the node is drawn centred on it.
type PotentialNode struct {
	TypeID   string     `json:"typeId" yaml:"typeId"`
	Position geom.Point `json:"position" yaml:"position"`
	Size     geom.Size  `json:"size" yaml:"size"`
}

// PotentialEdge is an edge being drawn from a connector.
type PotentialEdge struct {
	Src      string     `json:"src" yaml:"src"`
	Position geom.Point `json:"position" yaml:"position"`
}

// State is the single state tree.
type State struct {
	Nodes         map[string]Node   `json:"nodes" yaml:"nodes"`
	Edges         map[string]Edge   `json:"edges" yaml:"edges"`
	Panels        map[string]Panel  `json:"panels" yaml:"panels"`
	Plugins       map[string]Plugin `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Workspace     Workspace         `json:"workspace" yaml:"workspace"`
	Editor        Editor            `json:"editor" yaml:"editor"`
	PotentialNode *PotentialNode    `json:"potentialNode,omitempty" yaml:"potentialNode,omitempty"`
	PotentialEdge *PotentialEdge    `json:"potentialEdge,omitempty" yaml:"potentialEdge,omitempty"`
}

// Default canvas dimensions.
const (
	DefaultCanvasWidth  = 3200
	DefaultCanvasHeight = 1600
)

// New returns an empty state with default view settings.
func New() State {
	return State{
		Nodes:   map[string]Node{},
		Edges:   map[string]Edge{},
		Panels:  map[string]Panel{},
		Plugins: map[string]Plugin{},
		Workspace: Workspace{
			Scale:      1,
			CanvasSize: geom.Size{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
		},
		Editor: Editor{Mode: ModeDrag},
	}
}

// Normalize fills in the zero values a partially specified initial state
// may leave out, so consumer-supplied data can be used as-is.
func Normalize(s State) State {
	def := New()
	if s.Nodes == nil {
		s.Nodes = def.Nodes
	}
	if s.Edges == nil {
		s.Edges = def.Edges
	}
	if s.Panels == nil {
		s.Panels = def.Panels
	}
	if s.Plugins == nil {
		s.Plugins = def.Plugins
	}
	if s.Workspace.Scale <= 0 {
		s.Workspace.Scale = 1
	}
	if s.Workspace.CanvasSize.Width <= 0 || s.Workspace.CanvasSize.Height <= 0 {
		s.Workspace.CanvasSize = def.Workspace.CanvasSize
	}
	if s.Editor.Mode == "" {
		s.Editor.Mode = ModeDrag
	}
	return s
}
