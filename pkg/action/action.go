// Package action defines the closed vocabulary of state transitions.
//
// Every action is a pointer to one of the structs below. The Type string is
// the stable wire name interceptors and plugins match on; payload fields are
// the wire shape (see Envelope). Interceptors may mutate payload fields
// in place before forwarding an action.
package action

import (
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// Type is the stable wire name of an action.
type Type string

// Action is implemented only by the types in this package.
type Action interface {
	Type() Type
	sealed()
}

const (
	TypeNodeCreate    Type = "NODE_CREATE"
	TypeNodeDelete    Type = "NODE_DELETE"
	TypeNodeDragStart Type = "NODE_DRAG_START"
	TypeNodeDrag      Type = "NODE_DRAG"
	TypeNodeDragEnd   Type = "NODE_DRAG_END"
	TypeNodeSelect    Type = "NODE_SELECT"

	TypeEdgeCreate    Type = "EDGE_CREATE"
	TypeEdgeDelete    Type = "EDGE_DELETE"
	TypeEdgeSelect    Type = "EDGE_SELECT"
	TypeEdgeDragStart Type = "EDGE_DRAG_START"
	TypeEdgeDrag      Type = "EDGE_DRAG"
	TypeEdgeDragEnd   Type = "EDGE_DRAG_END"

	TypePotentialNodeDragStart Type = "POTENTIAL_NODE_DRAG_START"
	TypePotentialNodeDrag      Type = "POTENTIAL_NODE_DRAG"
	TypePotentialNodeDragEnd   Type = "POTENTIAL_NODE_DRAG_END"

	TypePanelDragStart Type = "PANEL_DRAG_START"
	TypePanelDrag      Type = "PANEL_DRAG"
	TypePanelDragEnd   Type = "PANEL_DRAG_END"

	TypeWorkspaceDrag      Type = "WORKSPACE_DRAG"
	TypeWorkspaceZoom      Type = "WORKSPACE_ZOOM"
	TypeWorkspaceResize    Type = "WORKSPACE_RESIZE"
	TypeWorkspaceResetZoom Type = "WORKSPACE_RESET_ZOOM"
	TypeWorkspaceDeselect  Type = "WORKSPACE_DESELECT"
	TypeFocusNode          Type = "FOCUS_NODE"
	TypeFocusSelected      Type = "FOCUS_SELECTED"
	TypeFit                Type = "FIT"

	TypeSetEditorMode          Type = "SET_EDITOR_MODE"
	TypeShowContextMenu        Type = "SHOW_CONTEXT_MENU"
	TypeHideContextMenu        Type = "HIDE_CONTEXT_MENU"
	TypeUpdateSelectionMarquee Type = "UPDATE_SELECTION_MARQUEE"
	TypeHideSelectionMarquee   Type = "HIDE_SELECTION_MARQUEE"

	TypeSelectAll   Type = "SELECT_ALL"
	TypeCreateItems Type = "CREATE_ITEMS"
	TypeDeleteItems Type = "DELETE_ITEMS"
	TypeUndo        Type = "UNDO"
	TypeRedo        Type = "REDO"
	TypeLayout      Type = "LAYOUT"
)

// NodeCreate inserts a node. An empty ID is filled by the store.
type NodeCreate struct {
	ID           string     `json:"id,omitempty"`
	TypeID       string     `json:"typeId,omitempty"`
	Position     geom.Point `json:"position"`
	Size         geom.Size  `json:"size"`
	ConsumerData any        `json:"consumerData,omitempty"`
}

// NodeDelete removes a node and every edge incident to it.
type NodeDelete struct {
	ID string `json:"id"`
}

type NodeDragStart struct {
	ID string `json:"id"`
}

// NodeDrag moves a node's top-left corner to Position.
type NodeDrag struct {
	ID       string     `json:"id"`
	Position geom.Point `json:"position"`
}

type NodeDragEnd struct {
	ID string `json:"id"`
}

// NodeSelect selects a node. Additive toggles membership instead of
// replacing the selection.
type NodeSelect struct {
	ID       string `json:"id"`
	Additive bool   `json:"additive,omitempty"`
}

// EdgeCreate connects Src to Dest. An empty ID is filled by the store.
type EdgeCreate struct {
	ID           string `json:"id,omitempty"`
	Src          string `json:"src"`
	Dest         string `json:"dest"`
	ConsumerData any    `json:"consumerData,omitempty"`
}

type EdgeDelete struct {
	ID string `json:"id"`
}

type EdgeSelect struct {
	ID       string `json:"id"`
	Additive bool   `json:"additive,omitempty"`
}

// EdgeDragStart begins drawing a potential edge from the Src node.
type EdgeDragStart struct {
	Src      string     `json:"src"`
	Position geom.Point `json:"position"`
}

type EdgeDrag struct {
	Position geom.Point `json:"position"`
}

// EdgeDragEnd discards the potential edge.
type EdgeDragEnd struct{}

// PotentialNodeDragStart begins dragging a library item of TypeID.
type PotentialNodeDragStart struct {
	TypeID   string     `json:"typeId"`
	Position geom.Point `json:"position"`
	Size     geom.Size  `json:"size"`
}

type PotentialNodeDrag struct {
	Position geom.Point `json:"position"`
}

// PotentialNodeDragEnd discards the potential node.
type PotentialNodeDragEnd struct{}

type PanelDragStart struct {
	ID string `json:"id"`
}

// PanelDrag moves a panel to an absolute container Position.
type PanelDrag struct {
	ID       string     `json:"id"`
	Position geom.Point `json:"position"`
}

// PanelDragEnd docks or undocks the panel depending on where it was dropped.
type PanelDragEnd struct {
	ID string `json:"id"`
}

// WorkspaceDrag pans the workspace by Delta container pixels.
type WorkspaceDrag struct {
	Delta geom.Point `json:"delta"`
}

// WorkspaceZoom zooms by Zoom steps around Position (container space).
// Positive Zoom zooms in.
type WorkspaceZoom struct {
	Position geom.Point `json:"position"`
	Zoom     float64    `json:"zoom"`
}

// WorkspaceResize records a new view container size.
type WorkspaceResize struct {
	ContainerSize geom.Size `json:"containerSize"`
}

type WorkspaceResetZoom struct{}

// WorkspaceDeselect clears node and edge selection.
type WorkspaceDeselect struct{}

type FocusNode struct {
	ID string `json:"id"`
}

type FocusSelected struct{}

type Fit struct{}

type SetEditorMode struct {
	Mode diagram.Mode `json:"mode"`
}

type ShowContextMenu struct {
	Position   geom.Point          `json:"position"`
	TargetType diagram.ElementType `json:"targetType"`
	TargetID   string              `json:"targetId,omitempty"`
}

type HideContextMenu struct{}

// UpdateSelectionMarquee sets the marquee rectangle and reselects nodes.
type UpdateSelectionMarquee struct {
	Anchor   geom.Point `json:"anchor"`
	Position geom.Point `json:"position"`
}

type HideSelectionMarquee struct{}

// SelectAll selects every node and clears edge selection.
type SelectAll struct{}

// CreateItems inserts nodes and edges in one step. Duplicate (src, dest)
// pairs are not suppressed.
type CreateItems struct {
	Nodes []diagram.Node `json:"nodes,omitempty"`
	Edges []diagram.Edge `json:"edges,omitempty"`
}

// DeleteItems removes nodes (with their incident edges) and edges in one step.
type DeleteItems struct {
	NodeIDs []string `json:"nodeIds,omitempty"`
	EdgeIDs []string `json:"edgeIds,omitempty"`
}

type Undo struct{}

type Redo struct{}

// Layout applies computed node positions and canvas size atomically.
type Layout struct {
	Positions  map[string]geom.Point `json:"positions"`
	CanvasSize geom.Size             `json:"canvasSize"`
}

func (*NodeCreate) Type() Type             { return TypeNodeCreate }
func (*NodeDelete) Type() Type             { return TypeNodeDelete }
func (*NodeDragStart) Type() Type          { return TypeNodeDragStart }
func (*NodeDrag) Type() Type               { return TypeNodeDrag }
func (*NodeDragEnd) Type() Type            { return TypeNodeDragEnd }
func (*NodeSelect) Type() Type             { return TypeNodeSelect }
func (*EdgeCreate) Type() Type             { return TypeEdgeCreate }
func (*EdgeDelete) Type() Type             { return TypeEdgeDelete }
func (*EdgeSelect) Type() Type             { return TypeEdgeSelect }
func (*EdgeDragStart) Type() Type          { return TypeEdgeDragStart }
func (*EdgeDrag) Type() Type               { return TypeEdgeDrag }
func (*EdgeDragEnd) Type() Type            { return TypeEdgeDragEnd }
func (*PotentialNodeDragStart) Type() Type { return TypePotentialNodeDragStart }
func (*PotentialNodeDrag) Type() Type      { return TypePotentialNodeDrag }
func (*PotentialNodeDragEnd) Type() Type   { return TypePotentialNodeDragEnd }
func (*PanelDragStart) Type() Type         { return TypePanelDragStart }
func (*PanelDrag) Type() Type              { return TypePanelDrag }
func (*PanelDragEnd) Type() Type           { return TypePanelDragEnd }
func (*WorkspaceDrag) Type() Type          { return TypeWorkspaceDrag }
func (*WorkspaceZoom) Type() Type          { return TypeWorkspaceZoom }
func (*WorkspaceResize) Type() Type        { return TypeWorkspaceResize }
func (*WorkspaceResetZoom) Type() Type     { return TypeWorkspaceResetZoom }
func (*WorkspaceDeselect) Type() Type      { return TypeWorkspaceDeselect }
func (*FocusNode) Type() Type              { return TypeFocusNode }
func (*FocusSelected) Type() Type          { return TypeFocusSelected }
func (*Fit) Type() Type                    { return TypeFit }
func (*SetEditorMode) Type() Type          { return TypeSetEditorMode }
func (*ShowContextMenu) Type() Type        { return TypeShowContextMenu }
func (*HideContextMenu) Type() Type        { return TypeHideContextMenu }
func (*UpdateSelectionMarquee) Type() Type { return TypeUpdateSelectionMarquee }
func (*HideSelectionMarquee) Type() Type   { return TypeHideSelectionMarquee }
func (*SelectAll) Type() Type              { return TypeSelectAll }
func (*CreateItems) Type() Type            { return TypeCreateItems }
func (*DeleteItems) Type() Type            { return TypeDeleteItems }
func (*Undo) Type() Type                   { return TypeUndo }
func (*Redo) Type() Type                   { return TypeRedo }
func (*Layout) Type() Type                 { return TypeLayout }

func (*NodeCreate) sealed()             {}
func (*NodeDelete) sealed()             {}
func (*NodeDragStart) sealed()          {}
func (*NodeDrag) sealed()               {}
func (*NodeDragEnd) sealed()            {}
func (*NodeSelect) sealed()             {}
func (*EdgeCreate) sealed()             {}
func (*EdgeDelete) sealed()             {}
func (*EdgeSelect) sealed()             {}
func (*EdgeDragStart) sealed()          {}
func (*EdgeDrag) sealed()               {}
func (*EdgeDragEnd) sealed()            {}
func (*PotentialNodeDragStart) sealed() {}
func (*PotentialNodeDrag) sealed()      {}
func (*PotentialNodeDragEnd) sealed()   {}
func (*PanelDragStart) sealed()         {}
func (*PanelDrag) sealed()              {}
func (*PanelDragEnd) sealed()           {}
func (*WorkspaceDrag) sealed()          {}
func (*WorkspaceZoom) sealed()          {}
func (*WorkspaceResize) sealed()        {}
func (*WorkspaceResetZoom) sealed()     {}
func (*WorkspaceDeselect) sealed()      {}
func (*FocusNode) sealed()              {}
func (*FocusSelected) sealed()          {}
func (*Fit) sealed()                    {}
func (*SetEditorMode) sealed()          {}
func (*ShowContextMenu) sealed()        {}
func (*HideContextMenu) sealed()        {}
func (*UpdateSelectionMarquee) sealed() {}
func (*HideSelectionMarquee) sealed()   {}
func (*SelectAll) sealed()              {}
func (*CreateItems) sealed()            {}
func (*DeleteItems) sealed()            {}
func (*Undo) sealed()                   {}
func (*Redo) sealed()                   {}
func (*Layout) sealed()                 {}

// Undoable reports whether a is a structural edit recorded in history.
// Moves, pans, zooms and selection changes are not.
func Undoable(a Action) bool {
	switch a.(type) {
	case *NodeCreate, *NodeDelete, *EdgeCreate, *EdgeDelete, *CreateItems, *DeleteItems:
		return true
	}
	return false
}

// Structural reports whether a edits the graph and is therefore refused in
// read-only mode. Panels are editor chrome and stay movable.
func Structural(a Action) bool {
	switch a.(type) {
	case *NodeCreate, *NodeDelete, *NodeDragStart, *NodeDrag, *NodeDragEnd,
		*EdgeCreate, *EdgeDelete, *EdgeDragStart, *EdgeDrag,
		*PotentialNodeDragStart, *PotentialNodeDrag,
		*CreateItems, *DeleteItems, *Undo, *Redo, *Layout:
		return true
	}
	return false
}
