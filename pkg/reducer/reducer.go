// Package reducer implements the pure state transitions of the editor.
//
// Each domain (nodes, edges, selection, panels, workspace, editor, potential
// node, potential edge) has its own reducer. A static route table maps every
// action type to the ordered list of domain reducers that handle it; Reduce
// threads the state through that list. Reducers never mutate their input:
// maps are cloned before any write, and untouched domains keep their maps.
package reducer

import (
	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

const (
	// ZoomSpeed converts one wheel step into a relative scale change:
	// newScale = scale * (1 + zoom*ZoomSpeed).
	ZoomSpeed = 0.006

	DefaultMaxScale     = 3.0
	DefaultFitPadding   = 20.0
	DefaultSnapDistance = 16.0
)

// Options tunes reducer behaviour.
type Options struct {
	MaxScale     float64              // Upper zoom bound
	FitPadding   float64              // Buffer around fit/focus boxes
	SnapDistance float64              // Panel dock threshold
	NodeSizes    map[string]geom.Size // Default size per node type
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		MaxScale:     DefaultMaxScale,
		FitPadding:   DefaultFitPadding,
		SnapDistance: DefaultSnapDistance,
	}
}

// Reducer applies actions to states.
type Reducer struct {
	opts Options
}

// New creates a Reducer. Zero-valued options fall back to the defaults.
func New(opts Options) *Reducer {
	def := DefaultOptions()
	if opts.MaxScale <= 0 {
		opts.MaxScale = def.MaxScale
	}
	if opts.FitPadding <= 0 {
		opts.FitPadding = def.FitPadding
	}
	if opts.SnapDistance <= 0 {
		opts.SnapDistance = def.SnapDistance
	}
	return &Reducer{opts: opts}
}

// Options returns the effective options.
func (r *Reducer) Options() Options { return r.opts }

type domain func(r *Reducer, s diagram.State, a action.Action) diagram.State

var routes = map[action.Type][]domain{
	action.TypeNodeCreate:    {reduceNodes, reducePotentialNode},
	action.TypeNodeDelete:    {reduceNodes, reduceEdges},
	action.TypeNodeDragStart: {reduceNodes},
	action.TypeNodeDrag:      {reduceNodes},
	action.TypeNodeDragEnd:   {reduceNodes},
	action.TypeNodeSelect:    {reduceSelection},

	action.TypeEdgeCreate:    {reduceEdges, reducePotentialEdge},
	action.TypeEdgeDelete:    {reduceEdges},
	action.TypeEdgeSelect:    {reduceSelection},
	action.TypeEdgeDragStart: {reducePotentialEdge},
	action.TypeEdgeDrag:      {reducePotentialEdge},
	action.TypeEdgeDragEnd:   {reducePotentialEdge},

	action.TypePotentialNodeDragStart: {reducePotentialNode},
	action.TypePotentialNodeDrag:      {reducePotentialNode},
	action.TypePotentialNodeDragEnd:   {reducePotentialNode},

	action.TypePanelDragStart: {reducePanels},
	action.TypePanelDrag:      {reducePanels},
	action.TypePanelDragEnd:   {reducePanels},

	action.TypeWorkspaceDrag:      {reduceWorkspace},
	action.TypeWorkspaceZoom:      {reduceWorkspace},
	action.TypeWorkspaceResize:    {reduceWorkspace, reducePanels},
	action.TypeWorkspaceResetZoom: {reduceWorkspace},
	action.TypeWorkspaceDeselect:  {reduceSelection},
	action.TypeFocusNode:          {reduceWorkspace},
	action.TypeFocusSelected:      {reduceWorkspace},
	action.TypeFit:                {reduceWorkspace},

	action.TypeSetEditorMode:          {reduceEditor, reduceNodes, reducePanels, reducePotentialNode, reducePotentialEdge},
	action.TypeShowContextMenu:        {reduceEditor},
	action.TypeHideContextMenu:        {reduceEditor},
	action.TypeUpdateSelectionMarquee: {reduceEditor, reduceSelection},
	action.TypeHideSelectionMarquee:   {reduceEditor},

	action.TypeSelectAll:   {reduceSelection},
	action.TypeCreateItems: {reduceNodes, reduceEdges},
	action.TypeDeleteItems: {reduceNodes, reduceEdges},
	action.TypeLayout:      {reduceWorkspace, reduceNodes},
}

// Handles reports whether any reducer is routed for t. Undo and Redo are
// history operations and have no reducers.
func Handles(t action.Type) bool {
	_, ok := routes[t]
	return ok
}

// Reduce applies a to s. Structural edits are ignored in read-only mode.
func (r *Reducer) Reduce(s diagram.State, a action.Action) diagram.State {
	if s.Editor.Mode == diagram.ModeReadOnly && action.Structural(a) {
		return s
	}
	for _, d := range routes[a.Type()] {
		s = d(r, s, a)
	}
	return s
}

// nodeSize resolves the size of a new node: explicit size wins, then the
// configured size for its type.
func (r *Reducer) nodeSize(typeID string, size geom.Size) geom.Size {
	if size.Width > 0 || size.Height > 0 {
		return size
	}
	if sz, ok := r.opts.NodeSizes[typeID]; ok {
		return sz
	}
	return size
}
