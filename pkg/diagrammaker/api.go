package diagrammaker

import (
	"context"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
	"github.com/ha1tch/diagram-toolkit/pkg/layout"
)

// ZoomStep is the zoom amount of one ZoomIn or ZoomOut call, in the same
// units as a wheel delta.
const ZoomStep = 50.0

// API is the imperative interface of a diagram. Every method dispatches
// through the interceptor like user input does.
type API struct {
	d *DiagramMaker
}

// Dispatch sends a through the pipeline.
func (a *API) Dispatch(act action.Action) { a.d.store.Dispatch(act) }

// SetEditorMode switches between drag, select and read-only modes.
func (a *API) SetEditorMode(mode diagram.Mode) {
	a.Dispatch(&action.SetEditorMode{Mode: mode})
}

// FocusNode centres the view on one node.
func (a *API) FocusNode(id string) { a.Dispatch(&action.FocusNode{ID: id}) }

// FocusSelected centres the view on the selected nodes.
func (a *API) FocusSelected() { a.Dispatch(&action.FocusSelected{}) }

// Fit zooms to show every node.
func (a *API) Fit() { a.Dispatch(&action.Fit{}) }

// ZoomIn zooms in one step around the centre of the view.
func (a *API) ZoomIn() { a.zoom(ZoomStep) }

// ZoomOut zooms out one step around the centre of the view.
func (a *API) ZoomOut() { a.zoom(-ZoomStep) }

func (a *API) zoom(z float64) {
	view := a.d.store.State().Workspace.ViewContainerSize
	a.Dispatch(&action.WorkspaceZoom{
		Position: geom.Point{X: view.Width / 2, Y: view.Height / 2},
		Zoom:     z,
	})
}

// ResetZoom returns to scale 1 with the canvas centred.
func (a *API) ResetZoom() { a.Dispatch(&action.WorkspaceResetZoom{}) }

// Undo reverts the last structural edit, if any.
func (a *API) Undo() { a.Dispatch(&action.Undo{}) }

// Redo re-applies the last undone edit, if any.
func (a *API) Redo() { a.Dispatch(&action.Redo{}) }

// Layout arranges the nodes and applies the result as a single action.
// Options left zero fall back to the configured layout defaults.
func (a *API) Layout(ctx context.Context, opts layout.Options) error {
	if a.d.isDestroyed() {
		return errors.New(errors.ErrCodeDestroyed, "layout on a destroyed diagram")
	}
	res, err := layout.Compute(ctx, a.d.store.State(), mergeLayout(opts, a.d.cfg.Layout))
	if err != nil {
		return err
	}
	if len(res.Positions) == 0 {
		return nil
	}
	a.Dispatch(&action.Layout{Positions: res.Positions, CanvasSize: res.CanvasSize})
	return nil
}

// mergeLayout fills the zero fields of opts from the configured defaults.
func mergeLayout(opts, def layout.Options) layout.Options {
	if opts.Algorithm == "" {
		opts.Algorithm = def.Algorithm
	}
	if opts.Direction == "" {
		opts.Direction = def.Direction
	}
	if opts.DistanceMin == 0 {
		opts.DistanceMin = def.DistanceMin
	}
	if opts.Margin == 0 {
		opts.Margin = def.Margin
	}
	if opts.Fixed == nil {
		opts.Fixed = def.Fixed
	}
	opts.NoGraphviz = opts.NoGraphviz || def.NoGraphviz
	return opts
}
