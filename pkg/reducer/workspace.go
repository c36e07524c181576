package reducer

import (
	"math"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

func reduceWorkspace(r *Reducer, s diagram.State, a action.Action) diagram.State {
	ws := s.Workspace

	switch a := a.(type) {
	case *action.WorkspaceDrag:
		ws.Position = ws.Position.Add(a.Delta)

	case *action.WorkspaceZoom:
		scale := r.clampScale(ws, ws.Scale*(1+a.Zoom*ZoomSpeed))
		ws.Position = geom.ZoomAnchored(a.Position, ws.Position, ws.Scale, scale)
		ws.Scale = scale

	case *action.WorkspaceResize:
		ws.ViewContainerSize = a.ContainerSize
		ws.Scale = r.clampScale(ws, ws.Scale)

	case *action.WorkspaceResetZoom:
		ws.Scale = 1
		ws.Position = geom.Point{
			X: (ws.ViewContainerSize.Width - ws.CanvasSize.Width) / 2,
			Y: (ws.ViewContainerSize.Height - ws.CanvasSize.Height) / 2,
		}

	case *action.FocusNode:
		return r.focus(s, []string{a.ID})

	case *action.FocusSelected:
		return r.focus(s, s.SelectedNodeIDs())

	case *action.Fit:
		return r.focus(s, s.NodeIDs())

	case *action.Layout:
		if a.CanvasSize.Width > 0 && a.CanvasSize.Height > 0 {
			ws.CanvasSize = a.CanvasSize
		}
		ws.Scale = r.clampScale(ws, ws.Scale)

	default:
		return s
	}

	ws.Position = geom.ClampPan(ws.Position, ws.CanvasSize, ws.ViewContainerSize, ws.Scale)
	s.Workspace = ws
	return s
}

// clampScale bounds scale to [minScale, maxScale], where minScale keeps the
// canvas filling the viewport.
func (r *Reducer) clampScale(ws diagram.Workspace, scale float64) float64 {
	lo := geom.MinScale(ws.ViewContainerSize, ws.CanvasSize)
	return geom.Clamp(scale, lo, math.Max(r.opts.MaxScale, lo))
}

// focus zooms and pans so the padded bounding box of ids fills the view.
// No nodes means no change.
func (r *Reducer) focus(s diagram.State, ids []string) diagram.State {
	box, ok := s.NodesBounds(ids)
	if !ok {
		return s
	}
	ws := s.Workspace
	view := ws.ViewContainerSize
	if view.Width <= 0 || view.Height <= 0 {
		return s
	}

	box = box.Pad(r.opts.FitPadding)
	scale := math.Min(view.Width/box.W, view.Height/box.H)
	ws.Scale = r.clampScale(ws, scale)

	center := box.Center()
	ws.Position = geom.Point{
		X: view.Width/2 - center.X*ws.Scale,
		Y: view.Height/2 - center.Y*ws.Scale,
	}
	ws.Position = geom.ClampPan(ws.Position, ws.CanvasSize, view, ws.Scale)
	s.Workspace = ws
	return s
}
