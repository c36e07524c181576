package geom

import "math"

// MinScale is the smallest zoom factor at which the canvas still fills the
// viewport on both axes.
func MinScale(view, canvas Size) float64 {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return 0
	}
	return math.Max(view.Width/canvas.Width, view.Height/canvas.Height)
}

// ZoomAnchored returns the pan position that keeps the workspace point under
// cursor fixed when the scale changes from oldScale to newScale.
//
//	newPos = cursor - (cursor - oldPos) * (newScale / oldScale)
func ZoomAnchored(cursor, oldPos Point, oldScale, newScale float64) Point {
	if oldScale == 0 {
		return oldPos
	}
	ratio := newScale / oldScale
	return Point{
		X: cursor.X - (cursor.X-oldPos.X)*ratio,
		Y: cursor.Y - (cursor.Y-oldPos.Y)*ratio,
	}
}

// ClampAxis clamps a pan offset along one axis. A canvas that fits inside
// the view is centred; otherwise the offset is kept in [view-extent, 0] so
// no empty space beyond the canvas edge is revealed.
func ClampAxis(pos, canvas, view, scale float64) float64 {
	extent := canvas * scale
	if extent <= view {
		return (view - extent) / 2
	}
	return Clamp(pos, view-extent, 0)
}

// ClampPan applies ClampAxis on both axes.
func ClampPan(pos Point, canvas, view Size, scale float64) Point {
	return Point{
		X: ClampAxis(pos.X, canvas.Width, view.Width, scale),
		Y: ClampAxis(pos.Y, canvas.Height, view.Height, scale),
	}
}

// ToWorkspace inverts the workspace transform (translate by pan, then scale
// by zoom) for a point given in container coordinates.
func ToWorkspace(p, pan Point, zoom float64) Point {
	if zoom == 0 {
		zoom = 1
	}
	return Point{(p.X - pan.X) / zoom, (p.Y - pan.Y) / zoom}
}

// FromWorkspace applies the workspace transform to a workspace point.
func FromWorkspace(p, pan Point, zoom float64) Point {
	return Point{p.X*zoom + pan.X, p.Y*zoom + pan.Y}
}
