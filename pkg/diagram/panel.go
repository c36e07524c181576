package diagram

import "github.com/ha1tch/diagram-toolkit/pkg/geom"

// AnchorCorner returns the viewport corner for anchor.
func AnchorCorner(anchor Anchor, view geom.Size) geom.Point {
	switch anchor {
	case AnchorTopRight:
		return geom.Point{X: view.Width, Y: 0}
	case AnchorBottomLeft:
		return geom.Point{X: 0, Y: view.Height}
	case AnchorBottomRight:
		return geom.Point{X: view.Width, Y: view.Height}
	default:
		return geom.Point{}
	}
}

// panelCorner returns the corner of the panel that faces anchor.
func panelCorner(anchor Anchor, pos geom.Point, size geom.Size) geom.Point {
	switch anchor {
	case AnchorTopRight:
		return geom.Point{X: pos.X + size.Width, Y: pos.Y}
	case AnchorBottomLeft:
		return geom.Point{X: pos.X, Y: pos.Y + size.Height}
	case AnchorBottomRight:
		return geom.Point{X: pos.X + size.Width, Y: pos.Y + size.Height}
	default:
		return pos
	}
}

// AnchorOffset converts an absolute panel position into an offset measured
// inward from the anchor corner.
func AnchorOffset(anchor Anchor, pos geom.Point, size geom.Size, view geom.Size) geom.Point {
	d := panelCorner(anchor, pos, size).Sub(AnchorCorner(anchor, view))
	switch anchor {
	case AnchorTopRight:
		d.X = -d.X
	case AnchorBottomLeft:
		d.Y = -d.Y
	case AnchorBottomRight:
		d.X, d.Y = -d.X, -d.Y
	}
	return d
}

// AnchoredPosition is the inverse of AnchorOffset.
func AnchoredPosition(anchor Anchor, offset geom.Point, size geom.Size, view geom.Size) geom.Point {
	c := AnchorCorner(anchor, view)
	switch anchor {
	case AnchorTopRight:
		return geom.Point{X: c.X - offset.X - size.Width, Y: c.Y + offset.Y}
	case AnchorBottomLeft:
		return geom.Point{X: c.X + offset.X, Y: c.Y - offset.Y - size.Height}
	case AnchorBottomRight:
		return geom.Point{X: c.X - offset.X - size.Width, Y: c.Y - offset.Y - size.Height}
	default:
		return c.Add(offset)
	}
}

// NearestAnchor returns the corner within threshold of the matching panel
// corner, or AnchorNone.
func NearestAnchor(pos geom.Point, size geom.Size, view geom.Size, threshold float64) Anchor {
	best, bestDist := AnchorNone, threshold
	for _, a := range Anchors {
		off := AnchorOffset(a, pos, size, view)
		// Both axes must be within the snap distance of the corner.
		d := max(abs(off.X), abs(off.Y))
		if d <= bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
