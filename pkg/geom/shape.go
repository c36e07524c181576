package geom

import "math"

// Shape is the outline used when clipping edges against a node.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
)

// BoundaryPoint returns where the ray from the centre of r toward target
// leaves the outline of shape. A target at the centre yields the centre.
func BoundaryPoint(shape Shape, r Rect, target Point) Point {
	c := r.Center()
	dx, dy := target.X-c.X, target.Y-c.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1e-9 {
		return c
	}

	switch shape {
	case ShapeCircle:
		radius := math.Min(r.W, r.H) / 2
		return Point{c.X + dx/dist*radius, c.Y + dy/dist*radius}
	default:
		halfW, halfH := r.W/2, r.H/2
		k := math.Inf(1)
		if dx != 0 {
			k = math.Min(k, halfW/math.Abs(dx))
		}
		if dy != 0 {
			k = math.Min(k, halfH/math.Abs(dy))
		}
		return Point{c.X + dx*k, c.Y + dy*k}
	}
}
