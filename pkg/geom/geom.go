// Geometric primitives for diagram layout and hit-testing.
// All coordinates are in workspace space unless noted otherwise.

package geom

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y" mapstructure:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale multiplies both components by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width" toml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height" mapstructure:"height"`
}

// Rect represents an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64 // Top-left
	W, H float64 // Full width and height
}

// RectAt builds the rectangle occupied by an item at pos with the given size.
func RectAt(pos Point, size Size) Rect {
	return Rect{pos.X, pos.Y, size.Width, size.Height}
}

// RectFromCorners returns the rectangle spanned by two opposite corners,
// in whatever order they are given.
func RectFromCorners(a, b Point) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects reports whether r and o share at least one point.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() && r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Pad grows r by d on every side.
func (r Rect) Pad(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.W + 2*d, r.H + 2*d}
}

// Overlap returns the overlap area between two rectangles.
// Returns 0 if they don't overlap.
func Overlap(a, b Rect) float64 {
	overlapX := math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
	overlapY := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return 0
	}
	return overlapX * overlapY
}

// BoundingBox returns the union of rects. ok is false when rects is empty.
func BoundingBox(rects []Rect) (box Rect, ok bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	box = rects[0]
	for _, r := range rects[1:] {
		box = box.Union(r)
	}
	return box, true
}

// Clamp limits v to [lo, hi]. When lo > hi, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
