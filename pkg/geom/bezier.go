// Edge curve geometry. Edges are drawn as a single cubic Bézier between two
// connector points; the two interior control points are the inflection
// points computed from the connector placement.

package geom

import "math"

// Placement describes where connectors sit on a node.
type Placement string

const (
	PlacementLeftRight Placement = "LeftRight"
	PlacementTopBottom Placement = "TopBottom"
	PlacementCentered  Placement = "Centered"
	PlacementBoundary  Placement = "Boundary"
)

// minCurl keeps short or backwards edges from collapsing into a straight
// line through the node they leave.
const minCurl = 30.0

// InflectionPoints returns the two interior control points of the curve
// from src to dest.
func InflectionPoints(src, dest Point, placement Placement) (Point, Point) {
	switch placement {
	case PlacementLeftRight:
		off := math.Max(math.Abs(dest.X-src.X)/2, minCurl)
		return Point{src.X + off, src.Y}, Point{dest.X - off, dest.Y}
	case PlacementTopBottom:
		off := math.Max(math.Abs(dest.Y-src.Y)/2, minCurl)
		return Point{src.X, src.Y + off}, Point{dest.X, dest.Y - off}
	default:
		return src, dest
	}
}

// ConnectorPoints returns the output connector of the source rectangle and
// the input connector of the destination rectangle.
func ConnectorPoints(src, dest Rect, placement Placement, shape Shape) (Point, Point) {
	switch placement {
	case PlacementLeftRight:
		return Point{src.Right(), src.Y + src.H/2}, Point{dest.X, dest.Y + dest.H/2}
	case PlacementTopBottom:
		return Point{src.X + src.W/2, src.Bottom()}, Point{dest.X + dest.W/2, dest.Y}
	case PlacementBoundary:
		return BoundaryPoint(shape, src, dest.Center()), BoundaryPoint(shape, dest, src.Center())
	default:
		return src.Center(), dest.Center()
	}
}

// Cubic evaluates the cubic Bézier p0,p1,p2,p3 at t in [0,1].
func Cubic(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*p0.X + 3*mt2*t*p1.X + 3*mt*t2*p2.X + t3*p3.X,
		Y: mt3*p0.Y + 3*mt2*t*p1.Y + 3*mt*t2*p2.Y + t3*p3.Y,
	}
}

// CubicTangent returns the derivative of the curve at t.
func CubicTangent(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: 3*mt2*(p1.X-p0.X) + 6*mt*t*(p2.X-p1.X) + 3*t2*(p3.X-p2.X),
		Y: 3*mt2*(p1.Y-p0.Y) + 6*mt*t*(p2.Y-p1.Y) + 3*t2*(p3.Y-p2.Y),
	}
}

// Flatten samples the curve into n+1 points for polyline rendering.
func Flatten(p0, p1, p2, p3 Point, n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, Cubic(p0, p1, p2, p3, float64(i)/float64(n)))
	}
	return pts
}

// ArrowHead returns the two barb points of an arrowhead of the given
// length whose tip sits at tip, pointing along dir.
func ArrowHead(tip, dir Point, length float64) (Point, Point) {
	d := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y)
	if d < 0.001 {
		dir, d = Point{1, 0}, 1
	}
	ux, uy := dir.X/d, dir.Y/d
	// Barbs at +/- 25 degrees
	const spread = 0.436
	cos, sin := math.Cos(spread), math.Sin(spread)
	l := Point{
		X: tip.X - length*(ux*cos-uy*sin),
		Y: tip.Y - length*(uy*cos+ux*sin),
	}
	r := Point{
		X: tip.X - length*(ux*cos+uy*sin),
		Y: tip.Y - length*(uy*cos-ux*sin),
	}
	return l, r
}
