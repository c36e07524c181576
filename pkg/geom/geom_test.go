package geom

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestRectFromCornersAnyDirection(t *testing.T) {
	want := Rect{X: 10, Y: 20, W: 30, H: 40}
	corners := [][2]Point{
		{{10, 20}, {40, 60}},
		{{40, 60}, {10, 20}},
		{{40, 20}, {10, 60}},
		{{10, 60}, {40, 20}},
	}
	for _, c := range corners {
		got := RectFromCorners(c[0], c[1])
		if got != want {
			t.Errorf("RectFromCorners(%v, %v) = %v, want %v", c[0], c[1], got, want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{0, 0, 100, 50}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{50, 25, 100, 50}, true},
		{"contained", Rect{10, 10, 5, 5}, true},
		{"touching edge", Rect{100, 0, 10, 10}, true},
		{"right of", Rect{101, 0, 10, 10}, false},
		{"below", Rect{0, 60, 10, 10}, false},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("%s: Intersects = %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.b.Intersects(a); got != tt.want {
			t.Errorf("%s: Intersects not symmetric", tt.name)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{10, 10, 20, 20}
	if !r.Contains(Point{10, 10}) || !r.Contains(Point{30, 30}) {
		t.Errorf("corners should be contained")
	}
	if r.Contains(Point{9, 15}) {
		t.Errorf("(9,15) should be outside")
	}
}

func TestBoundingBox(t *testing.T) {
	if _, ok := BoundingBox(nil); ok {
		t.Errorf("empty input should report !ok")
	}
	box, ok := BoundingBox([]Rect{{200, 150, 100, 50}, {400, 300, 100, 50}})
	if !ok {
		t.Fatal("expected ok")
	}
	want := Rect{200, 150, 300, 200}
	if box != want {
		t.Errorf("BoundingBox = %v, want %v", box, want)
	}
}

func TestOverlap(t *testing.T) {
	if got := Overlap(Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}); got != 25 {
		t.Errorf("Overlap = %v, want 25", got)
	}
	if got := Overlap(Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}); got != 0 {
		t.Errorf("touching rects should not overlap, got %v", got)
	}
}

func TestMinScale(t *testing.T) {
	got := MinScale(Size{1200, 900}, Size{3200, 1600})
	if !approx(got, 0.5625) {
		t.Errorf("MinScale = %v, want 0.5625", got)
	}
	if MinScale(Size{100, 100}, Size{}) != 0 {
		t.Errorf("zero canvas should give 0")
	}
}

func TestZoomAnchoredKeepsCursorFixed(t *testing.T) {
	cursor := Point{600, 450}
	oldPos := Point{-100, -40}
	oldScale, newScale := 1.0, 1.3

	// Workspace point under the cursor before the zoom
	before := ToWorkspace(cursor, oldPos, oldScale)
	newPos := ZoomAnchored(cursor, oldPos, oldScale, newScale)
	after := ToWorkspace(cursor, newPos, newScale)

	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Errorf("anchor moved: before %v after %v", before, after)
	}

	got := ZoomAnchored(Point{600, 450}, Point{0, 0}, 1, 1.3)
	if !approx(got.X, -180) || !approx(got.Y, -135) {
		t.Errorf("ZoomAnchored = %v, want (-180,-135)", got)
	}
}

func TestClampAxis(t *testing.T) {
	tests := []struct {
		name                     string
		pos, canvas, view, scale float64
		want                     float64
	}{
		{"positive offset clamped to zero", 100, 3200, 1200, 1, 0},
		{"far negative clamped", -5000, 3200, 1200, 1, -2000},
		{"inside range untouched", -700, 3200, 1200, 1, -700},
		{"small canvas centred", -300, 500, 1200, 1, 350},
		{"scaled canvas", -5000, 3200, 1200, 0.5, -400},
	}
	for _, tt := range tests {
		if got := ClampAxis(tt.pos, tt.canvas, tt.view, tt.scale); !approx(got, tt.want) {
			t.Errorf("%s: ClampAxis = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWorkspaceTransformRoundTrip(t *testing.T) {
	pan := Point{-120, 35}
	p := Point{333, 444}
	q := FromWorkspace(ToWorkspace(p, pan, 1.7), pan, 1.7)
	if !approx(p.X, q.X) || !approx(p.Y, q.Y) {
		t.Errorf("round trip %v -> %v", p, q)
	}
}

func TestBoundaryPoint(t *testing.T) {
	got := BoundaryPoint(ShapeRectangle, Rect{0, 0, 100, 50}, Point{200, 25})
	if !approx(got.X, 100) || !approx(got.Y, 25) {
		t.Errorf("rectangle boundary = %v, want (100,25)", got)
	}

	got = BoundaryPoint(ShapeCircle, Rect{0, 0, 100, 100}, Point{50, 200})
	if !approx(got.X, 50) || !approx(got.Y, 100) {
		t.Errorf("circle boundary = %v, want (50,100)", got)
	}

	c := BoundaryPoint(ShapeRectangle, Rect{0, 0, 10, 10}, Point{5, 5})
	if c != (Point{5, 5}) {
		t.Errorf("target at centre should return centre, got %v", c)
	}
}
