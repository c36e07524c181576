package layout

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

func newState(nodes []string, edges [][2]string) diagram.State {
	s := diagram.New()
	s.Workspace.ViewContainerSize = geom.Size{Width: 1200, Height: 900}
	for i, id := range nodes {
		s.Nodes[id] = diagram.Node{
			ID:       id,
			Position: geom.Point{X: float64(i * 10), Y: float64(i * 10)},
			Size:     geom.Size{Width: 100, Height: 50},
		}
	}
	for i, e := range edges {
		id := fmt.Sprintf("e%d", i)
		s.Edges[id] = diagram.Edge{ID: id, Src: e[0], Dest: e[1]}
	}
	return s
}

func compute(t *testing.T, s diagram.State, opts Options) Result {
	t.Helper()
	r, err := Compute(context.Background(), s, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return r
}

func assertNoOverlap(t *testing.T, s diagram.State, r Result) {
	t.Helper()
	ids := s.NodeIDs()
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			ra := geom.RectAt(r.Positions[a], s.Nodes[a].Size)
			rb := geom.RectAt(r.Positions[b], s.Nodes[b].Size)
			if ra.Intersects(rb) {
				t.Errorf("%s %v overlaps %s %v", a, ra, b, rb)
			}
		}
	}
}

func TestWorkflowDirections(t *testing.T) {
	s := newState([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	tests := []struct {
		dir   Direction
		order func(p, q geom.Point) bool
	}{
		{LeftRight, func(p, q geom.Point) bool { return p.X < q.X && p.Y == q.Y }},
		{RightLeft, func(p, q geom.Point) bool { return p.X > q.X && p.Y == q.Y }},
		{TopBottom, func(p, q geom.Point) bool { return p.Y < q.Y && p.X == q.X }},
		{BottomTop, func(p, q geom.Point) bool { return p.Y > q.Y && p.X == q.X }},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			r := compute(t, s, Options{Algorithm: Workflow, Direction: tt.dir})
			a, b, c := r.Positions["a"], r.Positions["b"], r.Positions["c"]
			if !tt.order(a, b) || !tt.order(b, c) {
				t.Errorf("unexpected order a=%v b=%v c=%v", a, b, c)
			}
			assertNoOverlap(t, s, r)
		})
	}
}

func TestWorkflowMinimumDistance(t *testing.T) {
	s := newState([]string{"a", "b"}, [][2]string{{"a", "b"}})
	r := compute(t, s, Options{Algorithm: Workflow, DistanceMin: 80})

	gap := r.Positions["b"].X - (r.Positions["a"].X + 100)
	if gap != 80 {
		t.Errorf("expected gap 80, got %.1f", gap)
	}
	if r.Positions["a"].X != DefaultMargin || r.Positions["a"].Y != DefaultMargin {
		t.Errorf("expected first node at the margin, got %v", r.Positions["a"])
	}
}

func TestWorkflowBranches(t *testing.T) {
	s := newState(
		[]string{"root", "x", "y", "z", "leaf"},
		[][2]string{{"root", "x"}, {"root", "y"}, {"root", "z"}, {"x", "leaf"}, {"z", "leaf"}},
	)
	r := compute(t, s, Options{Algorithm: Workflow})

	if len(r.Positions) != 5 {
		t.Fatalf("expected 5 positions, got %d", len(r.Positions))
	}
	if !(r.Positions["root"].X < r.Positions["x"].X && r.Positions["x"].X < r.Positions["leaf"].X) {
		t.Errorf("layers out of order: %v", r.Positions)
	}
	if r.Positions["x"].X != r.Positions["y"].X || r.Positions["y"].X != r.Positions["z"].X {
		t.Errorf("x, y and z should share a layer: %v", r.Positions)
	}
	assertNoOverlap(t, s, r)
}

func TestDisconnectedAndCyclic(t *testing.T) {
	s := newState(
		[]string{"a", "b", "c", "lonely", "p", "q"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"p", "q"}},
	)
	for _, algo := range []Algorithm{Workflow, Hierarchical, Force} {
		t.Run(string(algo), func(t *testing.T) {
			r := compute(t, s, Options{Algorithm: algo, NoGraphviz: true})
			if len(r.Positions) != len(s.Nodes) {
				t.Fatalf("expected %d positions, got %d", len(s.Nodes), len(r.Positions))
			}
			assertNoOverlap(t, s, r)
		})
	}
}

func TestDanglingEdgesIgnored(t *testing.T) {
	s := newState([]string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "gone"}, {"gone", "b"}})
	r := compute(t, s, Options{Algorithm: Workflow})
	if len(r.Positions) != 2 {
		t.Errorf("expected 2 positions, got %d", len(r.Positions))
	}
}

func TestEmptyGraph(t *testing.T) {
	s := diagram.New()
	r := compute(t, s, Options{Algorithm: Hierarchical})
	if len(r.Positions) != 0 {
		t.Errorf("expected no positions, got %v", r.Positions)
	}
	if r.CanvasSize != s.Workspace.CanvasSize {
		t.Errorf("canvas changed: %v", r.CanvasSize)
	}
}

func TestCanvasGrowsNeverShrinks(t *testing.T) {
	var nodes []string
	var edges [][2]string
	for i := 0; i < 40; i++ {
		nodes = append(nodes, fmt.Sprintf("n%02d", i))
		if i > 0 {
			edges = append(edges, [2]string{nodes[i-1], nodes[i]})
		}
	}
	s := newState(nodes, edges)
	r := compute(t, s, Options{Algorithm: Workflow})

	last := r.Positions["n39"]
	if r.CanvasSize.Width < last.X+100+DefaultMargin {
		t.Errorf("canvas %v does not hold %v", r.CanvasSize, last)
	}

	small := newState([]string{"a"}, nil)
	r = compute(t, small, Options{Algorithm: Workflow})
	if r.CanvasSize != small.Workspace.CanvasSize {
		t.Errorf("canvas shrank to %v", r.CanvasSize)
	}
}

func TestFixedNodeKeepsPosition(t *testing.T) {
	s := newState([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	b := s.Nodes["b"]
	b.Position = geom.Point{X: 500, Y: 400}
	s.Nodes["b"] = b

	r := compute(t, s, Options{Algorithm: Workflow, Fixed: []string{"b"}})
	if r.Positions["b"] != b.Position {
		t.Errorf("fixed node moved to %v", r.Positions["b"])
	}
}

func TestLayeredBreaksCycles(t *testing.T) {
	s := newState([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	g := newGraph(s)
	pos := layered(g, Options{Direction: TopBottom, DistanceMin: 50, Fixed: []string{"a"}})
	if !(pos["a"].Y < pos["b"].Y && pos["b"].Y < pos["c"].Y) {
		t.Errorf("expected a, b, c on successive layers: %v", pos)
	}
}

func TestForceDeterministic(t *testing.T) {
	s := newState([]string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}})
	r1 := compute(t, s, Options{Algorithm: Force})
	r2 := compute(t, s, Options{Algorithm: Force})
	for id, p := range r1.Positions {
		if r2.Positions[id] != p {
			t.Errorf("%s: %v != %v", id, p, r2.Positions[id])
		}
	}
	assertNoOverlap(t, s, r1)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := Compute(context.Background(), newState([]string{"a"}, nil), Options{Algorithm: "SPIRAL"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestToDOT(t *testing.T) {
	s := newState([]string{"a", "b"}, [][2]string{{"a", "b"}})
	dot := toDOT(newGraph(s), Options{Direction: LeftRight, DistanceMin: 72, Fixed: []string{"a"}}.withDefaults())

	for _, want := range []string{
		"rankdir=LR;",
		"nodesep=1.0000;",
		`"a" [width=1.3889, height=0.6944];`,
		`{ rank=source; "a"; }`,
		`"a" -> "b";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestGraphvizLayout(t *testing.T) {
	s := newState([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}})
	pos, err := dotLayout(context.Background(), newGraph(s), Options{Direction: TopBottom, DistanceMin: 50})
	if err != nil {
		t.Skipf("graphviz unavailable: %v", err)
	}
	if !(pos["a"].Y < pos["b"].Y && pos["b"].Y == pos["c"].Y) {
		t.Errorf("expected a above b and c: %v", pos)
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("27,18.5!", 2)
	if err != nil || got[0] != 27 || got[1] != 18.5 {
		t.Errorf("parseFloats = %v, %v", got, err)
	}
	if _, err := parseFloats("1,2,3", 2); err == nil {
		t.Error("expected error for wrong arity")
	}
}
