// Package layout computes node arrangements for a diagram.
//
// Every algorithm is a pure function of the graph and options returning a
// Result: a position for each node it placed and the canvas size needed to
// hold them. The caller applies a Result in one step (action.Layout), so a
// layout is never partially applied. Nodes an algorithm cannot place keep
// their existing positions.
package layout

import (
	"context"
	"math"
	"slices"

	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// Algorithm selects a layout strategy.
type Algorithm string

const (
	Workflow     Algorithm = "WORKFLOW"
	Hierarchical Algorithm = "HIERARCHICAL"
	Force        Algorithm = "FORCE"
)

// Direction is the flow direction of layered layouts.
type Direction string

const (
	LeftRight Direction = "LEFT_RIGHT"
	RightLeft Direction = "RIGHT_LEFT"
	TopBottom Direction = "TOP_BOTTOM"
	BottomTop Direction = "BOTTOM_TOP"
)

const (
	DefaultDistanceMin = 50.0
	DefaultMargin      = 40.0
)

// Options configures a layout run.
type Options struct {
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm" toml:"algorithm"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	// DistanceMin is the minimum gap between neighbouring nodes.
	DistanceMin float64 `json:"distanceMin,omitempty" yaml:"distanceMin,omitempty" toml:"distance_min,omitempty"`
	// Margin is kept free around the laid out nodes.
	Margin float64 `json:"margin,omitempty" yaml:"margin,omitempty" toml:"margin,omitempty"`
	// Fixed nodes seed the first layer; the first one keeps its position.
	Fixed []string `json:"fixedNodeIds,omitempty" yaml:"fixedNodeIds,omitempty" toml:"fixed,omitempty"`
	// NoGraphviz forces the native layered fallback for Hierarchical.
	NoGraphviz bool `json:"-" yaml:"-" toml:"no_graphviz,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Algorithm == "" {
		o.Algorithm = Workflow
	}
	if o.Direction == "" {
		if o.Algorithm == Hierarchical {
			o.Direction = TopBottom
		} else {
			o.Direction = LeftRight
		}
	}
	if o.DistanceMin <= 0 {
		o.DistanceMin = DefaultDistanceMin
	}
	if o.Margin < 0 {
		o.Margin = 0
	} else if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	return o
}

// Result is the outcome of a layout run.
type Result struct {
	Positions  map[string]geom.Point
	CanvasSize geom.Size
}

// Compute runs the algorithm named in opts over the graph in s.
func Compute(ctx context.Context, s diagram.State, opts Options) (Result, error) {
	opts = opts.withDefaults()
	g := newGraph(s)
	if len(g.nodes) == 0 {
		return Result{Positions: map[string]geom.Point{}, CanvasSize: s.Workspace.CanvasSize}, nil
	}

	var pos map[string]geom.Point
	switch opts.Algorithm {
	case Workflow:
		pos = workflow(g, opts)
	case Hierarchical:
		pos = hierarchical(ctx, g, opts)
	case Force:
		pos = force(g, opts)
	default:
		return Result{}, errors.New(errors.ErrCodeInvalidConfig, "unknown layout algorithm %q", opts.Algorithm)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeLayout, err, "layout cancelled")
	}
	return finish(g, s, pos, opts), nil
}

// graph is the active subgraph a layout works on: node ids in sorted
// order, deduplicated adjacency without self loops.
type graph struct {
	nodes    []string
	size     map[string]geom.Size
	current  map[string]geom.Point
	forward  map[string][]string
	backward map[string][]string
}

func newGraph(s diagram.State) *graph {
	g := &graph{
		nodes:    s.NodeIDs(),
		size:     make(map[string]geom.Size, len(s.Nodes)),
		current:  make(map[string]geom.Point, len(s.Nodes)),
		forward:  make(map[string][]string),
		backward: make(map[string][]string),
	}
	for id, n := range s.Nodes {
		g.size[id] = n.Size
		g.current[id] = n.Position
	}

	seen := make(map[[2]string]bool)
	for _, e := range s.ActiveEdges() {
		if e.Src == e.Dest {
			continue
		}
		key := [2]string{e.Src, e.Dest}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.forward[e.Src] = append(g.forward[e.Src], e.Dest)
		g.backward[e.Dest] = append(g.backward[e.Dest], e.Src)
	}
	for _, id := range g.nodes {
		slices.Sort(g.forward[id])
		slices.Sort(g.backward[id])
	}
	return g
}

// sources returns the roots layering starts from: the fixed nodes if any
// exist, otherwise nodes without incoming edges.
func (g *graph) sources(fixed []string) []string {
	var out []string
	for _, id := range fixed {
		if _, ok := g.size[id]; ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, id := range g.nodes {
		if len(g.backward[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// finish discards unusable coordinates, honours the fixed anchor, shifts
// the arrangement inside the margin and sizes the canvas.
func finish(g *graph, s diagram.State, pos map[string]geom.Point, opts Options) Result {
	for id, p := range pos {
		if !finite(p) {
			delete(pos, id)
		}
	}

	if len(opts.Fixed) > 0 {
		if p, ok := pos[opts.Fixed[0]]; ok {
			shift(pos, g.current[opts.Fixed[0]].Sub(p))
		}
	}

	var rects []geom.Rect
	for id, p := range pos {
		rects = append(rects, geom.RectAt(p, g.size[id]))
	}
	canvas := s.Workspace.CanvasSize
	box, ok := geom.BoundingBox(rects)
	if !ok {
		return Result{Positions: pos, CanvasSize: canvas}
	}

	// Keep every node at least a margin away from the canvas origin.
	var d geom.Point
	if box.X < opts.Margin {
		d.X = opts.Margin - box.X
	}
	if box.Y < opts.Margin {
		d.Y = opts.Margin - box.Y
	}
	shift(pos, d)

	canvas.Width = math.Max(canvas.Width, box.Right()+d.X+opts.Margin)
	canvas.Height = math.Max(canvas.Height, box.Bottom()+d.Y+opts.Margin)
	view := s.Workspace.ViewContainerSize
	canvas.Width = math.Max(canvas.Width, view.Width)
	canvas.Height = math.Max(canvas.Height, view.Height)
	return Result{Positions: pos, CanvasSize: canvas}
}

func shift(pos map[string]geom.Point, d geom.Point) {
	if d == (geom.Point{}) {
		return
	}
	for id, p := range pos {
		pos[id] = p.Add(d)
	}
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
