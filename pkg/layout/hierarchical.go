package layout

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// pointsPerInch converts between Graphviz inches and layout units.
const pointsPerInch = 72.0

// hierarchical lays the graph out with Graphviz's dot engine and falls
// back to the native layered layout when Graphviz is unavailable or fails.
func hierarchical(ctx context.Context, g *graph, opts Options) map[string]geom.Point {
	if !opts.NoGraphviz {
		if pos, err := dotLayout(ctx, g, opts); err == nil {
			return pos
		}
	}
	return layered(g, opts)
}

// layered assigns each node to the layer of its longest path from a
// source, after ignoring the edges that close cycles.
func layered(g *graph, opts Options) map[string]geom.Point {
	back := backEdges(g, g.sources(opts.Fixed))

	indeg := make(map[string]int, len(g.nodes))
	for _, id := range g.nodes {
		for _, next := range g.forward[id] {
			if !back[[2]string{id, next}] {
				indeg[next]++
			}
		}
	}

	layer := make(map[string]int, len(g.nodes))
	var queue []string
	for _, id := range g.nodes {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}
	maxLayer := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.forward[cur] {
			if back[[2]string{cur, next}] {
				continue
			}
			if layer[cur]+1 > layer[next] {
				layer[next] = layer[cur] + 1
				maxLayer = max(maxLayer, layer[next])
			}
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	layers := make([][]string, maxLayer+1)
	for _, id := range g.nodes {
		layers[layer[id]] = append(layers[layer[id]], id)
	}
	layers = reduceCrossings(layers, g)
	return placeLayers(layers, g, opts.Direction, opts.DistanceMin)
}

// backEdges finds the edges that close a cycle during a depth-first walk
// from roots, then from any node not yet visited.
func backEdges(g *graph, roots []string) map[[2]string]bool {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(g.nodes))
	back := make(map[[2]string]bool)

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		for _, next := range g.forward[id] {
			switch state[next] {
			case active:
				back[[2]string{id, next}] = true
			case unvisited:
				visit(next)
			}
		}
		state[id] = done
	}
	for _, id := range roots {
		if state[id] == unvisited {
			visit(id)
		}
	}
	for _, id := range g.nodes {
		if state[id] == unvisited {
			visit(id)
		}
	}
	return back
}

func rankdir(d Direction) string {
	switch d {
	case LeftRight:
		return "LR"
	case RightLeft:
		return "RL"
	case BottomTop:
		return "BT"
	default:
		return "TB"
	}
}

// toDOT describes the graph with fixed-size boxes so dot lays out the
// real node footprints.
func toDOT(g *graph, opts Options) string {
	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	fmt.Fprintf(&sb, "  rankdir=%s;\n", rankdir(opts.Direction))
	fmt.Fprintf(&sb, "  nodesep=%.4f;\n", opts.DistanceMin/pointsPerInch)
	fmt.Fprintf(&sb, "  ranksep=%.4f;\n", opts.DistanceMin/pointsPerInch)
	sb.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n\n")

	for _, id := range g.nodes {
		s := g.size[id]
		fmt.Fprintf(&sb, "  %q [width=%.4f, height=%.4f];\n", id, s.Width/pointsPerInch, s.Height/pointsPerInch)
	}

	var fixed []string
	for _, id := range opts.Fixed {
		if _, ok := g.size[id]; ok {
			fixed = append(fixed, strconv.Quote(id))
		}
	}
	if len(fixed) > 0 {
		fmt.Fprintf(&sb, "  { rank=source; %s; }\n", strings.Join(fixed, "; "))
	}

	sb.WriteString("\n")
	for _, id := range g.nodes {
		for _, next := range g.forward[id] {
			fmt.Fprintf(&sb, "  %q -> %q;\n", id, next)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// dotLayout renders the graph with the dot engine and reads node centres
// back from the laid out output. Graphviz puts the origin at the bottom
// left, so y is flipped against the bounding box.
func dotLayout(ctx context.Context, g *graph, opts Options) (map[string]geom.Point, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	in, err := graphviz.ParseBytes([]byte(toDOT(g, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer in.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, in, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	out, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	defer out.Close()

	bb, err := parseFloats(out.GetStr("bb"), 4)
	if err != nil {
		return nil, fmt.Errorf("bounding box: %w", err)
	}
	height := bb[3] - bb[1]

	pos := make(map[string]geom.Point, len(g.nodes))
	n, err := out.FirstNode()
	for n != nil && err == nil {
		name, nerr := n.Name()
		if nerr != nil {
			return nil, nerr
		}
		if size, ok := g.size[name]; ok {
			c, perr := parseFloats(n.GetStr("pos"), 2)
			if perr != nil {
				return nil, fmt.Errorf("node %s: %w", name, perr)
			}
			pos[name] = geom.Point{
				X: c[0] - bb[0] - size.Width/2,
				Y: height - (c[1] - bb[1]) - size.Height/2,
			}
		}
		n, err = out.NextNode(n)
	}
	if err != nil {
		return nil, err
	}
	if len(pos) != len(g.nodes) {
		return nil, fmt.Errorf("graphviz placed %d of %d nodes", len(pos), len(g.nodes))
	}
	return pos, nil
}

// parseFloats parses a comma separated list of exactly n numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(strings.TrimSuffix(strings.TrimSpace(s), "!"), ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
