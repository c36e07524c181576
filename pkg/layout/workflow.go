package layout

import "github.com/ha1tch/diagram-toolkit/pkg/geom"

// workflow layers nodes by breadth-first distance from the sources and
// lays the layers out along the configured direction. Components with no
// source (pure cycles) and unreachable nodes start a new search at the
// smallest remaining id, on layer zero.
func workflow(g *graph, opts Options) map[string]geom.Point {
	layer := make(map[string]int, len(g.nodes))
	maxLayer := 0

	bfs := func(roots []string) {
		queue := make([]string, 0, len(roots))
		for _, r := range roots {
			if _, seen := layer[r]; !seen {
				layer[r] = 0
				queue = append(queue, r)
			}
		}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.forward[cur] {
				if _, seen := layer[next]; seen {
					continue
				}
				layer[next] = layer[cur] + 1
				if layer[next] > maxLayer {
					maxLayer = layer[next]
				}
				queue = append(queue, next)
			}
		}
	}

	bfs(g.sources(opts.Fixed))
	for _, id := range g.nodes {
		if _, seen := layer[id]; !seen {
			bfs([]string{id})
		}
	}

	layers := make([][]string, maxLayer+1)
	for _, id := range g.nodes {
		layers[layer[id]] = append(layers[layer[id]], id)
	}
	layers = reduceCrossings(layers, g)
	return placeLayers(layers, g, opts.Direction, opts.DistanceMin)
}
