package layout

import (
	"math"
	"slices"
	"sort"

	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// crossingPasses is the number of barycentre sweeps run over the layers.
const crossingPasses = 4

// reduceCrossings reorders nodes within layers using the barycentre
// heuristic: each node moves to the mean position of its neighbours in
// the adjacent layer, sweeping down then up.
func reduceCrossings(layers [][]string, g *graph) [][]string {
	if len(layers) <= 1 {
		return layers
	}
	result := make([][]string, len(layers))
	for i := range layers {
		result[i] = slices.Clone(layers[i])
	}

	pos := make(map[string]float64)
	for _, layer := range result {
		for i, id := range layer {
			pos[id] = float64(i)
		}
	}

	order := func(layer []string, neighbours map[string][]string) {
		bary := make(map[string]float64, len(layer))
		for _, id := range layer {
			sum, count := 0.0, 0
			for _, nb := range neighbours[id] {
				if p, ok := pos[nb]; ok {
					sum += p
					count++
				}
			}
			if count > 0 {
				bary[id] = sum / float64(count)
			} else {
				bary[id] = pos[id]
			}
		}
		sort.SliceStable(layer, func(i, j int) bool {
			bi, bj := bary[layer[i]], bary[layer[j]]
			if bi != bj {
				return bi < bj
			}
			return layer[i] < layer[j]
		})
		for i, id := range layer {
			pos[id] = float64(i)
		}
	}

	for pass := 0; pass < crossingPasses; pass++ {
		for l := 1; l < len(result); l++ {
			order(result[l], g.backward)
		}
		for l := len(result) - 2; l >= 0; l-- {
			order(result[l], g.forward)
		}
	}
	return result
}

// axes maps a direction onto main (flow) and cross extents of a size.
func axes(d Direction, s geom.Size) (main, cross float64) {
	if d == TopBottom || d == BottomTop {
		return s.Height, s.Width
	}
	return s.Width, s.Height
}

// placeLayers converts ordered layers into top-left positions. Layers are
// spaced along the flow direction, nodes within a layer along the cross
// axis, with at least gap between any two boxes. Cross positions are then
// pulled toward the median of connected nodes in neighbouring layers.
func placeLayers(layers [][]string, g *graph, dir Direction, gap float64) map[string]geom.Point {
	mainStart := make([]float64, len(layers))
	mainExtent := make([]float64, len(layers))
	at := 0.0
	for l, layer := range layers {
		for _, id := range layer {
			m, _ := axes(dir, g.size[id])
			mainExtent[l] = math.Max(mainExtent[l], m)
		}
		mainStart[l] = at
		at += mainExtent[l] + gap
	}
	totalMain := at - gap

	// Cross centres, each layer initially centred on zero.
	centre := make(map[string]float64)
	crossSize := func(id string) float64 {
		_, c := axes(dir, g.size[id])
		return c
	}
	for _, layer := range layers {
		width := 0.0
		for i, id := range layer {
			width += crossSize(id)
			if i > 0 {
				width += gap
			}
		}
		x := -width / 2
		for _, id := range layer {
			c := crossSize(id)
			centre[id] = x + c/2
			x += c + gap
		}
	}

	align := func(layer []string, neighbours map[string][]string, pull float64) {
		for _, id := range layer {
			nbs := neighbours[id]
			if len(nbs) == 0 {
				continue
			}
			xs := make([]float64, 0, len(nbs))
			for _, nb := range nbs {
				xs = append(xs, centre[nb])
			}
			sort.Float64s(xs)
			median := xs[len(xs)/2]
			centre[id] += (median - centre[id]) * pull
		}
		separate(layer, centre, crossSize, gap)
	}
	for pass := 0; pass < 3; pass++ {
		for l := 1; l < len(layers); l++ {
			align(layers[l], g.backward, 0.5)
		}
		for l := len(layers) - 2; l >= 0; l-- {
			align(layers[l], g.forward, 0.3)
		}
	}

	pos := make(map[string]geom.Point)
	for l, layer := range layers {
		for _, id := range layer {
			m, c := axes(dir, g.size[id])
			main := mainStart[l] + (mainExtent[l]-m)/2
			if dir == RightLeft || dir == BottomTop {
				main = totalMain - main - m
			}
			cross := centre[id] - c/2
			if dir == TopBottom || dir == BottomTop {
				pos[id] = geom.Point{X: cross, Y: main}
			} else {
				pos[id] = geom.Point{X: main, Y: cross}
			}
		}
	}
	return pos
}

// separate pushes nodes of a layer apart along the cross axis so that
// neighbouring boxes keep at least gap between them, preserving order.
func separate(layer []string, centre map[string]float64, size func(string) float64, gap float64) {
	for i := 1; i < len(layer); i++ {
		prev, cur := layer[i-1], layer[i]
		lo := centre[prev] + size(prev)/2 + gap + size(cur)/2
		if centre[cur] < lo {
			centre[cur] = lo
		}
	}
}
