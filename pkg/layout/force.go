package layout

import (
	"math"

	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

const (
	forceIterations   = 100
	overlapIterations = 50
)

// force runs a spring embedder over node centres: all pairs repel, edges
// attract, and the step size cools linearly. Nodes start on a circle in
// id order, so the result is deterministic. Remaining box overlaps are
// pushed apart afterwards.
func force(g *graph, opts Options) map[string]geom.Point {
	n := len(g.nodes)
	avg := 0.0
	for _, id := range g.nodes {
		s := g.size[id]
		avg += math.Max(s.Width, s.Height)
	}
	avg /= float64(n)
	k := avg + opts.DistanceMin // ideal edge length

	centre := make(map[string]geom.Point, n)
	radius := k * float64(n) / (2 * math.Pi)
	for i, id := range g.nodes {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		centre[id] = geom.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	}

	temp := math.Max(radius, k)
	cool := temp / forceIterations

	for iter := 0; iter < forceIterations; iter++ {
		disp := make(map[string]geom.Point, n)

		for i, a := range g.nodes {
			for _, b := range g.nodes[i+1:] {
				d := centre[a].Sub(centre[b])
				dist := math.Max(math.Hypot(d.X, d.Y), 1)
				f := d.Scale(k * k / (dist * dist))
				disp[a] = disp[a].Add(f)
				disp[b] = disp[b].Sub(f)
			}
		}

		for _, a := range g.nodes {
			for _, b := range g.forward[a] {
				d := centre[b].Sub(centre[a])
				dist := math.Hypot(d.X, d.Y)
				if dist == 0 {
					continue
				}
				f := d.Scale(dist / k)
				disp[a] = disp[a].Add(f)
				disp[b] = disp[b].Sub(f)
			}
		}

		for _, id := range g.nodes {
			d := disp[id]
			l := math.Hypot(d.X, d.Y)
			if l == 0 {
				continue
			}
			step := math.Min(l, temp)
			centre[id] = centre[id].Add(d.Scale(step / l))
		}
		temp = math.Max(temp-cool, 1)
	}

	separateBoxes(g, centre, opts.DistanceMin)

	pos := make(map[string]geom.Point, n)
	for _, id := range g.nodes {
		s := g.size[id]
		pos[id] = geom.Point{X: centre[id].X - s.Width/2, Y: centre[id].Y - s.Height/2}
	}
	return pos
}

// separateBoxes pushes overlapping boxes apart along the axis of least
// overlap until every pair keeps gap between them or the iteration budget
// runs out.
func separateBoxes(g *graph, centre map[string]geom.Point, gap float64) {
	for iter := 0; iter < overlapIterations; iter++ {
		moved := false
		for i, a := range g.nodes {
			for _, b := range g.nodes[i+1:] {
				sa, sb := g.size[a], g.size[b]
				d := centre[b].Sub(centre[a])
				ox := (sa.Width+sb.Width)/2 + gap - math.Abs(d.X)
				oy := (sa.Height+sb.Height)/2 + gap - math.Abs(d.Y)
				if ox <= 0 || oy <= 0 {
					continue
				}
				moved = true
				var push geom.Point
				if ox < oy {
					push.X = sign(d.X) * ox / 2
				} else {
					push.Y = sign(d.Y) * oy / 2
				}
				centre[a] = centre[a].Sub(push)
				centre[b] = centre[b].Add(push)
			}
		}
		if !moved {
			return
		}
	}
}

// sign is -1 for negative values and 1 otherwise, so coincident boxes
// still separate.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
