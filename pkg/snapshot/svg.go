package snapshot

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/diagrammaker"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

const svgStyle = `<style>
  .node { fill: #e3f2fd; stroke: #1565c0; stroke-width: 1.5; }
  .node-selected { fill: #e3f2fd; stroke: #e65100; stroke-width: 1.5; }
  .node-label { font-family: sans-serif; font-size: %gpx; fill: #212121; text-anchor: middle; dominant-baseline: middle; }
  .edge { fill: none; stroke: #333; stroke-width: 1.5; }
  .arrow { fill: #333; }
</style>
`

// RenderSVG writes s as an SVG document to w. Geometry, cropping and
// sizing match Render; Supersample is ignored.
func RenderSVG(w io.Writer, s diagram.State, cfg config.Config, opts Options) error {
	opts = opts.withDefaults()
	box := bounds(s, opts.Padding)
	k := fit(box, opts)
	width, height := pixels(box.W*k), pixels(box.H*k)

	view := s
	view.Workspace.Scale = k
	view.Workspace.Position = geom.Point{X: -box.X * k, Y: -box.Y * k}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height)
	fmt.Fprintf(&sb, svgStyle, opts.FontSize*k)
	fmt.Fprintf(&sb, "<rect width=\"%d\" height=\"%d\" fill=\"white\"/>\n", width, height)

	// Edges first, under nodes
	for _, e := range s.ActiveEdges() {
		p := diagrammaker.EdgePath(view, e, cfg)
		if p == (config.EdgePath{}) {
			continue
		}
		fmt.Fprintf(&sb, "<path id=\"edge-%s\" class=\"edge\" d=\"M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f\"/>\n",
			html.EscapeString(e.ID), p.Src.X, p.Src.Y, p.C1.X, p.C1.Y, p.C2.X, p.C2.Y, p.Dest.X, p.Dest.Y)
		if p.Arrow != nil {
			a, b := p.Arrow[0], p.Arrow[1]
			fmt.Fprintf(&sb, "<polygon class=\"arrow\" points=\"%.1f,%.1f %.1f,%.1f %.1f,%.1f\"/>\n",
				p.Dest.X, p.Dest.Y, a.X, a.Y, b.X, b.Y)
		}
	}

	for _, id := range s.NodeIDs() {
		n := s.Nodes[id]
		r := n.Rect()
		tl := geom.FromWorkspace(geom.Point{X: r.X, Y: r.Y}, view.Workspace.Position, k)
		pr := geom.Rect{X: tl.X, Y: tl.Y, W: r.W * k, H: r.H * k}
		center := pr.Center()

		class := "node"
		if n.Selected {
			class = "node-selected"
		}
		switch cfg.Shape(n.TypeID) {
		case geom.ShapeCircle:
			radius := min(pr.W, pr.H) / 2
			fmt.Fprintf(&sb, "<circle id=\"node-%s\" class=\"%s\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				html.EscapeString(n.ID), class, center.X, center.Y, radius)
		default:
			fmt.Fprintf(&sb, "<rect id=\"node-%s\" class=\"%s\" x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\"/>\n",
				html.EscapeString(n.ID), class, pr.X, pr.Y, pr.W, pr.H)
		}

		if opts.Labels {
			label := n.ID
			if opts.Label != nil {
				label = opts.Label(n)
			}
			if label != "" {
				fmt.Fprintf(&sb, "<text class=\"node-label\" x=\"%.1f\" y=\"%.1f\">%s</text>\n",
					center.X, center.Y, html.EscapeString(label))
			}
		}
	}
	sb.WriteString("</svg>\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "write svg")
	}
	return nil
}
