// Package snapshot renders a diagram state to a PNG image or an SVG document.
//
// The graph is drawn in workspace space, cropped to the bounding box of the
// nodes, independent of the current pan and zoom. Edges use the same cubic
// paths the interactive renderer receives.
package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/diagrammaker"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// Options configures PNG rendering.
type Options struct {
	Padding     float64 // workspace units around the node bounding box
	Scale       float64 // output pixels per workspace unit
	Supersample int     // render factor before downsampling
	MaxSize     int     // longest output side in pixels; Scale shrinks to fit
	FontSize    float64
	Labels      bool
	Label       func(n diagram.Node) string
}

// DefaultOptions returns sensible defaults for PNG rendering.
func DefaultOptions() Options {
	return Options{
		Padding:     40,
		Scale:       1,
		Supersample: 2,
		MaxSize:     8192,
		FontSize:    12,
		Labels:      true,
	}
}

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorNode       = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorNodeBorder = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorSelected   = color.RGBA{230, 81, 0, 255}    // #e65100
	colorEdge       = color.RGBA{51, 51, 51, 255}    // #333
	colorText       = color.RGBA{33, 33, 33, 255}
)

var parseFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

type canvas struct {
	img       *image.RGBA
	lineWidth float64
	face      font.Face
}

// Size returns the pixel dimensions Render would produce for s.
func Size(s diagram.State, opts Options) (int, int) {
	opts = opts.withDefaults()
	box := bounds(s, opts.Padding)
	k := fit(box, opts)
	return pixels(box.W * k), pixels(box.H * k)
}

// Render writes s as a PNG image to w.
func Render(w io.Writer, s diagram.State, cfg config.Config, opts Options) error {
	img, err := Image(s, cfg, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return nil
}

// Image rasterises s. Drawing happens at Supersample times the output size
// and is downsampled with Catmull-Rom for smooth edges.
func Image(s diagram.State, cfg config.Config, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()
	box := bounds(s, opts.Padding)
	k := fit(box, opts)
	ss := float64(opts.Supersample)

	width, height := pixels(box.W*k), pixels(box.H*k)
	large := image.NewRGBA(image.Rect(0, 0, width*opts.Supersample, height*opts.Supersample))
	draw.Draw(large, large.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	fnt, err := parseFont()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse font")
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    opts.FontSize * k * ss,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "create font face")
	}
	defer face.Close()

	c := &canvas{img: large, lineWidth: math.Max(1.5*k*ss, 1), face: face}

	// Reuse the interactive edge geometry by pointing the workspace
	// transform at the image.
	view := s
	view.Workspace.Scale = k * ss
	view.Workspace.Position = geom.Point{X: -box.X * k * ss, Y: -box.Y * k * ss}
	to := func(p geom.Point) geom.Point {
		return geom.FromWorkspace(p, view.Workspace.Position, view.Workspace.Scale)
	}

	for _, e := range s.ActiveEdges() {
		c.edge(diagrammaker.EdgePath(view, e, cfg))
	}
	for _, id := range s.NodeIDs() {
		n := s.Nodes[id]
		r := n.Rect()
		tl := to(geom.Point{X: r.X, Y: r.Y})
		pr := geom.Rect{X: tl.X, Y: tl.Y, W: r.W * k * ss, H: r.H * k * ss}
		border := colorNodeBorder
		if n.Selected {
			border = colorSelected
		}
		c.node(cfg.Shape(n.TypeID), pr, border)
		if opts.Labels {
			label := n.ID
			if opts.Label != nil {
				label = opts.Label(n)
			}
			center := pr.Center()
			c.textCentered(center.X, center.Y, label)
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), large, large.Bounds(), draw.Over, nil)
	return out, nil
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = def.Scale
	}
	if o.Supersample < 1 {
		o.Supersample = def.Supersample
	}
	if o.MaxSize <= 0 {
		o.MaxSize = def.MaxSize
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	return o
}

// bounds is the padded node bounding box, or a padded unit box at the
// origin for an empty graph.
func bounds(s diagram.State, pad float64) geom.Rect {
	var rects []geom.Rect
	for _, n := range s.Nodes {
		rects = append(rects, n.Rect())
	}
	box, ok := geom.BoundingBox(rects)
	if !ok {
		box = geom.Rect{W: 1, H: 1}
	}
	return box.Pad(pad)
}

func fit(box geom.Rect, opts Options) float64 {
	k := opts.Scale
	if longest := math.Max(box.W, box.H) * k; longest > float64(opts.MaxSize) {
		k *= float64(opts.MaxSize) / longest
	}
	return k
}

func pixels(v float64) int {
	return max(int(math.Ceil(v)), 1)
}

func (c *canvas) node(shape geom.Shape, r geom.Rect, border color.Color) {
	switch shape {
	case geom.ShapeCircle:
		center := r.Center()
		radius := math.Min(r.W, r.H) / 2
		c.ellipse(center.X, center.Y, radius, radius, colorNode, border)
	default:
		fill := image.Rect(int(r.X), int(r.Y), int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())))
		draw.Draw(c.img, fill, image.NewUniform(colorNode), image.Point{}, draw.Src)
		c.line(r.X, r.Y, r.Right(), r.Y, border)
		c.line(r.Right(), r.Y, r.Right(), r.Bottom(), border)
		c.line(r.Right(), r.Bottom(), r.X, r.Bottom(), border)
		c.line(r.X, r.Bottom(), r.X, r.Y, border)
	}
}

func (c *canvas) edge(p config.EdgePath) {
	if p == (config.EdgePath{}) {
		return
	}
	pts := geom.Flatten(p.Src, p.C1, p.C2, p.Dest, 48)
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, colorEdge)
	}
	if p.Arrow != nil {
		c.triangle(p.Dest, p.Arrow[0], p.Arrow[1], colorEdge)
	}
}

// line draws a segment as a run of perpendicular strokes.
func (c *canvas) line(x1, y1, x2, y2 float64, col color.Color) {
	half := c.lineWidth / 2
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				c.img.Set(int(x1+tx), int(y1+ty), col)
			}
		}
		return
	}

	perpX, perpY := -dy/dist, dx/dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx, cy := x1+dx*t, y1+dy*t
		for off := -half; off <= half; off += 0.5 {
			c.img.Set(int(cx+perpX*off), int(cy+perpY*off), col)
		}
	}
}

func (c *canvas) ellipse(cx, cy, rx, ry float64, fill, stroke color.Color) {
	for dy := -ry; dy <= ry; dy++ {
		yn := dy / ry
		if yn*yn > 1 {
			continue
		}
		xe := rx * math.Sqrt(1-yn*yn)
		for dx := -xe; dx <= xe; dx++ {
			c.img.Set(int(cx+dx), int(cy+dy), fill)
		}
	}
	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		x, y := cx+rx*nx, cy+ry*ny
		for t := -c.lineWidth / 2; t <= c.lineWidth/2; t += 0.5 {
			c.img.Set(int(x+nx*t), int(y+ny*t), stroke)
		}
	}
}

// triangle fills tip-a-b by sweeping lines from the tip across the base.
func (c *canvas) triangle(tip, a, b geom.Point, col color.Color) {
	for t := 0.0; t <= 1.0; t += 0.05 {
		m := a.Add(b.Sub(a).Scale(t))
		c.line(tip.X, tip.Y, m.X, m.Y, col)
	}
}

func (c *canvas) textCentered(x, y float64, text string) {
	if text == "" {
		return
	}
	width := font.MeasureString(c.face, text).Ceil()
	ascent := c.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(colorText),
		Face: c.face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(x) - width/2),
			Y: fixed.I(int(y) + int(float64(ascent)*0.35)),
		},
	}
	d.DrawString(text)
}
