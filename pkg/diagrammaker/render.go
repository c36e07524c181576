package diagrammaker

import (
	"reflect"
	"sync"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// arrowLength is the arrowhead length at scale 1.
const arrowLength = 10.0

type elementKey struct {
	typ diagram.ElementType
	id  string
}

type rendered struct {
	handle config.Handle
	model  any
	slot   config.Slot
}

type wanted struct {
	model any
	slot  config.Slot
	draw  func() config.Handle
}

// reconciler keeps the renderer's output in step with the state: elements
// that appear are drawn, elements whose model or slot changed are
// destroyed and redrawn, and elements that disappear are destroyed.
// Renderer calls run under mu and must not dispatch.
type reconciler struct {
	cfg config.Config

	mu    sync.Mutex
	drawn map[elementKey]rendered
}

func newReconciler(cfg config.Config) *reconciler {
	return &reconciler{cfg: cfg, drawn: make(map[elementKey]rendered)}
}

func (rc *reconciler) sync(s diagram.State) {
	r := rc.cfg.Renderer
	if r == nil {
		return
	}
	want := rc.wanted(s, r)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	for k, old := range rc.drawn {
		if _, ok := want[k]; !ok {
			rc.destroy(old.handle)
			delete(rc.drawn, k)
		}
	}
	for k, w := range want {
		old, ok := rc.drawn[k]
		if ok && old.slot == w.slot && reflect.DeepEqual(old.model, w.model) {
			continue
		}
		if ok {
			rc.destroy(old.handle)
		}
		rc.drawn[k] = rendered{handle: w.draw(), model: w.model, slot: w.slot}
	}
}

func (rc *reconciler) clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for k, old := range rc.drawn {
		rc.destroy(old.handle)
		delete(rc.drawn, k)
	}
}

func (rc *reconciler) destroy(h config.Handle) {
	if h != nil {
		rc.cfg.Renderer.Destroy(h)
	}
}

func (rc *reconciler) wanted(s diagram.State, r config.Renderer) map[elementKey]wanted {
	ws := s.Workspace
	want := make(map[elementKey]wanted)

	for id, n := range s.Nodes {
		slot := config.Slot{Type: diagram.ElementNode, ID: id, Box: toContainer(n.Rect(), ws), Scale: ws.Scale}
		want[elementKey{diagram.ElementNode, id}] = wanted{
			model: n, slot: slot,
			draw: func() config.Handle { return r.Node(n, slot) },
		}
	}

	for id, p := range s.Panels {
		slot := config.Slot{Type: diagram.ElementPanel, ID: id, Box: geom.RectAt(p.Position, p.Size), Scale: 1}
		want[elementKey{diagram.ElementPanel, id}] = wanted{
			model: p, slot: slot,
			draw: func() config.Handle { return r.Panel(p, slot) },
		}
	}

	if er, ok := r.(config.EdgeRenderer); ok {
		for _, e := range s.ActiveEdges() {
			path := EdgePath(s, e, rc.cfg)
			slot := config.Slot{Type: diagram.ElementEdge, ID: e.ID, Box: pathBox(path), Scale: ws.Scale}
			want[elementKey{diagram.ElementEdge, e.ID}] = wanted{
				model: e, slot: slot,
				draw: func() config.Handle { return er.Edge(e, path, slot) },
			}
		}
		if pe := s.PotentialEdge; pe != nil {
			if path, ok := potentialEdgePath(s, *pe, rc.cfg); ok {
				e := diagram.Edge{Src: pe.Src}
				slot := config.Slot{Type: diagram.ElementEdge, Box: pathBox(path), Scale: ws.Scale}
				want[elementKey{diagram.ElementEdge, ""}] = wanted{
					model: *pe, slot: slot,
					draw: func() config.Handle { return er.Edge(e, path, slot) },
				}
			}
		}
	}

	if pr, ok := r.(config.PotentialNodeRenderer); ok && s.PotentialNode != nil {
		pn := *s.PotentialNode
		box := geom.RectAt(geom.Point{X: pn.Position.X - pn.Size.Width/2, Y: pn.Position.Y - pn.Size.Height/2}, pn.Size)
		slot := config.Slot{Type: diagram.ElementPotentialNode, Box: toContainer(box, ws), Scale: ws.Scale}
		want[elementKey{diagram.ElementPotentialNode, ""}] = wanted{
			model: pn, slot: slot,
			draw: func() config.Handle { return pr.PotentialNode(pn, slot) },
		}
	}

	if cr, ok := r.(config.ContextMenuRenderer); ok && s.Editor.ContextMenu != nil {
		m := *s.Editor.ContextMenu
		slot := config.Slot{Type: diagram.ElementContextMenu, ID: m.TargetID, Box: geom.Rect{X: m.Position.X, Y: m.Position.Y}, Scale: 1}
		want[elementKey{diagram.ElementContextMenu, ""}] = wanted{
			model: m, slot: slot,
			draw: func() config.Handle { return cr.ContextMenu(m, slot) },
		}
	}
	return want
}

// toContainer maps a workspace rectangle into container space.
func toContainer(r geom.Rect, ws diagram.Workspace) geom.Rect {
	p := geom.FromWorkspace(geom.Point{X: r.X, Y: r.Y}, ws.Position, ws.Scale)
	return geom.Rect{X: p.X, Y: p.Y, W: r.W * ws.Scale, H: r.H * ws.Scale}
}

// EdgePath computes the container-space curve of an active edge using the
// source node type's connector placement and shape. Edges with a missing
// endpoint yield a zero path.
func EdgePath(s diagram.State, e diagram.Edge, cfg config.Config) config.EdgePath {
	src, okSrc := s.Nodes[e.Src]
	dest, okDest := s.Nodes[e.Dest]
	if !okSrc || !okDest {
		return config.EdgePath{}
	}
	placement := cfg.Placement(src.TypeID)
	p0, p3 := geom.ConnectorPoints(src.Rect(), dest.Rect(), placement, cfg.Shape(src.TypeID))
	return curve(p0, p3, placement, s.Workspace, cfg.Options.ShowArrowhead)
}

func potentialEdgePath(s diagram.State, pe diagram.PotentialEdge, cfg config.Config) (config.EdgePath, bool) {
	src, ok := s.Nodes[pe.Src]
	if !ok {
		return config.EdgePath{}, false
	}
	placement := cfg.Placement(src.TypeID)
	p0, _ := geom.ConnectorPoints(src.Rect(), geom.RectAt(pe.Position, geom.Size{}), placement, cfg.Shape(src.TypeID))
	return curve(p0, pe.Position, placement, s.Workspace, cfg.Options.ShowArrowhead), true
}

func curve(p0, p3 geom.Point, placement geom.Placement, ws diagram.Workspace, arrow bool) config.EdgePath {
	c1, c2 := geom.InflectionPoints(p0, p3, placement)
	to := func(p geom.Point) geom.Point { return geom.FromWorkspace(p, ws.Position, ws.Scale) }
	path := config.EdgePath{Src: to(p0), C1: to(c1), C2: to(c2), Dest: to(p3)}
	if arrow {
		dir := geom.CubicTangent(path.Src, path.C1, path.C2, path.Dest, 1)
		l, r := geom.ArrowHead(path.Dest, dir, arrowLength*ws.Scale)
		path.Arrow = &[2]geom.Point{l, r}
	}
	return path
}

func pathBox(p config.EdgePath) geom.Rect {
	pts := []geom.Point{p.Src, p.C1, p.C2, p.Dest}
	if p.Arrow != nil {
		pts = append(pts, p.Arrow[0], p.Arrow[1])
	}
	lo, hi := pts[0], pts[0]
	for _, q := range pts[1:] {
		lo.X, lo.Y = min(lo.X, q.X), min(lo.Y, q.Y)
		hi.X, hi.Y = max(hi.X, q.X), max(hi.Y, q.Y)
	}
	return geom.RectFromCorners(lo, hi)
}
