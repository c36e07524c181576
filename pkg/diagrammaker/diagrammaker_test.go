package diagrammaker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/event"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
	"github.com/ha1tch/diagram-toolkit/pkg/layout"
	"github.com/ha1tch/diagram-toolkit/pkg/store"
)

type fakeContainer struct{ size geom.Size }

func (c *fakeContainer) Size() geom.Size { return c.size }

type fakeDocument map[string]Container

func (d fakeDocument) Container(id string) (Container, bool) {
	c, ok := d[id]
	return c, ok
}

type el struct {
	attrs  map[string]string
	parent *el
}

func (e *el) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *el) Parent() event.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func element(typ diagram.ElementType, id string, parent *el) *el {
	return &el{parent: parent, attrs: map[string]string{
		event.AttrType:        string(typ),
		event.AttrID:          id,
		event.AttrEventTarget: "true",
		event.AttrDraggable:   "true",
		event.AttrDropZone:    "true",
	}}
}

// recorder counts live handles per element.
type recorder struct {
	mu      sync.Mutex
	next    int
	live    map[int]config.Slot
	edges   int
	destroy int
}

func newRecorder() *recorder { return &recorder{live: map[int]config.Slot{}} }

func (r *recorder) add(s config.Slot) config.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.live[r.next] = s
	return r.next
}

func (r *recorder) Node(_ diagram.Node, s config.Slot) config.Handle   { return r.add(s) }
func (r *recorder) Panel(_ diagram.Panel, s config.Slot) config.Handle { return r.add(s) }

func (r *recorder) Edge(_ diagram.Edge, _ config.EdgePath, s config.Slot) config.Handle {
	r.mu.Lock()
	r.edges++
	r.mu.Unlock()
	return r.add(s)
}

func (r *recorder) Destroy(h config.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroy++
	delete(r.live, h.(int))
}

func (r *recorder) liveOf(typ diagram.ElementType) map[string]config.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]config.Slot{}
	for _, s := range r.live {
		if s.Type == typ {
			out[s.ID] = s
		}
	}
	return out
}

func scenario() diagram.State {
	s := diagram.New()
	s.Nodes["n1"] = diagram.Node{ID: "n1", Position: geom.Point{X: 200, Y: 150}, Size: geom.Size{Width: 100, Height: 50}}
	s.Nodes["n2"] = diagram.Node{ID: "n2", Position: geom.Point{X: 400, Y: 300}, Size: geom.Size{Width: 100, Height: 50}}
	s.Edges["e1"] = diagram.Edge{ID: "e1", Src: "n1", Dest: "n2"}
	return s
}

func mount(t *testing.T, cfg config.Config, opts ...Option) (*DiagramMaker, *fakeContainer) {
	t.Helper()
	c := &fakeContainer{size: geom.Size{Width: 1200, Height: 900}}
	d, err := New(c, cfg, append([]Option{WithInitialData(scenario())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(d.Destroy)
	return d, c
}

func click(d *DiagramMaker, target event.Element, at geom.Point, mods event.Modifiers) {
	d.HandleEvent(event.Raw{Kind: event.RawMouseDown, Button: event.ButtonLeft, Client: at, Target: target, Mods: mods})
	d.HandleEvent(event.Raw{Kind: event.RawMouseUp, Button: event.ButtonLeft, Client: at, Target: target, Mods: mods})
}

func TestNewByIDMissingContainer(t *testing.T) {
	_, err := NewByID(fakeDocument{}, "nope", config.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.ContainerNotFoundError{})
	assert.True(t, errors.Is(err, errors.ErrCodeContainerNotFound))

	d, err := NewByID(fakeDocument{"app": &fakeContainer{size: geom.Size{Width: 10, Height: 10}}}, "app", config.Default())
	require.NoError(t, err)
	d.Destroy()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Options.ConnectorPlacement = "Diagonal"
	_, err := New(&fakeContainer{}, cfg)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestDeleteUndoRedoScenario(t *testing.T) {
	d, _ := mount(t, config.Default())
	ws := element(diagram.ElementWorkspace, "", nil)
	n1 := element(diagram.ElementNode, "n1", ws)

	click(d, n1, geom.Point{X: 250, Y: 175}, event.Modifiers{})
	require.True(t, d.State().Nodes["n1"].Selected)

	d.HandleEvent(event.Raw{Kind: event.RawKeyDown, Key: "Delete"})
	s := d.State()
	assert.NotContains(t, s.Nodes, "n1")
	assert.NotContains(t, s.Edges, "e1")
	assert.Contains(t, s.Nodes, "n2")

	d.API().Undo()
	s = d.State()
	require.Contains(t, s.Nodes, "n1")
	require.Contains(t, s.Edges, "e1")
	assert.Equal(t, geom.Point{X: 200, Y: 150}, s.Nodes["n1"].Position)
	assert.Equal(t, diagram.Edge{ID: "e1", Src: "n1", Dest: "n2"}, s.Edges["e1"])

	d.API().Redo()
	s = d.State()
	assert.NotContains(t, s.Nodes, "n1")
	assert.NotContains(t, s.Edges, "e1")
}

func TestWheelZoomScenario(t *testing.T) {
	d, _ := mount(t, config.Default())
	ws := element(diagram.ElementWorkspace, "", nil)

	d.HandleEvent(event.Raw{Kind: event.RawWheel, DeltaY: -50, Client: geom.Point{X: 600, Y: 450}, Target: ws})
	s := d.State().Workspace
	assert.InDelta(t, 1.3, s.Scale, 1e-9)
	// The workspace point under the cursor stays put.
	assert.InDelta(t, 600.0, 600*1.3+s.Position.X, 1e-6)
	assert.InDelta(t, 450.0, 450*1.3+s.Position.Y, 1e-6)
}

func TestZoomInOutAndReset(t *testing.T) {
	d, _ := mount(t, config.Default())
	d.API().ZoomIn()
	assert.InDelta(t, 1.3, d.State().Workspace.Scale, 1e-9)
	d.API().ZoomOut()
	assert.Less(t, d.State().Workspace.Scale, 1.3)
	d.API().ResetZoom()
	assert.Equal(t, 1.0, d.State().Workspace.Scale)
}

func TestNodeDragThroughEvents(t *testing.T) {
	d, _ := mount(t, config.Default())
	ws := element(diagram.ElementWorkspace, "", nil)
	n1 := element(diagram.ElementNode, "n1", ws)

	d.HandleEvent(event.Raw{Kind: event.RawMouseDown, Button: event.ButtonLeft, Client: geom.Point{X: 250, Y: 175}, Target: n1})
	d.HandleEvent(event.Raw{Kind: event.RawMouseMove, Client: geom.Point{X: 270, Y: 185}, Target: n1})
	assert.True(t, d.State().Nodes["n1"].Dragging)
	d.HandleEvent(event.Raw{Kind: event.RawMouseMove, Client: geom.Point{X: 300, Y: 205}, Target: n1})
	d.HandleEvent(event.Raw{Kind: event.RawMouseUp, Button: event.ButtonLeft, Client: geom.Point{X: 300, Y: 205}, Target: n1})

	n := d.State().Nodes["n1"]
	assert.False(t, n.Dragging)
	assert.Equal(t, geom.Point{X: 250, Y: 180}, n.Position)

	// Moves are not undoable.
	undo, _ := d.store.HistoryDepth()
	assert.Zero(t, undo)
}

func TestConnectGesture(t *testing.T) {
	d, _ := mount(t, config.Default(), WithIDGenerator(func() string { return "e2" }))
	ws := element(diagram.ElementWorkspace, "", nil)
	n2 := element(diagram.ElementNode, "n2", ws)
	out := element(diagram.ElementConnector, "n2", n2)
	n1 := element(diagram.ElementNode, "n1", ws)
	in := element(diagram.ElementConnector, "n1", n1)

	d.HandleEvent(event.Raw{Kind: event.RawMouseDown, Button: event.ButtonLeft, Client: geom.Point{X: 500, Y: 325}, Target: out})
	d.HandleEvent(event.Raw{Kind: event.RawMouseMove, Client: geom.Point{X: 400, Y: 250}, Target: ws})
	require.NotNil(t, d.State().PotentialEdge)
	d.HandleEvent(event.Raw{Kind: event.RawMouseMove, Client: geom.Point{X: 205, Y: 175}, Target: in})
	d.HandleEvent(event.Raw{Kind: event.RawMouseUp, Button: event.ButtonLeft, Client: geom.Point{X: 205, Y: 175}, Target: in})

	s := d.State()
	assert.Nil(t, s.PotentialEdge)
	assert.Equal(t, diagram.Edge{ID: "e2", Src: "n2", Dest: "n1"}, s.Edges["e2"])
}

func TestInterceptorAndEventListener(t *testing.T) {
	var seen []event.Kind
	cfg := config.Default()
	cfg.Interceptor = func(a action.Action, next store.Next, _ store.GetState) {
		if _, ok := a.(*action.DeleteItems); ok {
			return
		}
		next(a)
	}
	cfg.EventListener = func(e event.Event) { seen = append(seen, e.Kind) }
	d, _ := mount(t, cfg)
	n1 := element(diagram.ElementNode, "n1", nil)

	click(d, n1, geom.Point{X: 250, Y: 175}, event.Modifiers{})
	d.HandleEvent(event.Raw{Kind: event.RawKeyDown, Key: "Delete"})

	assert.Contains(t, d.State().Nodes, "n1", "delete was vetoed")
	assert.Equal(t, []event.Kind{event.MouseDown, event.MouseUp, event.LeftClick, event.KeyDown}, seen)
}

func TestReadOnlyCancelsDrag(t *testing.T) {
	d, _ := mount(t, config.Default())
	n1 := element(diagram.ElementNode, "n1", nil)

	d.HandleEvent(event.Raw{Kind: event.RawMouseDown, Button: event.ButtonLeft, Client: geom.Point{X: 250, Y: 175}, Target: n1})
	d.HandleEvent(event.Raw{Kind: event.RawMouseMove, Client: geom.Point{X: 280, Y: 175}, Target: n1})
	require.True(t, d.State().Nodes["n1"].Dragging)

	d.API().SetEditorMode(diagram.ModeReadOnly)
	assert.False(t, d.State().Nodes["n1"].Dragging)

	d.HandleEvent(event.Raw{Kind: event.RawMouseMove, Client: geom.Point{X: 400, Y: 175}, Target: n1})
	assert.Equal(t, geom.Point{X: 230, Y: 150}, d.State().Nodes["n1"].Position)
}

func TestUpdateContainerMovesDockedPanels(t *testing.T) {
	initial := scenario()
	initial.Panels["tools"] = diagram.Panel{
		ID: "tools", Size: geom.Size{Width: 100, Height: 200},
		PositionAnchor: diagram.AnchorTopRight, Offset: geom.Point{X: 20, Y: 20},
	}
	c := &fakeContainer{size: geom.Size{Width: 1200, Height: 900}}
	d, err := New(c, config.Default(), WithInitialData(initial))
	require.NoError(t, err)
	defer d.Destroy()
	assert.Equal(t, geom.Point{X: 1080, Y: 20}, d.State().Panels["tools"].Position)

	c.size = geom.Size{Width: 1400, Height: 900}
	d.UpdateContainer()
	assert.Equal(t, geom.Point{X: 1280, Y: 20}, d.State().Panels["tools"].Position)
}

func TestLayoutIsOneCommit(t *testing.T) {
	d, _ := mount(t, config.Default())
	commits := 0
	d.Subscribe(func(_, _ diagram.State, _ action.Action) { commits++ })

	err := d.API().Layout(context.Background(), layout.Options{Algorithm: layout.Hierarchical, NoGraphviz: true})
	require.NoError(t, err)
	assert.Equal(t, 1, commits)
	s := d.State()
	assert.Less(t, s.Nodes["n1"].Position.Y, s.Nodes["n2"].Position.Y)

	err = d.API().Layout(context.Background(), layout.Options{Algorithm: "SPIRAL"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestLayoutMergesConfiguredDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Layout = layout.Options{Algorithm: layout.Workflow, Margin: 60}
	d, _ := mount(t, cfg)

	err := d.API().Layout(context.Background(), layout.Options{Direction: layout.TopBottom, DistanceMin: 120})
	require.NoError(t, err)
	s := d.State()
	n1, n2 := s.Nodes["n1"].Position, s.Nodes["n2"].Position
	assert.Equal(t, geom.Point{X: 60, Y: 60}, n1, "configured margin")
	assert.InDelta(t, n1.X, n2.X, 1e-9, "caller's direction stacks vertically")
	assert.InDelta(t, 50+120, n2.Y-n1.Y, 1e-9, "caller's spacing")
}

func TestMergeLayout(t *testing.T) {
	def := layout.Options{Algorithm: layout.Hierarchical, Direction: layout.LeftRight,
		DistanceMin: 30, Margin: 10, Fixed: []string{"a"}, NoGraphviz: true}

	got := mergeLayout(layout.Options{Direction: layout.BottomTop, Fixed: []string{"b"}}, def)
	assert.Equal(t, layout.Options{Algorithm: layout.Hierarchical, Direction: layout.BottomTop,
		DistanceMin: 30, Margin: 10, Fixed: []string{"b"}, NoGraphviz: true}, got)

	assert.Equal(t, def, mergeLayout(layout.Options{}, def))
}

func TestFitAndFocus(t *testing.T) {
	d, _ := mount(t, config.Default())
	d.API().Fit()
	assert.Equal(t, 3.0, d.State().Workspace.Scale, "two small nodes fit at max scale")

	d.API().ResetZoom()
	d.API().FocusNode("n2")
	ws := d.State().Workspace
	centre := geom.FromWorkspace(geom.Point{X: 450, Y: 325}, ws.Position, ws.Scale)
	assert.InDelta(t, 600, centre.X, 1e-6)
	assert.InDelta(t, 450, centre.Y, 1e-6)
}

func TestRendererReconciles(t *testing.T) {
	rec := newRecorder()
	cfg := config.Default()
	cfg.Renderer = rec
	d, _ := mount(t, cfg)

	nodes := rec.liveOf(diagram.ElementNode)
	require.Len(t, nodes, 2)
	assert.Equal(t, geom.Rect{X: 200, Y: 150, W: 100, H: 50}, nodes["n1"].Box)
	assert.Len(t, rec.liveOf(diagram.ElementEdge), 1)

	// Selecting n1 redraws n1 only.
	before := rec.destroy
	d.API().Dispatch(&action.NodeSelect{ID: "n1"})
	assert.Equal(t, before+1, rec.destroy)

	d.API().Dispatch(&action.NodeDelete{ID: "n1"})
	assert.Len(t, rec.liveOf(diagram.ElementNode), 1)
	assert.Empty(t, rec.liveOf(diagram.ElementEdge))

	d.Destroy()
	assert.Empty(t, rec.live)
	select {
	case <-d.Destroyed():
	default:
		t.Fatal("destroy notification not published")
	}

	// Dispatching after destroy has no effect.
	d.API().Dispatch(&action.NodeDelete{ID: "n2"})
	assert.Contains(t, d.State().Nodes, "n2")
	assert.True(t, errors.Is(d.API().Layout(context.Background(), layout.Options{}), errors.ErrCodeDestroyed))
}

func TestEdgePath(t *testing.T) {
	cfg := config.Default()
	s := scenario()
	p := EdgePath(s, s.Edges["e1"], cfg)
	assert.Equal(t, geom.Point{X: 300, Y: 175}, p.Src)
	assert.Equal(t, geom.Point{X: 400, Y: 325}, p.Dest)
	require.NotNil(t, p.Arrow)

	dangling := EdgePath(s, diagram.Edge{Src: "n1", Dest: "gone"}, cfg)
	assert.Equal(t, config.EdgePath{}, dangling)
}
