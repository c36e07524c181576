package history

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
	"github.com/ha1tch/diagram-toolkit/pkg/reducer"
)

func fixture() diagram.State {
	s := diagram.New()
	s.Nodes["n1"] = diagram.Node{ID: "n1", Position: geom.Point{X: 200, Y: 150}, Size: geom.Size{Width: 100, Height: 50}}
	s.Nodes["n2"] = diagram.Node{ID: "n2", Position: geom.Point{X: 400, Y: 300}, Size: geom.Size{Width: 100, Height: 50}}
	s.Edges["e1"] = diagram.Edge{ID: "e1", Src: "n1", Dest: "n2", ConsumerData: "payload"}
	return s
}

func TestInvertNodeDeleteRestoresCascade(t *testing.T) {
	r := reducer.New(reducer.DefaultOptions())
	prev := fixture()
	next := r.Reduce(prev, &action.NodeDelete{ID: "n1"})

	inv, ok := Invert(prev, next, &action.NodeDelete{ID: "n1"})
	require.True(t, ok)
	ci, isCreate := inv.(*action.CreateItems)
	require.True(t, isCreate)
	assert.Equal(t, []diagram.Node{prev.Nodes["n1"]}, ci.Nodes)
	assert.Equal(t, []diagram.Edge{prev.Edges["e1"]}, ci.Edges)

	restored := r.Reduce(next, inv)
	assert.Equal(t, prev.Nodes, restored.Nodes)
	assert.Equal(t, prev.Edges, restored.Edges)
}

func TestInvertDeleteRestoresUnselected(t *testing.T) {
	prev := fixture()
	n1 := prev.Nodes["n1"]
	n1.Selected = true
	prev.Nodes["n1"] = n1
	e1 := prev.Edges["e1"]
	e1.Selected = true
	prev.Edges["e1"] = e1

	a := &action.DeleteItems{NodeIDs: []string{"n1"}}
	next := reducer.New(reducer.DefaultOptions()).Reduce(prev, a)
	inv, ok := Invert(prev, next, a)
	require.True(t, ok)
	ci := inv.(*action.CreateItems)
	require.Len(t, ci.Nodes, 1)
	require.Len(t, ci.Edges, 1)
	assert.False(t, ci.Nodes[0].Selected)
	assert.False(t, ci.Edges[0].Selected)
	assert.True(t, prev.Nodes["n1"].Selected, "prev is left alone")
}

func TestInvertCreates(t *testing.T) {
	r := reducer.New(reducer.DefaultOptions())
	prev := fixture()

	nc := &action.NodeCreate{ID: "n3", Position: geom.Point{X: 1, Y: 1}}
	inv, ok := Invert(prev, r.Reduce(prev, nc), nc)
	require.True(t, ok)
	assert.Equal(t, &action.NodeDelete{ID: "n3"}, inv)

	ec := &action.EdgeCreate{ID: "e2", Src: "n2", Dest: "n1"}
	inv, ok = Invert(prev, r.Reduce(prev, ec), ec)
	require.True(t, ok)
	assert.Equal(t, &action.EdgeDelete{ID: "e2"}, inv)
}

func TestInvertNoEffect(t *testing.T) {
	r := reducer.New(reducer.DefaultOptions())
	prev := fixture()

	dup := &action.EdgeCreate{ID: "e2", Src: "n1", Dest: "n2"}
	_, ok := Invert(prev, r.Reduce(prev, dup), dup)
	assert.False(t, ok, "rejected duplicate edge is not historied")

	missing := &action.NodeDelete{ID: "ghost"}
	_, ok = Invert(prev, r.Reduce(prev, missing), missing)
	assert.False(t, ok)

	move := &action.NodeDrag{ID: "n1", Position: geom.Point{}}
	_, ok = Invert(prev, r.Reduce(prev, move), move)
	assert.False(t, ok, "moves are not undoable")
}

func TestStacks(t *testing.T) {
	h := New(3)
	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)

	for i := 0; i < 5; i++ {
		h.Record(Entry{Action: &action.NodeDelete{ID: fmt.Sprint(i)}})
	}
	undo, redo := h.Depth()
	assert.Equal(t, 3, undo, "oldest entries are discarded")
	assert.Equal(t, 0, redo)

	e, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "4", e.Action.(*action.NodeDelete).ID)
	assert.True(t, h.CanRedo())

	e, ok = h.Redo()
	require.True(t, ok)
	h.Restore(e)
	assert.False(t, h.CanRedo())

	h.Undo()
	h.Record(Entry{Action: &action.NodeDelete{ID: "new"}})
	assert.False(t, h.CanRedo(), "a new edit clears redo")

	h.Clear()
	assert.False(t, h.CanUndo())
}

func graphOf(s diagram.State) (map[string]diagram.Node, map[string]diagram.Edge) {
	return s.Nodes, s.Edges
}

// For any sequence of structural edits, undo restores the exact prior graph
// and redo restores the edit.
func TestUndoRedoIdentityProperty(t *testing.T) {
	r := reducer.New(reducer.DefaultOptions())
	rng := rand.New(rand.NewSource(42))
	s := fixture()

	pick := func(ids []string) string {
		if len(ids) == 0 {
			return "none"
		}
		return ids[rng.Intn(len(ids))]
	}

	for i := 0; i < 300; i++ {
		var a action.Action
		nodes := s.NodeIDs()
		switch rng.Intn(5) {
		case 0:
			a = &action.NodeCreate{
				ID:       fmt.Sprintf("c%d", i),
				Position: geom.Point{X: rng.Float64() * 1000, Y: rng.Float64() * 1000},
				Size:     geom.Size{Width: 80, Height: 40},
			}
		case 1:
			a = &action.NodeDelete{ID: pick(nodes)}
		case 2:
			a = &action.EdgeCreate{ID: fmt.Sprintf("x%d", i), Src: pick(nodes), Dest: pick(nodes)}
		case 3:
			a = &action.EdgeDelete{ID: pick(s.EdgeIDs())}
		case 4:
			a = &action.DeleteItems{NodeIDs: []string{pick(nodes)}, EdgeIDs: []string{pick(s.EdgeIDs())}}
		}

		next := r.Reduce(s, a)
		inv, ok := Invert(s, next, a)
		if !ok {
			s = next
			continue
		}

		undone := r.Reduce(next, inv)
		wantN, wantE := graphOf(s)
		gotN, gotE := graphOf(undone)
		require.Equal(t, wantN, gotN, "undo nodes after %s", a.Type())
		require.Equal(t, wantE, gotE, "undo edges after %s", a.Type())

		redone := r.Reduce(undone, a)
		wantN, wantE = graphOf(next)
		gotN, gotE = graphOf(redone)
		require.Equal(t, wantN, gotN, "redo nodes after %s", a.Type())
		require.Equal(t, wantE, gotE, "redo edges after %s", a.Type())

		s = next
	}
}
