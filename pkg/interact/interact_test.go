package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/event"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

func fixture() diagram.State {
	s := diagram.New()
	s.Workspace.Scale = 2
	s.Nodes["n1"] = diagram.Node{ID: "n1", Position: geom.Point{X: 200, Y: 150}, Size: geom.Size{Width: 100, Height: 50}}
	s.Nodes["n2"] = diagram.Node{ID: "n2", Position: geom.Point{X: 400, Y: 300}, Size: geom.Size{Width: 100, Height: 50}}
	s.Panels["lib"] = diagram.Panel{ID: "lib", Position: geom.Point{X: 10, Y: 10}, Size: geom.Size{Width: 100, Height: 200}}
	return s
}

func target(t diagram.ElementType, id string) event.Target {
	return event.Target{Type: t, ID: id}
}

func TestClickSelects(t *testing.T) {
	in := New(nil)
	s := fixture()

	out := in.Interpret(event.Event{Kind: event.LeftClick, Target: target(diagram.ElementNode, "n1")}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.NodeSelect{ID: "n1"}, out[0])

	out = in.Interpret(event.Event{Kind: event.LeftClick, Target: target(diagram.ElementEdge, "e1"), Mods: event.Modifiers{Meta: true}}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.EdgeSelect{ID: "e1", Additive: true}, out[0])

	out = in.Interpret(event.Event{Kind: event.LeftClick, Target: target(diagram.ElementWorkspace, "")}, s)
	require.Len(t, out, 1)
	assert.IsType(t, &action.WorkspaceDeselect{}, out[0])
}

func TestClickWithContextMenu(t *testing.T) {
	in := New(nil)
	s := fixture()
	s.Editor.ContextMenu = &diagram.ContextMenu{TargetType: diagram.ElementNode, TargetID: "n1"}

	assert.Empty(t, in.Interpret(event.Event{Kind: event.LeftClick, Target: target(diagram.ElementContextMenu, "")}, s),
		"clicks inside the menu do nothing")

	out := in.Interpret(event.Event{Kind: event.LeftClick, Target: target(diagram.ElementNode, "n2")}, s)
	require.Len(t, out, 2)
	assert.IsType(t, &action.HideContextMenu{}, out[0])
	assert.Equal(t, &action.NodeSelect{ID: "n2"}, out[1])
}

func TestContextMenu(t *testing.T) {
	in := New(nil)
	out := in.Interpret(event.Event{
		Kind:      event.ContextMenu,
		Target:    target(diagram.ElementNode, "n1"),
		Container: geom.Point{X: 30, Y: 40},
	}, fixture())
	require.Len(t, out, 1)
	assert.Equal(t, &action.ShowContextMenu{Position: geom.Point{X: 30, Y: 40}, TargetType: diagram.ElementNode, TargetID: "n1"}, out[0])
}

func TestNodeDragScalesDelta(t *testing.T) {
	in := New(nil)
	s := fixture()
	src := target(diagram.ElementNode, "n1")

	out := in.Interpret(event.Event{Kind: event.DragStart, Source: src}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.NodeDragStart{ID: "n1"}, out[0])

	out = in.Interpret(event.Event{Kind: event.Drag, Source: src, Delta: geom.Point{X: 20, Y: -10}}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.NodeDrag{ID: "n1", Position: geom.Point{X: 210, Y: 145}}, out[0])

	out = in.Interpret(event.Event{Kind: event.DragEnd, Source: src}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.NodeDragEnd{ID: "n1"}, out[0])
}

func TestConnectorDropCreatesEdge(t *testing.T) {
	in := New(nil)
	s := fixture()
	src := target(diagram.ElementConnector, "n1")

	out := in.Interpret(event.Event{Kind: event.DragStart, Source: src, Position: geom.Point{X: 300, Y: 175}}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.EdgeDragStart{Src: "n1", Position: geom.Point{X: 300, Y: 175}}, out[0])

	s.PotentialEdge = &diagram.PotentialEdge{Src: "n1"}
	out = in.Interpret(event.Event{Kind: event.Drop, Source: src, DropZone: target(diagram.ElementConnector, "n2")}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.EdgeCreate{Src: "n1", Dest: "n2"}, out[0])

	// Dropping back on the source, or on nothing, creates nothing.
	assert.Empty(t, in.Interpret(event.Event{Kind: event.Drop, Source: src, DropZone: target(diagram.ElementConnector, "n1")}, s))
	assert.Empty(t, in.Interpret(event.Event{Kind: event.Drop, Source: src, DropZone: target(diagram.ElementWorkspace, "")}, s))

	out = in.Interpret(event.Event{Kind: event.DragEnd, Source: src}, s)
	require.Len(t, out, 1)
	assert.IsType(t, &action.EdgeDragEnd{}, out[0])
}

func TestLibraryDrop(t *testing.T) {
	in := New(nil)
	s := fixture()
	src := target(diagram.ElementLibraryItem, "task")
	s.PotentialNode = &diagram.PotentialNode{TypeID: "task", Size: geom.Size{Width: 80, Height: 40}}

	out := in.Interpret(event.Event{
		Kind:     event.Drop,
		Source:   src,
		DropZone: target(diagram.ElementWorkspace, ""),
		Position: geom.Point{X: 500, Y: 500},
	}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.NodeCreate{
		TypeID:   "task",
		Position: geom.Point{X: 460, Y: 480},
		Size:     geom.Size{Width: 80, Height: 40},
	}, out[0])

	assert.Empty(t, in.Interpret(event.Event{Kind: event.Drop, Source: src, DropZone: target(diagram.ElementPanel, "lib")}, s),
		"dropping over a panel creates nothing")

	out = in.Interpret(event.Event{Kind: event.DragEnd, Source: src}, s)
	require.Len(t, out, 1)
	assert.IsType(t, &action.PotentialNodeDragEnd{}, out[0])
}

func TestPanelDrag(t *testing.T) {
	in := New(nil)
	s := fixture()
	src := target(diagram.ElementPanelDragHandle, "lib")

	out := in.Interpret(event.Event{Kind: event.Drag, Source: src, Delta: geom.Point{X: 5, Y: 7}}, s)
	require.Len(t, out, 1)
	// Panels live in container space, so the delta is not scaled.
	assert.Equal(t, &action.PanelDrag{ID: "lib", Position: geom.Point{X: 15, Y: 17}}, out[0])
}

func TestWorkspaceDragPansOnlyInDragMode(t *testing.T) {
	in := New(nil)
	s := fixture()
	e := event.Event{Kind: event.Drag, Source: target(diagram.ElementWorkspace, ""), Delta: geom.Point{X: -3, Y: 4}}

	out := in.Interpret(e, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.WorkspaceDrag{Delta: geom.Point{X: -3, Y: 4}}, out[0])

	s.Editor.Mode = diagram.ModeSelect
	assert.Empty(t, in.Interpret(e, s))
}

func TestMarquee(t *testing.T) {
	in := New(nil)
	s := fixture()
	s.Editor.Mode = diagram.ModeSelect

	down := event.Event{Kind: event.MouseDown, Button: event.ButtonLeft, Target: target(diagram.ElementWorkspace, ""), Position: geom.Point{X: 10, Y: 20}}
	out := in.Interpret(down, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.UpdateSelectionMarquee{Anchor: geom.Point{X: 10, Y: 20}, Position: geom.Point{X: 10, Y: 20}}, out[0])

	s.Editor.SelectionMarquee = &diagram.Marquee{Anchor: geom.Point{X: 10, Y: 20}, Position: geom.Point{X: 10, Y: 20}}
	out = in.Interpret(event.Event{Kind: event.MouseMove, Position: geom.Point{X: 5, Y: 300}}, s)
	require.Len(t, out, 1)
	assert.Equal(t, &action.UpdateSelectionMarquee{Anchor: geom.Point{X: 10, Y: 20}, Position: geom.Point{X: 5, Y: 300}}, out[0])

	out = in.Interpret(event.Event{Kind: event.MouseUp}, s)
	require.Len(t, out, 1)
	assert.IsType(t, &action.HideSelectionMarquee{}, out[0])

	s.Editor.Mode = diagram.ModeDrag
	assert.Empty(t, in.Interpret(down, s), "no marquee in drag mode")
}

func TestWheelZooms(t *testing.T) {
	in := New(nil)
	out := in.Interpret(event.Event{Kind: event.MouseWheel, Wheel: -50, Container: geom.Point{X: 600, Y: 450}}, fixture())
	require.Len(t, out, 1)
	assert.Equal(t, &action.WorkspaceZoom{Position: geom.Point{X: 600, Y: 450}, Zoom: 50}, out[0])
}

func TestKeys(t *testing.T) {
	in := New(nil)
	s := fixture()
	n1 := s.Nodes["n1"]
	n1.Selected = true
	s.Nodes["n1"] = n1
	s.Editor.ContextMenu = &diagram.ContextMenu{}

	ctrl := event.Modifiers{Ctrl: true}
	tests := []struct {
		name string
		key  string
		mods event.Modifiers
		want []action.Action
	}{
		{"delete", "Delete", event.Modifiers{}, []action.Action{&action.DeleteItems{NodeIDs: []string{"n1"}}}},
		{"backspace", "Backspace", event.Modifiers{}, []action.Action{&action.DeleteItems{NodeIDs: []string{"n1"}}}},
		{"select all", "a", ctrl, []action.Action{&action.SelectAll{}}},
		{"undo", "z", ctrl, []action.Action{&action.Undo{}}},
		{"redo shift", "z", event.Modifiers{Meta: true, Shift: true}, []action.Action{&action.Redo{}}},
		{"redo y", "y", ctrl, []action.Action{&action.Redo{}}},
		{"escape", "Escape", event.Modifiers{}, []action.Action{&action.HideContextMenu{}}},
		{"plain letter", "a", event.Modifiers{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := in.Interpret(event.Event{Kind: event.KeyDown, Key: tt.key, Mods: tt.mods}, s)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteWithEmptySelection(t *testing.T) {
	assert.Nil(t, New(nil).Interpret(event.Event{Kind: event.KeyDown, Key: "Delete"}, fixture()))
}
