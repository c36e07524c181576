// Package interact interprets semantic UI events as editor actions.
//
// The interpreter is stateless: everything it needs to resolve a gesture
// (current mode, open menus, in-flight potential node or edge, node and
// panel positions) is read from the state the event arrived against.
// Gesture bookkeeping such as dead zones lives in event.Tracker.
package interact

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/event"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// Interpreter maps events to actions.
type Interpreter struct {
	logger *log.Logger
}

// New creates an Interpreter. A nil logger discards output.
func New(logger *log.Logger) *Interpreter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Interpreter{logger: logger}
}

// Interpret returns the actions e implies against s, in dispatch order.
// Events with no meaning in the current state yield nil.
func (in *Interpreter) Interpret(e event.Event, s diagram.State) []action.Action {
	var out []action.Action
	switch e.Kind {
	case event.MouseDown:
		out = in.mouseDown(e, s)
	case event.MouseMove:
		if m := s.Editor.SelectionMarquee; m != nil {
			out = []action.Action{&action.UpdateSelectionMarquee{Anchor: m.Anchor, Position: e.Position}}
		}
	case event.MouseUp:
		if s.Editor.SelectionMarquee != nil {
			out = []action.Action{&action.HideSelectionMarquee{}}
		}
	case event.MouseWheel:
		if e.Wheel != 0 {
			out = []action.Action{&action.WorkspaceZoom{Position: e.Container, Zoom: -e.Wheel}}
		}
	case event.ContextMenu:
		out = in.contextMenu(e)
	case event.LeftClick:
		out = in.click(e, s)
	case event.DragStart:
		out = in.dragStart(e, s)
	case event.Drag:
		out = in.drag(e, s)
	case event.Drop:
		out = in.drop(e, s)
	case event.DragEnd:
		out = in.dragEnd(e, s)
	case event.KeyDown:
		out = in.key(e, s)
	}
	if len(out) > 0 {
		in.logger.Debug("interpreted", "event", e.Kind, "target", e.Target.Type, "actions", len(out))
	}
	return out
}

func (in *Interpreter) mouseDown(e event.Event, s diagram.State) []action.Action {
	if e.Button != event.ButtonLeft || s.Editor.Mode != diagram.ModeSelect {
		return nil
	}
	if e.Target.Type != diagram.ElementWorkspace {
		return nil
	}
	return []action.Action{&action.UpdateSelectionMarquee{Anchor: e.Position, Position: e.Position}}
}

func (in *Interpreter) contextMenu(e event.Event) []action.Action {
	if !e.Target.Valid() || e.Target.Type == diagram.ElementContextMenu {
		return nil
	}
	return []action.Action{&action.ShowContextMenu{
		Position:   e.Container,
		TargetType: e.Target.Type,
		TargetID:   e.Target.ID,
	}}
}

func (in *Interpreter) click(e event.Event, s diagram.State) []action.Action {
	var out []action.Action
	if s.Editor.ContextMenu != nil {
		if e.Target.Type == diagram.ElementContextMenu {
			return nil
		}
		out = append(out, &action.HideContextMenu{})
	}

	additive := e.Mods.Shift || e.Mods.Command()
	switch e.Target.Type {
	case diagram.ElementNode:
		out = append(out, &action.NodeSelect{ID: e.Target.ID, Additive: additive})
	case diagram.ElementEdge:
		out = append(out, &action.EdgeSelect{ID: e.Target.ID, Additive: additive})
	case diagram.ElementWorkspace:
		out = append(out, &action.WorkspaceDeselect{})
	}
	return out
}

func (in *Interpreter) dragStart(e event.Event, s diagram.State) []action.Action {
	src := e.Source
	switch src.Type {
	case diagram.ElementNode:
		if _, ok := s.Nodes[src.ID]; ok {
			return []action.Action{&action.NodeDragStart{ID: src.ID}}
		}
	case diagram.ElementConnector:
		if _, ok := s.Nodes[src.ID]; ok {
			return []action.Action{&action.EdgeDragStart{Src: src.ID, Position: e.Position}}
		}
	case diagram.ElementLibraryItem:
		return []action.Action{&action.PotentialNodeDragStart{TypeID: src.ID, Position: e.Position}}
	case diagram.ElementPanelDragHandle:
		if _, ok := s.Panels[src.ID]; ok {
			return []action.Action{&action.PanelDragStart{ID: src.ID}}
		}
	}
	return nil
}

func (in *Interpreter) drag(e event.Event, s diagram.State) []action.Action {
	src := e.Source
	switch src.Type {
	case diagram.ElementNode:
		n, ok := s.Nodes[src.ID]
		if !ok {
			return nil
		}
		// Delta is in container space; nodes live in workspace space.
		scale := s.Workspace.Scale
		if scale <= 0 {
			scale = 1
		}
		return []action.Action{&action.NodeDrag{ID: src.ID, Position: n.Position.Add(e.Delta.Scale(1 / scale))}}

	case diagram.ElementConnector:
		if s.PotentialEdge != nil {
			return []action.Action{&action.EdgeDrag{Position: e.Position}}
		}

	case diagram.ElementLibraryItem:
		if s.PotentialNode != nil {
			return []action.Action{&action.PotentialNodeDrag{Position: e.Position}}
		}

	case diagram.ElementPanelDragHandle:
		if p, ok := s.Panels[src.ID]; ok {
			return []action.Action{&action.PanelDrag{ID: src.ID, Position: p.Position.Add(e.Delta)}}
		}

	case diagram.ElementWorkspace:
		if s.Editor.Mode == diagram.ModeDrag {
			return []action.Action{&action.WorkspaceDrag{Delta: e.Delta}}
		}
	}
	return nil
}

func (in *Interpreter) drop(e event.Event, s diagram.State) []action.Action {
	switch e.Source.Type {
	case diagram.ElementConnector:
		pe := s.PotentialEdge
		if pe == nil {
			return nil
		}
		dz := e.DropZone
		if dz.Type != diagram.ElementConnector && dz.Type != diagram.ElementNode {
			return nil
		}
		if dz.ID == "" || dz.ID == pe.Src {
			return nil
		}
		if _, ok := s.Nodes[dz.ID]; !ok {
			return nil
		}
		return []action.Action{&action.EdgeCreate{Src: pe.Src, Dest: dz.ID}}

	case diagram.ElementLibraryItem:
		pn := s.PotentialNode
		if pn == nil || e.DropZone.Type != diagram.ElementWorkspace {
			return nil
		}
		return []action.Action{&action.NodeCreate{
			TypeID:   pn.TypeID,
			Position: centeredAt(e.Position, pn.Size),
			Size:     pn.Size,
		}}
	}
	return nil
}

func (in *Interpreter) dragEnd(e event.Event, s diagram.State) []action.Action {
	src := e.Source
	switch src.Type {
	case diagram.ElementNode:
		if _, ok := s.Nodes[src.ID]; ok {
			return []action.Action{&action.NodeDragEnd{ID: src.ID}}
		}
	case diagram.ElementConnector:
		if s.PotentialEdge != nil {
			return []action.Action{&action.EdgeDragEnd{}}
		}
	case diagram.ElementLibraryItem:
		if s.PotentialNode != nil {
			return []action.Action{&action.PotentialNodeDragEnd{}}
		}
	case diagram.ElementPanelDragHandle:
		if _, ok := s.Panels[src.ID]; ok {
			return []action.Action{&action.PanelDragEnd{ID: src.ID}}
		}
	}
	return nil
}

func (in *Interpreter) key(e event.Event, s diagram.State) []action.Action {
	cmd := e.Mods.Command()
	switch {
	case e.Key == "Delete" || e.Key == "Backspace":
		nodes, edges := s.SelectedNodeIDs(), s.SelectedEdgeIDs()
		if len(nodes) == 0 && len(edges) == 0 {
			return nil
		}
		return []action.Action{&action.DeleteItems{NodeIDs: nodes, EdgeIDs: edges}}

	case e.Key == "Escape":
		var out []action.Action
		if s.Editor.ContextMenu != nil {
			out = append(out, &action.HideContextMenu{})
		}
		if s.Editor.SelectionMarquee != nil {
			out = append(out, &action.HideSelectionMarquee{})
		}
		return out

	case cmd && (e.Key == "a" || e.Key == "A"):
		return []action.Action{&action.SelectAll{}}

	case cmd && (e.Key == "z" || e.Key == "Z"):
		if e.Mods.Shift {
			return []action.Action{&action.Redo{}}
		}
		return []action.Action{&action.Undo{}}

	case cmd && (e.Key == "y" || e.Key == "Y"):
		return []action.Action{&action.Redo{}}
	}
	return nil
}

// centeredAt returns the top-left corner of a box of size centred on p.
func centeredAt(p geom.Point, size geom.Size) geom.Point {
	return geom.Point{X: p.X - size.Width/2, Y: p.Y - size.Height/2}
}
