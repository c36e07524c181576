package reducer

import (
	"maps"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

func reduceNodes(r *Reducer, s diagram.State, a action.Action) diagram.State {
	switch a := a.(type) {
	case *action.NodeCreate:
		if a.ID == "" {
			return s
		}
		if _, exists := s.Nodes[a.ID]; exists {
			return s
		}
		n := diagram.Node{
			ID:           a.ID,
			TypeID:       a.TypeID,
			Size:         r.nodeSize(a.TypeID, a.Size),
			ConsumerData: a.ConsumerData,
		}
		n.Position = clampNode(a.Position, n.Size, s.Workspace.CanvasSize)
		s.Nodes = maps.Clone(s.Nodes)
		s.Nodes[n.ID] = n

	case *action.NodeDelete:
		if _, ok := s.Nodes[a.ID]; !ok {
			return s
		}
		s.Nodes = maps.Clone(s.Nodes)
		delete(s.Nodes, a.ID)

	case *action.NodeDragStart:
		return updateNode(s, a.ID, func(n *diagram.Node) { n.Dragging = true })

	case *action.NodeDrag:
		return updateNode(s, a.ID, func(n *diagram.Node) {
			n.Position = clampNode(a.Position, n.Size, s.Workspace.CanvasSize)
		})

	case *action.NodeDragEnd:
		return updateNode(s, a.ID, func(n *diagram.Node) { n.Dragging = false })

	case *action.CreateItems:
		var nodes map[string]diagram.Node
		for _, n := range a.Nodes {
			if n.ID == "" {
				continue
			}
			if _, exists := s.Nodes[n.ID]; exists {
				continue
			}
			if nodes == nil {
				nodes = maps.Clone(s.Nodes)
			}
			n.Size = r.nodeSize(n.TypeID, n.Size)
			n.Dragging = false
			nodes[n.ID] = n
		}
		if nodes != nil {
			s.Nodes = nodes
		}

	case *action.DeleteItems:
		var nodes map[string]diagram.Node
		for _, id := range a.NodeIDs {
			if _, ok := s.Nodes[id]; !ok {
				continue
			}
			if nodes == nil {
				nodes = maps.Clone(s.Nodes)
			}
			delete(nodes, id)
		}
		if nodes != nil {
			s.Nodes = nodes
		}

	case *action.Layout:
		if len(a.Positions) == 0 {
			return s
		}
		nodes := maps.Clone(s.Nodes)
		for id, pos := range a.Positions {
			n, ok := nodes[id]
			if !ok {
				continue
			}
			n.Position = clampNode(pos, n.Size, s.Workspace.CanvasSize)
			nodes[id] = n
		}
		s.Nodes = nodes

	case *action.SetEditorMode:
		if a.Mode != diagram.ModeReadOnly {
			return s
		}
		var nodes map[string]diagram.Node
		for id, n := range s.Nodes {
			if !n.Dragging {
				continue
			}
			if nodes == nil {
				nodes = maps.Clone(s.Nodes)
			}
			n.Dragging = false
			nodes[id] = n
		}
		if nodes != nil {
			s.Nodes = nodes
		}
	}
	return s
}

// updateNode applies fn to a copy of node id. Missing nodes are a no-op.
func updateNode(s diagram.State, id string, fn func(n *diagram.Node)) diagram.State {
	n, ok := s.Nodes[id]
	if !ok {
		return s
	}
	fn(&n)
	s.Nodes = maps.Clone(s.Nodes)
	s.Nodes[id] = n
	return s
}

// clampNode keeps a node's bounding box inside [0, canvas].
func clampNode(pos geom.Point, size geom.Size, canvas geom.Size) geom.Point {
	return geom.Point{
		X: geom.Clamp(pos.X, 0, canvas.Width-size.Width),
		Y: geom.Clamp(pos.Y, 0, canvas.Height-size.Height),
	}
}
