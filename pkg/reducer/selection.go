package reducer

import (
	"maps"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

// Node and edge selection are mutually exclusive: selecting one kind clears
// the other. Several nodes (or several edges) may be selected at once.
func reduceSelection(_ *Reducer, s diagram.State, a action.Action) diagram.State {
	switch a := a.(type) {
	case *action.NodeSelect:
		target, ok := s.Nodes[a.ID]
		if !ok {
			return s
		}
		s = selectEdges(s, func(diagram.Edge) bool { return false })
		if a.Additive {
			return selectNodes(s, func(n diagram.Node) bool {
				if n.ID == target.ID {
					return !n.Selected
				}
				return n.Selected
			})
		}
		return selectNodes(s, func(n diagram.Node) bool { return n.ID == target.ID })

	case *action.EdgeSelect:
		target, ok := s.Edges[a.ID]
		if !ok || !s.Active(target) {
			return s
		}
		s = selectNodes(s, func(diagram.Node) bool { return false })
		if a.Additive {
			return selectEdges(s, func(e diagram.Edge) bool {
				if e.ID == target.ID {
					return !e.Selected
				}
				return e.Selected
			})
		}
		return selectEdges(s, func(e diagram.Edge) bool { return e.ID == target.ID })

	case *action.WorkspaceDeselect:
		s = selectNodes(s, func(diagram.Node) bool { return false })
		return selectEdges(s, func(diagram.Edge) bool { return false })

	case *action.SelectAll:
		s = selectEdges(s, func(diagram.Edge) bool { return false })
		return selectNodes(s, func(diagram.Node) bool { return true })

	case *action.UpdateSelectionMarquee:
		if s.Editor.Mode != diagram.ModeSelect {
			return s
		}
		// Recomputed from scratch on every move so shrinking the marquee
		// releases nodes it no longer touches.
		box := diagram.Marquee{Anchor: a.Anchor, Position: a.Position}.Rect()
		s = selectEdges(s, func(diagram.Edge) bool { return false })
		return selectNodes(s, func(n diagram.Node) bool { return n.Rect().Intersects(box) })
	}
	return s
}

// selectNodes sets each node's Selected flag to want(node), cloning the
// map only when something changes.
func selectNodes(s diagram.State, want func(diagram.Node) bool) diagram.State {
	var nodes map[string]diagram.Node
	for id, n := range s.Nodes {
		sel := want(n)
		if sel == n.Selected {
			continue
		}
		if nodes == nil {
			nodes = maps.Clone(s.Nodes)
		}
		n.Selected = sel
		nodes[id] = n
	}
	if nodes != nil {
		s.Nodes = nodes
	}
	return s
}

func selectEdges(s diagram.State, want func(diagram.Edge) bool) diagram.State {
	var edges map[string]diagram.Edge
	for id, e := range s.Edges {
		sel := want(e)
		if sel == e.Selected {
			continue
		}
		if edges == nil {
			edges = maps.Clone(s.Edges)
		}
		e.Selected = sel
		edges[id] = e
	}
	if edges != nil {
		s.Edges = edges
	}
	return s
}
