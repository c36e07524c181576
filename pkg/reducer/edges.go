package reducer

import (
	"maps"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

func reduceEdges(_ *Reducer, s diagram.State, a action.Action) diagram.State {
	switch a := a.(type) {
	case *action.EdgeCreate:
		if a.ID == "" || a.Src == a.Dest {
			return s
		}
		if _, exists := s.Edges[a.ID]; exists {
			return s
		}
		if _, ok := s.Nodes[a.Src]; !ok {
			return s
		}
		if _, ok := s.Nodes[a.Dest]; !ok {
			return s
		}
		// The connect gesture never produces parallel edges.
		if s.HasEdge(a.Src, a.Dest) {
			return s
		}
		s.Edges = maps.Clone(s.Edges)
		s.Edges[a.ID] = diagram.Edge{ID: a.ID, Src: a.Src, Dest: a.Dest, ConsumerData: a.ConsumerData}

	case *action.EdgeDelete:
		if _, ok := s.Edges[a.ID]; !ok {
			return s
		}
		s.Edges = maps.Clone(s.Edges)
		delete(s.Edges, a.ID)

	case *action.NodeDelete:
		return removeEdges(s, nil, []string{a.ID})

	case *action.CreateItems:
		var edges map[string]diagram.Edge
		for _, e := range a.Edges {
			if e.ID == "" {
				continue
			}
			if _, exists := s.Edges[e.ID]; exists {
				continue
			}
			if edges == nil {
				edges = maps.Clone(s.Edges)
			}
			edges[e.ID] = e
		}
		if edges != nil {
			s.Edges = edges
		}

	case *action.DeleteItems:
		return removeEdges(s, a.EdgeIDs, a.NodeIDs)
	}
	return s
}

// removeEdges deletes the listed edges and every edge incident to one of
// the listed nodes.
func removeEdges(s diagram.State, edgeIDs, nodeIDs []string) diagram.State {
	doomed := make(map[string]bool)
	for _, id := range edgeIDs {
		if _, ok := s.Edges[id]; ok {
			doomed[id] = true
		}
	}
	if len(nodeIDs) > 0 {
		gone := make(map[string]bool, len(nodeIDs))
		for _, id := range nodeIDs {
			gone[id] = true
		}
		for id, e := range s.Edges {
			if gone[e.Src] || gone[e.Dest] {
				doomed[id] = true
			}
		}
	}
	if len(doomed) == 0 {
		return s
	}
	s.Edges = maps.Clone(s.Edges)
	for id := range doomed {
		delete(s.Edges, id)
	}
	return s
}
