package history

import (
	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

// Invert returns the action that takes next back to prev, where next is
// the result of applying a to prev. ok is false when a is not undoable or
// had no effect on the graph (a rejected duplicate edge, say).
//
// Deletes invert to CreateItems carrying the prior nodes and every
// cascade-deleted edge; creates invert to deletes of the ids they added.
// Selection is not historied, so restored items come back unselected.
func Invert(prev, next diagram.State, a action.Action) (action.Action, bool) {
	if !action.Undoable(a) {
		return nil, false
	}

	addedNodes, removedNodes := diffNodes(prev, next)
	addedEdges, removedEdges := diffEdges(prev, next)
	if len(addedNodes)+len(removedNodes)+len(addedEdges)+len(removedEdges) == 0 {
		return nil, false
	}

	switch a := a.(type) {
	case *action.NodeCreate:
		return &action.NodeDelete{ID: a.ID}, true
	case *action.EdgeCreate:
		return &action.EdgeDelete{ID: a.ID}, true
	case *action.CreateItems:
		return &action.DeleteItems{NodeIDs: addedNodes, EdgeIDs: addedEdges}, true
	default:
		// NodeDelete, EdgeDelete, DeleteItems
		inv := &action.CreateItems{}
		for _, id := range removedNodes {
			n := prev.Nodes[id]
			n.Dragging, n.Selected = false, false
			inv.Nodes = append(inv.Nodes, n)
		}
		for _, id := range removedEdges {
			e := prev.Edges[id]
			e.Selected = false
			inv.Edges = append(inv.Edges, e)
		}
		return inv, true
	}
}

// diffNodes returns sorted ids present only in next, then only in prev.
func diffNodes(prev, next diagram.State) (added, removed []string) {
	for _, id := range next.NodeIDs() {
		if _, ok := prev.Nodes[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range prev.NodeIDs() {
		if _, ok := next.Nodes[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func diffEdges(prev, next diagram.State) (added, removed []string) {
	for _, id := range next.EdgeIDs() {
		if _, ok := prev.Edges[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range prev.EdgeIDs() {
		if _, ok := next.Edges[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
