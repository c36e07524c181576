package store

import (
	"github.com/google/uuid"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

// Stage transforms an action before it reaches the reducers. Returning nil
// drops the action. Stages must not mutate the action they receive; they
// return a modified copy instead.
type Stage func(a action.Action, s diagram.State) action.Action

// NewID returns a random uuid string.
func NewID() string { return uuid.NewString() }

// ReadOnlyGuard drops graph edits while the editor is read-only.
func ReadOnlyGuard(a action.Action, s diagram.State) action.Action {
	if s.Editor.Mode == diagram.ModeReadOnly && action.Structural(a) {
		return nil
	}
	return a
}

// AssignIDs fills empty ids on created nodes and edges.
func AssignIDs(gen func() string) Stage {
	return func(a action.Action, _ diagram.State) action.Action {
		switch a := a.(type) {
		case *action.NodeCreate:
			if a.ID == "" {
				c := *a
				c.ID = gen()
				return &c
			}
		case *action.EdgeCreate:
			if a.ID == "" {
				c := *a
				c.ID = gen()
				return &c
			}
		case *action.CreateItems:
			c := &action.CreateItems{
				Nodes: make([]diagram.Node, len(a.Nodes)),
				Edges: make([]diagram.Edge, len(a.Edges)),
			}
			copy(c.Nodes, a.Nodes)
			copy(c.Edges, a.Edges)
			for i := range c.Nodes {
				if c.Nodes[i].ID == "" {
					c.Nodes[i].ID = gen()
				}
			}
			for i := range c.Edges {
				if c.Edges[i].ID == "" {
					c.Edges[i].ID = gen()
				}
			}
			return c
		}
		return a
	}
}
