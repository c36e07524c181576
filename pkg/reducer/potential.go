package reducer

import (
	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

func reducePotentialNode(r *Reducer, s diagram.State, a action.Action) diagram.State {
	switch a := a.(type) {
	case *action.PotentialNodeDragStart:
		s.PotentialNode = &diagram.PotentialNode{
			TypeID:   a.TypeID,
			Position: a.Position,
			Size:     r.nodeSize(a.TypeID, a.Size),
		}

	case *action.PotentialNodeDrag:
		if s.PotentialNode == nil {
			return s
		}
		pn := *s.PotentialNode
		pn.Position = a.Position
		s.PotentialNode = &pn

	case *action.PotentialNodeDragEnd, *action.NodeCreate:
		s.PotentialNode = nil

	case *action.SetEditorMode:
		if a.Mode == diagram.ModeReadOnly {
			s.PotentialNode = nil
		}
	}
	return s
}

func reducePotentialEdge(_ *Reducer, s diagram.State, a action.Action) diagram.State {
	switch a := a.(type) {
	case *action.EdgeDragStart:
		if _, ok := s.Nodes[a.Src]; !ok {
			return s
		}
		s.PotentialEdge = &diagram.PotentialEdge{Src: a.Src, Position: a.Position}

	case *action.EdgeDrag:
		if s.PotentialEdge == nil {
			return s
		}
		pe := *s.PotentialEdge
		pe.Position = a.Position
		s.PotentialEdge = &pe

	case *action.EdgeDragEnd, *action.EdgeCreate:
		s.PotentialEdge = nil

	case *action.SetEditorMode:
		if a.Mode == diagram.ModeReadOnly {
			s.PotentialEdge = nil
		}
	}
	return s
}
