package reducer

import (
	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

func reduceEditor(_ *Reducer, s diagram.State, a action.Action) diagram.State {
	switch a := a.(type) {
	case *action.SetEditorMode:
		switch a.Mode {
		case diagram.ModeDrag, diagram.ModeSelect, diagram.ModeReadOnly:
		default:
			return s
		}
		s.Editor.Mode = a.Mode
		// Any mode change ends an in-flight marquee.
		s.Editor.SelectionMarquee = nil

	case *action.ShowContextMenu:
		s.Editor.ContextMenu = &diagram.ContextMenu{
			Position:   a.Position,
			TargetType: a.TargetType,
			TargetID:   a.TargetID,
		}
		s.Editor.SelectionMarquee = nil

	case *action.HideContextMenu:
		if s.Editor.ContextMenu == nil {
			return s
		}
		s.Editor.ContextMenu = nil

	case *action.UpdateSelectionMarquee:
		if s.Editor.Mode != diagram.ModeSelect {
			return s
		}
		s.Editor.SelectionMarquee = &diagram.Marquee{Anchor: a.Anchor, Position: a.Position}
		s.Editor.ContextMenu = nil

	case *action.HideSelectionMarquee:
		if s.Editor.SelectionMarquee == nil {
			return s
		}
		s.Editor.SelectionMarquee = nil
	}
	return s
}
