package reducer

import (
	"maps"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

func reducePanels(r *Reducer, s diagram.State, a action.Action) diagram.State {
	switch a := a.(type) {
	case *action.PanelDragStart:
		return updatePanel(s, a.ID, func(p *diagram.Panel) { p.Dragging = true })

	case *action.PanelDrag:
		view := s.Workspace.ViewContainerSize
		return updatePanel(s, a.ID, func(p *diagram.Panel) {
			p.Position = a.Position
			if view.Width > 0 && view.Height > 0 {
				p.Position.X = geom.Clamp(p.Position.X, 0, view.Width-p.Size.Width)
				p.Position.Y = geom.Clamp(p.Position.Y, 0, view.Height-p.Size.Height)
			}
		})

	case *action.PanelDragEnd:
		view := s.Workspace.ViewContainerSize
		return updatePanel(s, a.ID, func(p *diagram.Panel) {
			p.Dragging = false
			p.PositionAnchor = diagram.NearestAnchor(p.Position, p.Size, view, r.opts.SnapDistance)
			if p.Anchored() {
				p.Offset = diagram.AnchorOffset(p.PositionAnchor, p.Position, p.Size, view)
			} else {
				p.Offset = geom.Point{}
			}
		})

	case *action.WorkspaceResize:
		// Undocked panels keep their absolute position.
		var panels map[string]diagram.Panel
		for id, p := range s.Panels {
			if !p.Anchored() {
				continue
			}
			pos := diagram.AnchoredPosition(p.PositionAnchor, p.Offset, p.Size, a.ContainerSize)
			if pos == p.Position {
				continue
			}
			if panels == nil {
				panels = maps.Clone(s.Panels)
			}
			p.Position = pos
			panels[id] = p
		}
		if panels != nil {
			s.Panels = panels
		}

	case *action.SetEditorMode:
		if a.Mode != diagram.ModeReadOnly {
			return s
		}
		var panels map[string]diagram.Panel
		for id, p := range s.Panels {
			if !p.Dragging {
				continue
			}
			if panels == nil {
				panels = maps.Clone(s.Panels)
			}
			p.Dragging = false
			panels[id] = p
		}
		if panels != nil {
			s.Panels = panels
		}
	}
	return s
}

func updatePanel(s diagram.State, id string, fn func(p *diagram.Panel)) diagram.State {
	p, ok := s.Panels[id]
	if !ok {
		return s
	}
	fn(&p)
	s.Panels = maps.Clone(s.Panels)
	s.Panels[id] = p
	return s
}
