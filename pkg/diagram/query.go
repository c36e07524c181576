package diagram

import (
	"maps"
	"slices"

	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// NodeIDs returns all node ids in sorted order.
func (s State) NodeIDs() []string {
	return slices.Sorted(maps.Keys(s.Nodes))
}

// EdgeIDs returns all edge ids in sorted order.
func (s State) EdgeIDs() []string {
	return slices.Sorted(maps.Keys(s.Edges))
}

// SelectedNodeIDs returns the ids of selected nodes in sorted order.
func (s State) SelectedNodeIDs() []string {
	var ids []string
	for _, id := range s.NodeIDs() {
		if s.Nodes[id].Selected {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectedEdgeIDs returns the ids of selected edges in sorted order.
func (s State) SelectedEdgeIDs() []string {
	var ids []string
	for _, id := range s.EdgeIDs() {
		if s.Edges[id].Selected {
			ids = append(ids, id)
		}
	}
	return ids
}

// Active reports whether both endpoints of e exist.
func (s State) Active(e Edge) bool {
	_, okSrc := s.Nodes[e.Src]
	_, okDest := s.Nodes[e.Dest]
	return okSrc && okDest
}

// ActiveEdges returns the edges whose endpoints both exist, sorted by id.
// Dangling edges are tolerated in storage but skipped by geometry code.
func (s State) ActiveEdges() []Edge {
	var out []Edge
	for _, id := range s.EdgeIDs() {
		if e := s.Edges[id]; s.Active(e) {
			out = append(out, e)
		}
	}
	return out
}

// IncidentEdges returns every edge with nodeID as src or dest, sorted by id.
func (s State) IncidentEdges(nodeID string) []Edge {
	var out []Edge
	for _, id := range s.EdgeIDs() {
		if e := s.Edges[id]; e.Src == nodeID || e.Dest == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// HasEdge reports whether an edge from src to dest exists.
func (s State) HasEdge(src, dest string) bool {
	for _, e := range s.Edges {
		if e.Src == src && e.Dest == dest {
			return true
		}
	}
	return false
}

// NodesBounds returns the bounding box of the given nodes. Missing ids are
// skipped; ok is false when nothing remains.
func (s State) NodesBounds(ids []string) (geom.Rect, bool) {
	rects := make([]geom.Rect, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.Nodes[id]; ok {
			rects = append(rects, n.Rect())
		}
	}
	return geom.BoundingBox(rects)
}

// Validate checks the structural invariants of a state loaded from
// outside the reducer pipeline. Dangling edges are allowed.
func (s State) Validate() error {
	for id, n := range s.Nodes {
		if n.ID != id {
			return errors.New(errors.ErrCodeInvalidFormat, "node key %q holds node %q", id, n.ID)
		}
		if n.Size.Width < 0 || n.Size.Height < 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "node %q has negative size", id)
		}
	}
	for id, e := range s.Edges {
		if e.ID != id {
			return errors.New(errors.ErrCodeInvalidFormat, "edge key %q holds edge %q", id, e.ID)
		}
	}
	for id, p := range s.Panels {
		if p.ID != id {
			return errors.New(errors.ErrCodeInvalidFormat, "panel key %q holds panel %q", id, p.ID)
		}
		if p.Anchored() && !slices.Contains(Anchors, p.PositionAnchor) {
			return errors.New(errors.ErrCodeInvalidFormat, "panel %q has unknown anchor %q", id, p.PositionAnchor)
		}
	}
	if s.Workspace.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "workspace scale must be positive, got %v", s.Workspace.Scale)
	}
	switch s.Editor.Mode {
	case ModeDrag, ModeSelect, ModeReadOnly:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown editor mode %q", s.Editor.Mode)
	}
	return nil
}
