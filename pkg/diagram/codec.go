package diagram

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/diagram-toolkit/pkg/errors"
)

// Format identifies a serialization of the state tree.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serializes s. Transient gesture state (marquee, context menu,
// potential node/edge, drag flags) is stripped first.
func Encode(s State, format Format, pretty bool) ([]byte, error) {
	s = Persistable(s)
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatJSON:
		if pretty {
			return json.MarshalIndent(s, "", "  ")
		}
		return json.Marshal(s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

// Decode parses a state tree, fills defaults and validates it.
func Decode(data []byte, format Format) (State, error) {
	var s State
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	default:
		return State{}, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}

	s = Normalize(s)
	fillIDs(&s)
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// fillIDs lets files omit the id field inside each entry; the map key wins.
func fillIDs(s *State) {
	for id, n := range s.Nodes {
		if n.ID == "" {
			n.ID = id
			s.Nodes[id] = n
		}
	}
	for id, e := range s.Edges {
		if e.ID == "" {
			e.ID = id
			s.Edges[id] = e
		}
	}
	for id, p := range s.Panels {
		if p.ID == "" {
			p.ID = id
			s.Panels[id] = p
		}
	}
}

// Persistable returns s without transient UI state.
func Persistable(s State) State {
	nodes := make(map[string]Node, len(s.Nodes))
	for id, n := range s.Nodes {
		n.Dragging = false
		nodes[id] = n
	}
	panels := make(map[string]Panel, len(s.Panels))
	for id, p := range s.Panels {
		p.Dragging = false
		panels[id] = p
	}
	s.Nodes = nodes
	s.Panels = panels
	s.Editor.SelectionMarquee = nil
	s.Editor.ContextMenu = nil
	s.PotentialNode = nil
	s.PotentialEdge = nil
	return s
}
