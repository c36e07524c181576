// Package config holds the consumer-facing configuration of a diagram:
// per node type settings, global options, the render capability, the
// action interceptor and the event listener. The serializable part can be
// stored as TOML (see Load and Save).
package config

import (
	"slices"

	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/event"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
	"github.com/ha1tch/diagram-toolkit/pkg/layout"
	"github.com/ha1tch/diagram-toolkit/pkg/reducer"
	"github.com/ha1tch/diagram-toolkit/pkg/store"
)

// ConnectorType names one side of a node's connectors.
type ConnectorType string

const (
	ConnectorInput  ConnectorType = "input"
	ConnectorOutput ConnectorType = "output"
)

// NodeType configures every node of one type id.
type NodeType struct {
	Size                       geom.Size       `toml:"size"`
	Shape                      geom.Shape      `toml:"shape,omitempty"`
	ConnectorPlacementOverride geom.Placement  `toml:"connector_placement_override,omitempty"`
	VisibleConnectorTypes      []ConnectorType `toml:"visible_connector_types,omitempty"`
}

// Options are global editor settings.
type Options struct {
	ConnectorPlacement geom.Placement `toml:"connector_placement"`
	ShowArrowhead      bool           `toml:"show_arrowhead"`
	MaxScale           float64        `toml:"max_scale"`
	SnapDistance       float64        `toml:"snap_distance"`
	FitPadding         float64        `toml:"fit_padding"`
}

// EventListener receives every normalized UI event, independent of the
// actions the event produces.
type EventListener func(e event.Event)

// Config is the complete configuration of a diagram.
type Config struct {
	Options   Options
	NodeTypes map[string]NodeType
	Layout    layout.Options

	Renderer      Renderer
	Interceptor   store.Interceptor
	EventListener EventListener
}

// DefaultOptions returns the default global options.
func DefaultOptions() Options {
	return Options{
		ConnectorPlacement: geom.PlacementLeftRight,
		ShowArrowhead:      true,
		MaxScale:           reducer.DefaultMaxScale,
		SnapDistance:       reducer.DefaultSnapDistance,
		FitPadding:         reducer.DefaultFitPadding,
	}
}

// Default returns a configuration with default options and no node types.
func Default() Config {
	return Config{
		Options:   DefaultOptions(),
		NodeTypes: map[string]NodeType{},
		Layout:    layout.Options{Algorithm: layout.Workflow},
	}
}

var placements = []geom.Placement{
	geom.PlacementLeftRight,
	geom.PlacementTopBottom,
	geom.PlacementCentered,
	geom.PlacementBoundary,
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Options.ConnectorPlacement != "" && !slices.Contains(placements, c.Options.ConnectorPlacement) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown connector placement %q", c.Options.ConnectorPlacement)
	}
	if c.Options.MaxScale < 0 || c.Options.SnapDistance < 0 || c.Options.FitPadding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale, snap distance and fit padding must not be negative")
	}
	for id, nt := range c.NodeTypes {
		if nt.Size.Width < 0 || nt.Size.Height < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "node type %q: negative size", id)
		}
		if p := nt.ConnectorPlacementOverride; p != "" && !slices.Contains(placements, p) {
			return errors.New(errors.ErrCodeInvalidConfig, "node type %q: unknown connector placement %q", id, p)
		}
		switch nt.Shape {
		case "", geom.ShapeRectangle, geom.ShapeCircle:
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "node type %q: unknown shape %q", id, nt.Shape)
		}
		for _, ct := range nt.VisibleConnectorTypes {
			if ct != ConnectorInput && ct != ConnectorOutput {
				return errors.New(errors.ErrCodeInvalidConfig, "node type %q: unknown connector type %q", id, ct)
			}
		}
	}
	return nil
}

// Placement returns the connector placement for nodes of typeID.
func (c Config) Placement(typeID string) geom.Placement {
	if nt, ok := c.NodeTypes[typeID]; ok && nt.ConnectorPlacementOverride != "" {
		return nt.ConnectorPlacementOverride
	}
	if c.Options.ConnectorPlacement != "" {
		return c.Options.ConnectorPlacement
	}
	return geom.PlacementLeftRight
}

// Shape returns the outline of nodes of typeID.
func (c Config) Shape(typeID string) geom.Shape {
	if nt, ok := c.NodeTypes[typeID]; ok && nt.Shape != "" {
		return nt.Shape
	}
	return geom.ShapeRectangle
}

// ConnectorVisible reports whether nodes of typeID show connectors of ct.
// Types that do not restrict their connectors show both.
func (c Config) ConnectorVisible(typeID string, ct ConnectorType) bool {
	nt, ok := c.NodeTypes[typeID]
	if !ok || len(nt.VisibleConnectorTypes) == 0 {
		return true
	}
	return slices.Contains(nt.VisibleConnectorTypes, ct)
}

// ReducerOptions converts the configuration into reducer tuning.
func (c Config) ReducerOptions() reducer.Options {
	sizes := make(map[string]geom.Size, len(c.NodeTypes))
	for id, nt := range c.NodeTypes {
		sizes[id] = nt.Size
	}
	return reducer.Options{
		MaxScale:     c.Options.MaxScale,
		FitPadding:   c.Options.FitPadding,
		SnapDistance: c.Options.SnapDistance,
		NodeSizes:    sizes,
	}
}
