package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/layout"
)

// File is the on-disk form of a configuration:
//
//	[options]
//	connector_placement = "LeftRight"
//	show_arrowhead = true
//
//	[node_types.task]
//	size = { width = 120, height = 60 }
//	shape = "rectangle"
//
//	[layout]
//	algorithm = "WORKFLOW"
type File struct {
	Options   Options             `toml:"options"`
	NodeTypes map[string]NodeType `toml:"node_types"`
	Layout    layout.Options      `toml:"layout"`
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "diagram.toml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "diagram-toolkit", "config.toml")
}

// Load reads a configuration file. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	f := cfg.File()
	if _, err := toml.Decode(string(data), &f); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg = cfg.WithFile(f)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the serializable part of cfg to path, creating parent
// directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg.File()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// File returns the serializable part of c.
func (c Config) File() File {
	return File{Options: c.Options, NodeTypes: c.NodeTypes, Layout: c.Layout}
}

// WithFile returns c with its serializable part replaced by f.
func (c Config) WithFile(f File) Config {
	c.Options = f.Options
	c.NodeTypes = f.NodeTypes
	if c.NodeTypes == nil {
		c.NodeTypes = map[string]NodeType{}
	}
	c.Layout = f.Layout
	return c
}
