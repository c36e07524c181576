package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/diagrammaker"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// defaultViewport is the view size assumed for files that never recorded
// one.
var defaultViewport = geom.Size{Width: 1280, Height: 800}

// viewport is a fixed-size container for running the editor headless.
type viewport geom.Size

func (v viewport) Size() geom.Size { return geom.Size(v) }

func readState(path string) (diagram.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return diagram.State{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return diagram.State{}, err
	}
	return diagram.Decode(data, diagram.FormatFromPath(path))
}

// writeState writes s to path, or to w when path is empty. format
// overrides the format implied by the path.
func writeState(w io.Writer, path string, s diagram.State, format string, pretty bool) error {
	f := diagram.Format(format)
	if f == "" {
		f = diagram.FormatFromPath(path)
	}
	data, err := diagram.Encode(s, f, pretty)
	if err != nil {
		return err
	}
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// mount runs a diagram headless in a viewport of the size the file was
// last viewed at.
func mount(ctx context.Context, s diagram.State, cfg config.Config, opts ...diagrammaker.Option) (*diagrammaker.DiagramMaker, error) {
	size := s.Workspace.ViewContainerSize
	if size.Width <= 0 || size.Height <= 0 {
		size = defaultViewport
	}
	opts = append([]diagrammaker.Option{
		diagrammaker.WithInitialData(s),
		diagrammaker.WithLogger(loggerFromContext(ctx)),
	}, opts...)
	return diagrammaker.New(viewport(size), cfg, opts...)
}
