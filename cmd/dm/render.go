package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/snapshot"
)

func newRenderCmd(g *globals) *cobra.Command {
	var (
		output   string
		noLabels bool
	)
	opts := snapshot.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a diagram to PNG or SVG",
		Long: `Render a diagram to an image. The format follows the output
extension: .svg writes an SVG document, anything else a PNG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			s, err := readState(args[0])
			if err != nil {
				return err
			}

			opts.Labels = !noLabels
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			prog := newProgress(logger)
			render := snapshot.Render
			if strings.EqualFold(filepath.Ext(output), ".svg") {
				render = snapshot.RenderSVG
			}
			if err := render(f, s, cfg, opts); err != nil {
				return err
			}
			w, h := snapshot.Size(s, opts)
			prog.done(fmt.Sprintf("Rendered %s (%dx%d)", output, w, h))
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.png or .svg)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "pixels per workspace unit")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "space around the nodes")
	cmd.Flags().IntVar(&opts.MaxSize, "max-size", opts.MaxSize, "longest side of the image in pixels")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit node labels")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
