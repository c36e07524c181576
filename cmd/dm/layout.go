package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/layout"
)

type layoutOpts struct {
	algorithm   string
	direction   string
	distanceMin float64
	margin      float64
	fixed       []string
	noGraphviz  bool
	output      string
	format      string
	pretty      bool
}

func newLayoutCmd(g *globals) *cobra.Command {
	opts := &layoutOpts{}

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Arrange the nodes of a diagram",
		Long: `Arrange the nodes of a diagram with one of the layout algorithms.

Flags left unset fall back to the [layout] section of the configuration file.
The hierarchical layout uses Graphviz dot and falls back to a native layered
layout when dot is unavailable or --no-graphviz is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, g, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "WORKFLOW, HIERARCHICAL or FORCE")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "LEFT_RIGHT, RIGHT_LEFT, TOP_BOTTOM or BOTTOM_TOP")
	cmd.Flags().Float64Var(&opts.distanceMin, "distance", 0, "minimum gap between nodes")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "free space around the laid out nodes")
	cmd.Flags().StringSliceVar(&opts.fixed, "fixed", nil, "node ids seeding the first layer")
	cmd.Flags().BoolVar(&opts.noGraphviz, "no-graphviz", false, "never use Graphviz for hierarchical layouts")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: json or yaml (default from output path)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func runLayout(cmd *cobra.Command, g *globals, opts *layoutOpts, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	s, err := readState(path)
	if err != nil {
		return err
	}

	lo := cfg.Layout
	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		lo.Algorithm = layout.Algorithm(strings.ToUpper(opts.algorithm))
	}
	if flags.Changed("direction") {
		lo.Direction = layout.Direction(strings.ToUpper(opts.direction))
	}
	if flags.Changed("distance") {
		lo.DistanceMin = opts.distanceMin
	}
	if flags.Changed("margin") {
		lo.Margin = opts.margin
	}
	if flags.Changed("fixed") {
		lo.Fixed = opts.fixed
	}
	if opts.noGraphviz {
		lo.NoGraphviz = true
	}
	if lo.Algorithm == "" {
		lo.Algorithm = layout.Workflow
	}

	d, err := mount(ctx, s, cfg)
	if err != nil {
		return err
	}
	defer d.Destroy()

	prog := newProgress(logger)
	if err := d.API().Layout(ctx, lo); err != nil {
		return fmt.Errorf("layout %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Laid out %d nodes with %s", len(s.Nodes), lo.Algorithm))

	return writeState(cmd.OutOrStdout(), opts.output, d.State(), opts.format, opts.pretty)
}
