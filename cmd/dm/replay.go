package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagrammaker"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/metrics"
)

func newReplayCmd(g *globals) *cobra.Command {
	var (
		output   string
		format   string
		pretty   bool
		showStat bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file> <script>",
		Short: "Apply a script of actions to a diagram",
		Long: `Apply a script of actions to a diagram and write the result.

The script is a YAML (or JSON) list of action envelopes:

  - type: NODE_CREATE
    payload: {id: n3, position: {x: 400, y: 100}, size: {width: 120, height: 60}}
  - type: EDGE_CREATE
    payload: {src: n1, dest: n3}
  - type: UNDO

Actions run through the same pipeline as interactive edits, so read-only
mode, id assignment and undo history behave as they do in the editor.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			s, err := readState(args[0])
			if err != nil {
				return err
			}
			script, err := readScript(args[1])
			if err != nil {
				return err
			}

			var opts []diagrammaker.Option
			reg := prometheus.NewRegistry()
			if showStat {
				hooks, err := metrics.New(reg)
				if err != nil {
					return err
				}
				opts = append(opts, diagrammaker.WithHooks(hooks))
			}

			d, err := mount(ctx, s, cfg, opts...)
			if err != nil {
				return err
			}
			defer d.Destroy()

			prog := newProgress(logger)
			for _, a := range script {
				logger.Debug("replay", "type", a.Type())
				d.API().Dispatch(a)
			}
			prog.done(fmt.Sprintf("Replayed %d actions", len(script)))

			if err := writeState(cmd.OutOrStdout(), output, d.State(), format, pretty); err != nil {
				return err
			}
			if showStat {
				return printStats(cmd.ErrOrStderr(), reg)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml (default from output path)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&showStat, "stats", false, "print per-action pipeline counters")
	return cmd
}

// readScript decodes a list of {type, payload} envelopes.
func readScript(path string) ([]action.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, err
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode script %s", path)
	}

	script := make([]action.Action, 0, len(raw))
	for i, m := range raw {
		a, err := action.FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("%s: action %d: %w", path, i+1, err)
		}
		script = append(script, a)
	}
	return script, nil
}

// printStats prints the committed and dropped counters by action type.
func printStats(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	counts := map[string][2]float64{}
	for _, mf := range families {
		var col int
		switch mf.GetName() {
		case "diagram_actions_committed_total":
			col = 0
		case "diagram_actions_dropped_total":
			col = 1
		default:
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "type" {
					continue
				}
				c := counts[lp.GetValue()]
				c[col] = m.GetCounter().GetValue()
				counts[lp.GetValue()] = c
			}
		}
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	rows := make([][]string, 0, len(types))
	for _, t := range types {
		c := counts[t]
		rows = append(rows, []string{t, fmt.Sprintf("%g", c[0]), fmt.Sprintf("%g", c[1])})
	}
	table(w, []string{"ACTION", "COMMITTED", "DROPPED"}, rows)
	return nil
}
