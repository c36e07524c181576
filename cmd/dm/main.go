// Command dm is a CLI tool for working with diagram files.
package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// flags shared by every command.
type globals struct {
	verbose    bool
	configPath string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:          "dm",
		Short:        "dm inspects, lays out, renders and replays diagrams",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if g.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
		Example: `  dm info diagram.json
  dm layout diagram.json -a HIERARCHICAL -o laid-out.json
  dm render diagram.yaml -o diagram.png
  dm replay diagram.json script.yaml -o after.json`,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultPath(), "editor configuration file (TOML)")

	root.AddCommand(newInfoCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newLayoutCmd(g))
	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newReplayCmd(g))
	return root
}
