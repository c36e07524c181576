package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

var (
	colorLabel  = color.New(color.FgHiBlack)
	colorGood   = color.New(color.FgGreen)
	colorBad    = color.New(color.FgRed)
	colorHeader = color.New(color.FgCyan, color.Bold)
)

func newInfoCmd() *cobra.Command {
	var listNodes bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show diagram information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readState(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printInfo(w, args[0], s)
			if listNodes {
				fmt.Fprintln(w)
				printNodes(w, s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&listNodes, "nodes", false, "list every node")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a diagram file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			s, err := readState(args[0])
			if err != nil {
				fmt.Fprintf(w, "%s %s: %v\n", colorBad.Sprint("✗"), args[0], err)
				return err
			}
			fmt.Fprintf(w, "%s %s: valid diagram with %d nodes, %d edges\n",
				colorGood.Sprint("✓"), args[0], len(s.Nodes), len(s.Edges))
			return nil
		},
	}
}

func printInfo(w io.Writer, path string, s diagram.State) {
	active := len(s.ActiveEdges())
	row := func(label, format string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", colorLabel.Sprintf("%-12s", label+":"), fmt.Sprintf(format, args...))
	}

	row("File", "%s", path)
	row("Nodes", "%d", len(s.Nodes))
	if dangling := len(s.Edges) - active; dangling > 0 {
		row("Edges", "%d (%d dangling)", len(s.Edges), dangling)
	} else {
		row("Edges", "%d", len(s.Edges))
	}
	row("Panels", "%d", len(s.Panels))
	if len(s.Plugins) > 0 {
		row("Plugins", "%d", len(s.Plugins))
	}
	row("Mode", "%s", s.Editor.Mode)
	row("Scale", "%.2f", s.Workspace.Scale)
	row("Canvas", "%g x %g", s.Workspace.CanvasSize.Width, s.Workspace.CanvasSize.Height)
	if box, ok := s.NodesBounds(s.NodeIDs()); ok {
		row("Bounds", "%g,%g %g x %g", box.X, box.Y, box.W, box.H)
	}
}

func printNodes(w io.Writer, s diagram.State) {
	var rows [][]string
	for _, id := range s.NodeIDs() {
		n := s.Nodes[id]
		in, out := 0, 0
		for _, e := range s.IncidentEdges(id) {
			if e.Dest == id {
				in++
			}
			if e.Src == id {
				out++
			}
		}
		rows = append(rows, []string{
			n.ID,
			n.TypeID,
			fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
			fmt.Sprintf("%gx%g", n.Size.Width, n.Size.Height),
			fmt.Sprintf("%d/%d", in, out),
		})
	}
	table(w, []string{"ID", "TYPE", "POSITION", "SIZE", "IN/OUT"}, rows)
}

// table prints an aligned table with a dimmed header.
func table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header, sep strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	colorHeader.Fprintln(w, strings.TrimRight(header.String(), " "))
	colorLabel.Fprintln(w, strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&line, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}
