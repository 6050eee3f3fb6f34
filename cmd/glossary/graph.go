package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/glossary/internal/graph"
	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/ui"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the term relation graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if err := app.load(cmd.Context()); err != nil {
			return err
		}
		st := app.coord.State()

		out := cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		switch format {
		case "text":
			printGraphTree(out, st.Graph)
			printWarnings(cmd.ErrOrStderr(), st.Warnings)
			return nil
		case "json":
			warnings := st.Warnings
			if warnings == nil {
				warnings = []model.GraphWarning{}
			}
			return printJSON(out, struct {
				*model.Graph
				Warnings []model.GraphWarning `json:"warnings"`
			}{st.Graph, warnings})
		case "dot":
			return graph.Render(st.Graph, graph.FormatDOT, out)
		case "svg":
			return graph.Render(st.Graph, graph.FormatSVG, out)
		default:
			return fmt.Errorf("unknown format %q (want text, json, dot or svg)", format)
		}
	},
}

// printGraphTree prints each node followed by its outgoing edges.
func printGraphTree(w io.Writer, g *model.Graph) {
	out := make(map[string][]model.GraphEdge, len(g.Nodes))
	for _, e := range g.Edges {
		out[e.From] = append(out[e.From], e)
	}
	for _, n := range g.Nodes {
		label := ui.RenderTerm(n)
		if slices.Contains(g.Synthesized, n) {
			label = n + " " + ui.RenderMuted("(not defined)")
		}
		fmt.Fprintln(w, label)

		edges := out[n]
		for i, e := range edges {
			connector := "├── "
			if i == len(edges)-1 {
				connector = "└── "
			}
			fmt.Fprintf(w, "%s%s %s\n", connector, ui.RenderAccent(e.Type), e.To)
		}
	}
	fmt.Fprintln(w, ui.RenderMuted(fmt.Sprintf("\n%d nodes, %d edges", len(g.Nodes), len(g.Edges))))
}

func printWarnings(w io.Writer, warnings []model.GraphWarning) {
	for _, warn := range warnings {
		fmt.Fprintln(w, ui.RenderWarn("warning: "+warn.Message))
	}
}

func init() {
	graphCmd.Flags().String("format", "text", "output format (text, json, dot, svg)")
	graphCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}
