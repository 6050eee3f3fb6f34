package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/glossary/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List glossary terms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := app.load(cmd.Context()); err != nil {
			return err
		}
		names := app.coord.State().Terms

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			return printJSON(out, names)
		case "text":
			for _, n := range names {
				fmt.Fprintln(out, ui.RenderTerm(n))
			}
			fmt.Fprintln(out, ui.RenderMuted(fmt.Sprintf("\n%d terms", len(names))))
			return nil
		default:
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}
	},
}

func init() {
	listCmd.Flags().String("format", "text", "output format (text, json)")
}
