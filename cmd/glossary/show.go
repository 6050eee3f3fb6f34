package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/glossary/internal/view"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a term with its links and relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		ctx := cmd.Context()
		if err := app.load(ctx); err != nil {
			return err
		}

		ctx, cancel := app.withTimeout(ctx)
		defer cancel()
		if err := app.coord.Select(ctx, args[0]); err != nil {
			return err
		}
		st := app.coord.State()
		if st.Focus.Kind != view.FocusDetail {
			return fmt.Errorf("term %q could not be shown", args[0])
		}
		t := newTermOutput(st.Focus.Term, st.Incoming)

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			return printJSON(out, t)
		case "yaml":
			return printYAML(out, t)
		case "text":
			printTermText(out, t)
			return nil
		default:
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		}
	},
}

func init() {
	showCmd.Flags().String("format", "text", "output format (text, json, yaml)")
}
