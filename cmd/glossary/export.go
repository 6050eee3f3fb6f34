package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	termsync "github.com/alfredjeanlab/glossary/internal/sync"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all terms as JSONL",
	Long: `Export all terms as JSONL: a header record followed by one term record
per term, sorted by name. With --destinations the export is written to the
configured S3 and git destinations instead of stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		toDests, _ := cmd.Flags().GetBool("destinations")
		output, _ := cmd.Flags().GetString("output")
		ctx := cmd.Context()

		if toDests {
			if !app.cfg.ExportEnabled() {
				return fmt.Errorf("no export destinations configured (set GLOSSARY_EXPORT_S3_BUCKET or GLOSSARY_EXPORT_GIT_REPO)")
			}
			dests, err := app.destinations(ctx)
			if err != nil {
				return err
			}
			s := termsync.NewScheduler(app.resyncer, app.store, dests, 0, app.logger)
			if err := s.RunOnce(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d terms to %d destinations\n", len(app.store.Terms()), len(dests))
			return nil
		}

		if err := app.load(ctx); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return termsync.ExportJSONL(ctx, app.store, out)
	},
}

func init() {
	exportCmd.Flags().Bool("destinations", false, "write to the configured export destinations")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}
