package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/glossary/internal/ui"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.load(ctx); err != nil {
			return err
		}
		app.coord.Add()
		if err := app.coord.SetDraftName(args[0]); err != nil {
			return err
		}
		if err := fillDraft(cmd, true); err != nil {
			return err
		}
		return save(ctx, cmd, "added")
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a term's definition, links or relations",
	Long: `Update a term. Only the given fields change; passing --link or --rel
replaces all existing links or relations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := selectTerm(ctx, args[0]); err != nil {
			return err
		}
		if err := app.coord.Edit(); err != nil {
			return err
		}
		if err := fillDraft(cmd, false); err != nil {
			return err
		}
		return save(ctx, cmd, "updated")
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := selectTerm(ctx, args[0]); err != nil {
			return err
		}
		ctx, cancel := app.withTimeout(ctx)
		defer cancel()
		if err := app.coord.Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", ui.RenderTerm(args[0]))
		return nil
	},
}

func selectTerm(ctx context.Context, name string) error {
	if err := app.load(ctx); err != nil {
		return err
	}
	ctx, cancel := app.withTimeout(ctx)
	defer cancel()
	return app.coord.Select(ctx, name)
}

// fillDraft copies --text, --link and --rel into the open draft. For an
// existing term, rows are only replaced when their flag is given.
func fillDraft(cmd *cobra.Command, isNew bool) error {
	flags := cmd.Flags()
	if isNew || flags.Changed("text") {
		text, _ := flags.GetString("text")
		if err := app.coord.SetDraftText(text); err != nil {
			return err
		}
	}

	if isNew || flags.Changed("link") {
		links, _ := flags.GetStringArray("link")
		d := app.coord.State().Focus.Draft
		for _, l := range d.Links {
			if err := app.coord.RemoveDraftLink(l.ID); err != nil {
				return err
			}
		}
		for _, l := range links {
			url, title, ok := splitPair(l, true)
			if !ok {
				return fmt.Errorf("--link %q: want url=title", l)
			}
			if _, err := app.coord.AddDraftLink(url, title); err != nil {
				return err
			}
		}
	}

	if isNew || flags.Changed("rel") {
		rels, _ := flags.GetStringArray("rel")
		d := app.coord.State().Focus.Draft
		for _, r := range d.Relations {
			if err := app.coord.RemoveDraftRelation(r.ID); err != nil {
				return err
			}
		}
		for _, r := range rels {
			typ, target, ok := splitPair(r, false)
			if !ok {
				return fmt.Errorf("--rel %q: want type=target", r)
			}
			if _, err := app.coord.AddDraftRelation(target, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

func save(ctx context.Context, cmd *cobra.Command, verb string) error {
	ctx, cancel := app.withTimeout(ctx)
	defer cancel()
	if err := app.coord.Save(ctx); err != nil {
		return err
	}
	st := app.coord.State()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, ui.RenderTerm(st.Focus.Name))
	printWarnings(cmd.ErrOrStderr(), st.Warnings)
	return nil
}

func addWriteFlags(cmd *cobra.Command) {
	cmd.Flags().String("text", "", "definition text")
	cmd.Flags().StringArray("link", nil, "link as url=title (repeatable)")
	cmd.Flags().StringArray("rel", nil, "relation as type=target (repeatable)")
}

func init() {
	addWriteFlags(addCmd)
	addWriteFlags(updateCmd)
}
