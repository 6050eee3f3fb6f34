package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/spf13/cobra"

	termsync "github.com/alfredjeanlab/glossary/internal/sync"
	"github.com/alfredjeanlab/glossary/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print glossary changes as they happen",
	Long: `Print terms as they are added or removed. With GLOSSARY_NATS_URL set
the glossary is reloaded on change notifications; otherwise it is polled
every --interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		snaps, cancel := app.resyncer.Subscribe()
		defer cancel()

		if err := app.load(ctx); err != nil {
			return err
		}
		prev := app.resyncer.Current()
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMuted(fmt.Sprintf("watching %d terms", len(prev.Terms))))

		if app.cfg.NATSURL != "" {
			stopWatch, err := startWatcher(app.logger)
			if err != nil {
				return err
			}
			defer stopWatch()
		} else {
			go poll(ctx, interval)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case snap, ok := <-snaps:
				if !ok {
					return nil
				}
				if snap.Generation <= prev.Generation {
					continue
				}
				printChanges(cmd.OutOrStdout(), prev, snap)
				prev = snap
			}
		}
	},
}

func poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rctx, cancel := app.withTimeout(ctx)
			if _, err := app.resyncer.Resync(rctx); err != nil {
				app.logger.Debug("poll resync failed", "err", err)
			}
			cancel()
		}
	}
}

// printChanges prints terms that appeared or disappeared between two snapshots.
func printChanges(w io.Writer, prev, next *termsync.Snapshot) {
	before := termNames(prev)
	after := termNames(next)
	stamp := ui.RenderMuted(time.Now().Format("15:04:05"))
	for _, n := range after {
		if _, found := slices.BinarySearch(before, n); !found {
			fmt.Fprintf(w, "%s + %s\n", stamp, ui.RenderTerm(n))
		}
	}
	for _, n := range before {
		if _, found := slices.BinarySearch(after, n); !found {
			fmt.Fprintf(w, "%s - %s\n", stamp, n)
		}
	}
	printWarnings(w, next.Warnings)
}

func termNames(s *termsync.Snapshot) []string {
	names := make([]string, 0, len(s.Terms))
	for _, t := range s.Terms {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	return names
}

func init() {
	watchCmd.Flags().Duration("interval", 30*time.Second, "poll interval when NATS is not configured")
}
