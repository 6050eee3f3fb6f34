package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/glossary/internal/events"
	termsync "github.com/alfredjeanlab/glossary/internal/sync"
	"github.com/alfredjeanlab/glossary/internal/web"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the glossary in a browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := app.cfg.WebAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		logger := app.logger
		if !verbose {
			// Serving is long-running; log lifecycle at info.
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go app.coord.Run(ctx)
		if err := app.load(ctx); err != nil {
			// The page shows the error banner; a later refresh may recover.
			logger.Warn("initial load failed", "err", err)
		}

		stopWatch, err := startWatcher(logger)
		if err != nil {
			return err
		}
		defer stopWatch()

		scheduler, err := startScheduler(ctx, logger)
		if err != nil {
			return err
		}
		if scheduler != nil {
			defer scheduler.Stop()
		}

		httpServer := &http.Server{
			Addr:              addr,
			Handler:           web.New(app.coord, app.store, app.metrics, logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		serveErr := make(chan error, 1)
		go func() {
			logger.Info("web server listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case err := <-serveErr:
			return err
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("web server shutdown error", "err", err)
		}
		logger.Info("web server stopped")
		return nil
	},
}

// startWatcher resyncs on change notifications from other clients when
// NATS is configured. The returned function stops it.
func startWatcher(logger *slog.Logger) (func(), error) {
	if app.cfg.NATSURL == "" {
		logger.Info("change notifications disabled (GLOSSARY_NATS_URL not set)")
		return func() {}, nil
	}
	sub, err := events.NewNATSSubscriber(app.cfg.NATSURL, events.WithConnectionLogging(logger))
	if err != nil {
		return nil, err
	}
	w := termsync.NewWatcher(sub, app.resyncer, app.origin, logger)
	if err := w.Start(); err != nil {
		sub.Close()
		return nil, err
	}
	logger.Info("watching for changes", "nats_url", app.cfg.NATSURL)
	return func() {
		w.Stop()
		sub.Close()
	}, nil
}

// startScheduler starts periodic refresh and export when
// GLOSSARY_REFRESH_INTERVAL is set. It returns nil when disabled.
func startScheduler(ctx context.Context, logger *slog.Logger) (*termsync.Scheduler, error) {
	if app.cfg.RefreshInterval <= 0 {
		return nil, nil
	}
	dests, err := app.destinations(ctx)
	if err != nil {
		return nil, err
	}
	s := termsync.NewScheduler(app.resyncer, app.store, dests, app.cfg.RefreshInterval, logger)
	s.Start()
	logger.Info("refresh scheduler started", "interval", app.cfg.RefreshInterval, "destinations", len(dests))
	return s, nil
}

func init() {
	webCmd.Flags().String("addr", "", "listen address (default $GLOSSARY_WEB_ADDR or :8090)")
}
