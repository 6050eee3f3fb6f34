package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/glossary/internal/client"
	"github.com/alfredjeanlab/glossary/internal/config"
	"github.com/alfredjeanlab/glossary/internal/events"
	"github.com/alfredjeanlab/glossary/internal/idgen"
	"github.com/alfredjeanlab/glossary/internal/metrics"
	"github.com/alfredjeanlab/glossary/internal/mutation"
	"github.com/alfredjeanlab/glossary/internal/store"
	termsync "github.com/alfredjeanlab/glossary/internal/sync"
	"github.com/alfredjeanlab/glossary/internal/view"
)

// application holds the components every command shares. Reads and writes
// from both the CLI and the web surface go through the same coordinator.
type application struct {
	cfg       *config.Config
	logger    *slog.Logger
	origin    string
	client    client.GlossaryClient
	store     *store.TermStore
	resyncer  *termsync.Resyncer
	pipeline  *mutation.Pipeline
	coord     *view.Coordinator
	metrics   *metrics.Collector
	publisher events.Publisher
}

func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	raw, err := dialService(cfg)
	if err != nil {
		return nil, err
	}
	gw := client.NewBreakerClient(raw, client.DefaultBreakerSettings(), logger)

	var publisher events.Publisher = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL, events.WithConnectionLogging(logger))
		if err != nil {
			gw.Close()
			return nil, err
		}
		publisher = pub
		logger.Debug("events enabled", "nats_url", cfg.NATSURL)
	}

	a := &application{
		cfg:       cfg,
		logger:    logger,
		origin:    idgen.Client(),
		client:    gw,
		metrics:   metrics.NewCollector("glossary"),
		publisher: publisher,
	}
	a.store = store.New(gw)

	opts := []termsync.ResyncerOption{termsync.WithMetrics(a.metrics)}
	if cfg.ServerGraph {
		opts = append(opts, termsync.WithServerGraph(gw))
	}
	a.resyncer = termsync.NewResyncer(a.store, logger, opts...)
	a.pipeline = mutation.New(gw, a.resyncer,
		mutation.WithPublisher(publisher, a.origin),
		mutation.WithMetrics(a.metrics),
		mutation.WithLogger(logger),
	)
	a.coord = view.New(a.resyncer, a.store, a.pipeline, logger)
	return a, nil
}

func dialService(cfg *config.Config) (client.GlossaryClient, error) {
	switch cfg.Transport {
	case config.TransportGRPC:
		return client.NewGRPCClient(cfg.GRPCAddr)
	case config.TransportHTTP:
		return client.NewHTTPClient(cfg.HTTPURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// load performs the initial resync every command starts from.
func (a *application) load(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.coord.Load(ctx); err != nil {
		return fmt.Errorf("loading terms: %w", err)
	}
	return nil
}

func (a *application) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

// destinations builds the configured export destinations.
func (a *application) destinations(ctx context.Context) ([]termsync.Destination, error) {
	var dests []termsync.Destination
	if a.cfg.ExportS3Bucket != "" {
		d, err := termsync.NewS3Destination(ctx, a.cfg.ExportS3Bucket, a.cfg.ExportS3Key, a.cfg.ExportS3Region, a.cfg.ExportS3Endpoint)
		if err != nil {
			return nil, err
		}
		dests = append(dests, d)
		a.logger.Info("export S3 destination enabled", "bucket", a.cfg.ExportS3Bucket, "key", a.cfg.ExportS3Key)
	}
	if a.cfg.ExportGitRepo != "" {
		dests = append(dests, termsync.NewGitDestination(a.cfg.ExportGitRepo, a.cfg.ExportGitFile, a.cfg.ExportGitBranch))
		a.logger.Info("export git destination enabled", "repo", a.cfg.ExportGitRepo, "file", a.cfg.ExportGitFile)
	}
	return dests, nil
}

// Close releases the service connection and the event publisher.
func (a *application) Close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("closing publisher", "err", err)
	}
	if err := a.client.Close(); err != nil {
		a.logger.Warn("closing client", "err", err)
	}
}
