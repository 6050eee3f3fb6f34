// Package sync keeps the client's view of the glossary current: it runs the
// resync sequence, reacts to change notifications, and periodically
// refreshes and exports snapshots to external destinations.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/glossary/internal/store"
)

// Destination is the interface for an export target (S3, git, etc.).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Refresher reloads the client's view of the glossary.
type Refresher interface {
	Resync(ctx context.Context) (*Snapshot, error)
}

// Scheduler periodically refreshes the term store and exports the result
// to zero or more destinations.
type Scheduler struct {
	refresher    Refresher
	source       Source
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that resyncs through r and exports src
// to the given destinations at the specified interval.
func NewScheduler(r Refresher, src Source, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		refresher:    r,
		source:       src,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic refresh. It runs once immediately, then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current run (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.logRun(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logRun(ctx)
		}
	}
}

func (s *Scheduler) logRun(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("scheduled refresh failed", "err", err)
	}
}

// RunOnce refreshes and exports a single time. A refresh superseded by a
// newer one is not an error; the export then reflects whatever the store
// holds. Destination failures are joined so one bad target does not stop
// the others.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if s.refresher != nil {
		if _, err := s.refresher.Resync(ctx); err != nil && !errors.Is(err, store.ErrStale) {
			return fmt.Errorf("refresh: %w", err)
		}
	}
	if len(s.destinations) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.source, &buf); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	data := buf.Bytes()

	var errs []error
	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("export destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Info("export completed", "destinations", len(s.destinations), "bytes", len(data))
	return nil
}
