package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/glossary/internal/events"
	"github.com/alfredjeanlab/glossary/internal/store"
)

// Watcher resyncs whenever another client reports a term change.
type Watcher struct {
	sub       events.Subscriber
	refresher Refresher
	origin    string
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher. Events tagged with origin (this client's
// own id) are ignored, since the mutation that produced them already
// resynced.
func NewWatcher(sub events.Subscriber, r Refresher, origin string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{sub: sub, refresher: r, origin: origin, logger: logger}
}

// Start subscribes to term events and begins handling them.
func (w *Watcher) Start() error {
	ch, unsubscribe, err := w.sub.Subscribe(events.TopicTermAll)
	if err != nil {
		return fmt.Errorf("watching term events: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = func() {
		cancel()
		unsubscribe()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx, ch)
	}()
	return nil
}

// Stop unsubscribes and waits for an in-flight resync to finish.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context, ch <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			if !w.relevant(data) {
				continue
			}
			// A burst of events needs only one reload.
			w.drain(ch)
			w.resync(ctx)
		}
	}
}

func (w *Watcher) relevant(data []byte) bool {
	ev, err := events.DecodeTermChanged(data)
	if err != nil {
		w.logger.Warn("ignoring malformed term event", "err", err)
		return false
	}
	if w.origin != "" && ev.Origin == w.origin {
		return false
	}
	w.logger.Debug("term changed elsewhere", "term", ev.Name)
	return true
}

func (w *Watcher) drain(ch <-chan []byte) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (w *Watcher) resync(ctx context.Context) {
	_, err := w.refresher.Resync(ctx)
	if err != nil && !errors.Is(err, store.ErrStale) && ctx.Err() == nil {
		w.logger.Warn("resync after term event failed", "err", err)
	}
}
