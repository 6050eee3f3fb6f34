package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alfredjeanlab/glossary/internal/graph"
	"github.com/alfredjeanlab/glossary/internal/metrics"
	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/store"
)

// Snapshot is one applied reload: the terms, their graph projection, and
// any disagreement with the service's own graph.
type Snapshot struct {
	Generation uint64
	Terms      []*model.Term
	Graph      *model.Graph
	Warnings   []model.GraphWarning
}

// GraphSource supplies the service's view of the graph for reconciliation.
type GraphSource interface {
	GetGraph(ctx context.Context) (*model.Graph, error)
}

// Resyncer runs the reload, project, publish sequence that follows every
// successful mutation and every external change notification.
type Resyncer struct {
	store   *store.TermStore
	graphs  GraphSource
	metrics *metrics.Collector
	logger  *slog.Logger

	mu      sync.Mutex // guards publication and subscribers
	current atomic.Pointer[Snapshot]
	subs    map[int]chan *Snapshot
	nextSub int
}

// ResyncerOption configures a Resyncer.
type ResyncerOption func(*Resyncer)

// WithServerGraph reconciles every projection against the graph reported
// by src. Mismatches become snapshot warnings.
func WithServerGraph(src GraphSource) ResyncerOption {
	return func(r *Resyncer) { r.graphs = src }
}

// WithMetrics records reload outcomes in c.
func WithMetrics(c *metrics.Collector) ResyncerOption {
	return func(r *Resyncer) { r.metrics = c }
}

// NewResyncer creates a Resyncer over s. A nil logger uses slog.Default().
func NewResyncer(s *store.TermStore, logger *slog.Logger, opts ...ResyncerOption) *Resyncer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resyncer{
		store:  s,
		logger: logger,
		subs:   make(map[int]chan *Snapshot),
	}
	for _, o := range opts {
		o(r)
	}
	r.current.Store(&Snapshot{Graph: graph.Project(nil)})
	return r
}

// Resync reloads the store and projects the result. When a newer reload
// was initiated in the meantime it returns store.ErrStale and publishes
// nothing; callers should drop that silently. Gateway failures leave the
// current snapshot in place.
func (r *Resyncer) Resync(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	terms, gen, err := r.store.Reload(ctx)
	if errors.Is(err, store.ErrStale) {
		r.metrics.ObserveResync(metrics.ResultStale, time.Since(start))
		r.logger.Debug("discarding superseded reload")
		return nil, err
	}
	if err != nil {
		r.metrics.ObserveResync(metrics.ResultError, time.Since(start))
		r.logger.Warn("reload failed", "err", err)
		return nil, err
	}

	snap := &Snapshot{
		Generation: gen,
		Terms:      terms,
		Graph:      graph.Project(terms),
	}
	if r.graphs != nil {
		server, err := r.graphs.GetGraph(ctx)
		if err != nil {
			r.logger.Warn("fetching service graph failed", "err", err, "generation", gen)
		} else {
			snap.Warnings = graph.Reconcile(snap.Graph, server)
			for _, w := range snap.Warnings {
				r.logger.Warn("graph mismatch", "kind", w.Kind, "generation", gen, "detail", w.Message)
			}
		}
	}

	if !r.publish(snap) {
		r.metrics.ObserveResync(metrics.ResultStale, time.Since(start))
		r.logger.Debug("discarding superseded projection", "generation", gen)
		return nil, store.ErrStale
	}
	r.metrics.ObserveResync(metrics.ResultApplied, time.Since(start))
	r.metrics.SetSnapshot(len(snap.Terms), len(snap.Graph.Nodes), len(snap.Graph.Edges), len(snap.Warnings))
	r.logger.Debug("resync applied", "generation", gen, "terms", len(terms))
	return snap, nil
}

// publish makes snap current unless a later generation got there first.
func (r *Resyncer) publish(snap *Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snap.Generation <= r.current.Load().Generation {
		return false
	}
	r.current.Store(snap)
	for _, ch := range r.subs {
		// Each subscriber holds at most the newest snapshot.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
	return true
}

// Current returns the last applied snapshot. Before the first reload it has
// generation zero and no terms.
func (r *Resyncer) Current() *Snapshot {
	return r.current.Load()
}

// Store returns the term store the resyncer reloads.
func (r *Resyncer) Store() *store.TermStore {
	return r.store
}

// Subscribe returns a channel that receives every applied snapshot. A slow
// receiver only sees the newest one. Call cancel to unsubscribe; it closes
// the channel.
func (r *Resyncer) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, 1)
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
