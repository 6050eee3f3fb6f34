// Package mutation submits term additions, updates and deletions to the
// glossary service and resynchronizes the client after every success.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alfredjeanlab/glossary/internal/events"
	"github.com/alfredjeanlab/glossary/internal/metrics"
	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/store"
	termsync "github.com/alfredjeanlab/glossary/internal/sync"
)

// ErrValidation wraps a *model.ValidationError for submissions refused
// before reaching the gateway.
var ErrValidation = errors.New("invalid submission")

// Op names a mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Gateway is the write side of the glossary service.
type Gateway interface {
	AddTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error)
	UpdateTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error)
	DeleteTerm(ctx context.Context, name string) (*model.WriteResult, error)
}

// Outcome describes a mutation the gateway answered.
type Outcome struct {
	Op   Op
	Name string

	// Rejected is set when the service declined the write. Message is then
	// the service's explanation, verbatim. Nothing was resynced.
	Rejected bool
	Message  string

	// Dropped counts incomplete rows removed before submission.
	Dropped model.Dropped

	// Snapshot is the resync result after a successful write. It is nil
	// when that resync was superseded by a newer one or failed; ResyncErr
	// holds the failure.
	Snapshot  *termsync.Snapshot
	ResyncErr error
}

// Pipeline validates, submits and follows up on term mutations.
type Pipeline struct {
	gw      Gateway
	resync  termsync.Refresher
	pub     events.Publisher
	origin  string
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher announces every successful mutation on pub, tagged with
// origin so this client's watcher can skip the echo.
func WithPublisher(pub events.Publisher, origin string) Option {
	return func(p *Pipeline) {
		p.pub = pub
		p.origin = origin
	}
}

// WithMetrics records mutation results in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pipeline) { p.metrics = c }
}

// WithLogger sets the pipeline's logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline writing through gw and resyncing through r.
func New(gw Gateway, r termsync.Refresher, opts ...Option) *Pipeline {
	p := &Pipeline{
		gw:     gw,
		resync: r,
		pub:    &events.NoopPublisher{},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Add submits a new term.
func (p *Pipeline) Add(ctx context.Context, t *model.Term) (*Outcome, error) {
	return p.write(ctx, OpAdd, t, p.gw.AddTerm)
}

// Update submits a replacement for an existing term. The whole term is
// replaced; there are no partial updates.
func (p *Pipeline) Update(ctx context.Context, t *model.Term) (*Outcome, error) {
	return p.write(ctx, OpUpdate, t, p.gw.UpdateTerm)
}

// Delete removes a term by name.
func (p *Pipeline) Delete(ctx context.Context, name string) (*Outcome, error) {
	if strings.TrimSpace(name) == "" {
		p.metrics.ObserveMutation(string(OpDelete), metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %w", ErrValidation, &model.ValidationError{
			Errors: []model.FieldError{{Field: "name", Message: "is required"}},
		})
	}
	res, err := p.gw.DeleteTerm(ctx, name)
	return p.finish(ctx, &Outcome{Op: OpDelete, Name: name}, res, err)
}

func (p *Pipeline) write(ctx context.Context, op Op, t *model.Term, send func(context.Context, *model.Term) (*model.WriteResult, error)) (*Outcome, error) {
	clean, dropped := model.SanitizeTerm(t)
	if err := model.ValidateTerm(clean); err != nil {
		p.metrics.ObserveMutation(string(op), metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if dropped.Links > 0 || dropped.Relations > 0 {
		p.logger.Debug("dropped incomplete rows", "op", op, "term", clean.Name,
			"links", dropped.Links, "relations", dropped.Relations)
	}
	res, err := send(ctx, clean)
	return p.finish(ctx, &Outcome{Op: op, Name: clean.Name, Dropped: dropped}, res, err)
}

// finish interprets the gateway's answer. Only a confirmed success leads to
// a resync; transport failures are never assumed to have succeeded.
func (p *Pipeline) finish(ctx context.Context, out *Outcome, res *model.WriteResult, err error) (*Outcome, error) {
	if err != nil {
		p.metrics.ObserveMutation(string(out.Op), metrics.ResultError)
		p.logger.Warn("mutation failed", "op", out.Op, "term", out.Name, "err", err)
		return nil, fmt.Errorf("%s term %q: %w", out.Op, out.Name, err)
	}
	if res == nil || !res.Success {
		out.Rejected = true
		if res != nil {
			out.Message = res.Message
		}
		p.metrics.ObserveMutation(string(out.Op), metrics.ResultRejected)
		p.logger.Info("mutation rejected", "op", out.Op, "term", out.Name, "message", out.Message)
		return out, nil
	}

	out.Message = res.Message
	p.metrics.ObserveMutation(string(out.Op), metrics.ResultSuccess)
	p.announce(ctx, out)

	snap, err := p.resync.Resync(ctx)
	switch {
	case errors.Is(err, store.ErrStale):
	case err != nil:
		out.ResyncErr = err
		p.logger.Warn("resync after mutation failed", "op", out.Op, "term", out.Name, "err", err)
	default:
		out.Snapshot = snap
	}
	return out, nil
}

func (p *Pipeline) announce(ctx context.Context, out *Outcome) {
	topic := map[Op]string{
		OpAdd:    events.TopicTermAdded,
		OpUpdate: events.TopicTermUpdated,
		OpDelete: events.TopicTermDeleted,
	}[out.Op]
	ev := events.TermChanged{Name: out.Name, Origin: p.origin}
	if err := p.pub.Publish(ctx, topic, ev); err != nil {
		p.logger.Warn("publishing term event failed", "op", out.Op, "term", out.Name, "err", err)
	}
}
