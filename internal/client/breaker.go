package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned without contacting the service while the
// circuit breaker is open.
var ErrUnavailable = errors.New("glossary service unavailable")

// BreakerSettings configures BreakerClient.
type BreakerSettings struct {
	Name             string
	MaxRequests      uint32        // requests allowed through while half-open
	Interval         time.Duration // closed-state window after which counts reset
	Timeout          time.Duration // open-state duration before probing again
	FailureThreshold float64       // failure ratio that trips the breaker
	MinRequests      uint32        // requests required before the ratio is considered
}

// DefaultBreakerSettings returns settings suited to an interactive client:
// trip quickly so the UI shows an error panel instead of hanging on retries.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "glossary",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// BreakerClient wraps a GlossaryClient with a circuit breaker. Only transport
// failures count against the breaker: not-found reads, business rejections
// and caller cancellations are successes from the breaker's point of view.
type BreakerClient struct {
	next GlossaryClient
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps next. A nil logger uses slog.Default().
func NewBreakerClient(next GlossaryClient, s BreakerSettings, logger *slog.Logger) *BreakerClient {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, model.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})
	return &BreakerClient{next: next, cb: cb}
}

// State reports the breaker state ("closed", "half-open" or "open").
func (c *BreakerClient) State() string {
	return c.cb.State().String()
}

func (c *BreakerClient) Close() error { return c.next.Close() }

func (c *BreakerClient) GetAllTerms(ctx context.Context) ([]*model.Term, error) {
	return run(c, func() ([]*model.Term, error) { return c.next.GetAllTerms(ctx) })
}

func (c *BreakerClient) GetGraph(ctx context.Context) (*model.Graph, error) {
	return run(c, func() (*model.Graph, error) { return c.next.GetGraph(ctx) })
}

func (c *BreakerClient) GetTermByName(ctx context.Context, name string) (*model.Term, error) {
	return run(c, func() (*model.Term, error) { return c.next.GetTermByName(ctx, name) })
}

func (c *BreakerClient) AddTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error) {
	return run(c, func() (*model.WriteResult, error) { return c.next.AddTerm(ctx, term) })
}

func (c *BreakerClient) UpdateTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error) {
	return run(c, func() (*model.WriteResult, error) { return c.next.UpdateTerm(ctx, term) })
}

func (c *BreakerClient) DeleteTerm(ctx context.Context, name string) (*model.WriteResult, error) {
	return run(c, func() (*model.WriteResult, error) { return c.next.DeleteTerm(ctx, name) })
}

func run[T any](c *BreakerClient, fn func() (T, error)) (T, error) {
	var zero T
	out, err := c.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}
