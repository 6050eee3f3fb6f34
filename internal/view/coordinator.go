// Package view coordinates what the user is looking at: the term list, a
// term's detail, an error panel, or the edit form. Every user intent goes
// through a Coordinator, which serializes focus changes and discards
// results that a newer intent has superseded.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/glossary/internal/graph"
	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/mutation"
	"github.com/alfredjeanlab/glossary/internal/store"
	termsync "github.com/alfredjeanlab/glossary/internal/sync"
)

var (
	// ErrInvalidTransition is returned for an intent that does not apply to
	// the current focus, such as Edit while nothing is selected.
	ErrInvalidTransition = errors.New("not available in the current view")

	// ErrBusy is returned by Save, Delete, Edit or Cancel while a submission
	// is in flight, including the fetch that follows a successful save.
	ErrBusy = errors.New("a submission is already in progress")

	// ErrNoSuchRow is returned by draft operations given an unknown row ID.
	ErrNoSuchRow = errors.New("no such row")
)

// RejectedError reports that the service declined a write.
type RejectedError struct {
	Op      mutation.Op
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

// Source supplies applied snapshots of the glossary.
type Source interface {
	Resync(ctx context.Context) (*termsync.Snapshot, error)
	Current() *termsync.Snapshot
	Subscribe() (<-chan *termsync.Snapshot, func())
}

// Fetcher performs single-term fetches for the detail view.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (*model.Term, error)
}

// Mutator submits writes. *mutation.Pipeline satisfies it.
type Mutator interface {
	Add(ctx context.Context, t *model.Term) (*mutation.Outcome, error)
	Update(ctx context.Context, t *model.Term) (*mutation.Outcome, error)
	Delete(ctx context.Context, name string) (*mutation.Outcome, error)
}

// Coordinator owns the focus. Gateway calls run without holding its lock;
// each one records the focus epoch it started under and applies its result
// only if no other transition happened meanwhile.
type Coordinator struct {
	src     Source
	fetcher Fetcher
	mutator Mutator
	newID   func(prefix string) string
	logger  *slog.Logger

	mu       sync.Mutex
	focus    Focus
	previous Focus // restored by Cancel
	notice   *Notice
	epoch    uint64 // bumped by every focus change
	saving   bool

	listenersMu sync.Mutex
	listeners   map[int]chan struct{}
	nextID      int
}

// New creates a coordinator in the Empty focus.
func New(src Source, f Fetcher, m Mutator, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		src:       src,
		fetcher:   f,
		mutator:   m,
		newID:     rowID,
		logger:    logger,
		focus:     Focus{Kind: FocusEmpty},
		listeners: make(map[int]chan struct{}),
	}
}

// Run re-renders whenever a snapshot is applied, including resyncs that
// other components trigger. It returns when ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	ch, cancel := c.src.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			c.mu.Lock()
			if c.focus.Kind == FocusEmpty && c.epoch == 0 {
				c.setFocus(Focus{Kind: FocusList})
			}
			c.mu.Unlock()
			c.notify()
		}
	}
}

// Load reloads every term. The first successful load moves Empty to the
// list view. A load superseded by a newer one is dropped silently.
func (c *Coordinator) Load(ctx context.Context) error {
	_, err := c.src.Resync(ctx)
	if errors.Is(err, store.ErrStale) {
		return nil
	}

	c.mu.Lock()
	if err != nil {
		c.notice = &Notice{Kind: NoticeError, Message: "Could not load terms: " + err.Error()}
	} else {
		if c.focus.Kind == FocusEmpty && c.epoch == 0 {
			c.setFocus(Focus{Kind: FocusList})
		}
		if c.notice != nil && c.notice.Kind == NoticeError {
			c.notice = nil
		}
	}
	c.mu.Unlock()
	c.notify()
	return err
}

// ShowList returns to the list view.
func (c *Coordinator) ShowList() error {
	c.mu.Lock()
	if c.focus.Kind == FocusEditing {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.setFocus(Focus{Kind: FocusList})
	c.notice = nil
	c.mu.Unlock()
	c.notify()
	return nil
}

// Select shows a term's detail, fetched from the service rather than the
// cache. If another transition happens before the fetch completes, its
// result is discarded. A failed fetch moves to the error panel and is also
// returned.
func (c *Coordinator) Select(ctx context.Context, name string) error {
	c.mu.Lock()
	if c.focus.Kind == FocusEditing {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	return c.show(ctx, name, epoch)
}

// show fetches name and moves to its detail (or error) view if epoch is
// still current.
func (c *Coordinator) show(ctx context.Context, name string, epoch uint64) error {
	t, err := c.fetcher.Fetch(ctx, name)

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded selection", "term", name)
		return nil
	}
	if err != nil {
		msg := err.Error()
		if errors.Is(err, model.ErrNotFound) {
			msg = fmt.Sprintf("Term %q was not found.", name)
		}
		c.setFocus(Focus{Kind: FocusError, Name: name, Error: msg})
	} else {
		c.setFocus(Focus{Kind: FocusDetail, Name: t.Name, Term: t})
	}
	c.mu.Unlock()
	c.notify()
	if err != nil {
		return fmt.Errorf("showing %q: %w", name, err)
	}
	return nil
}

// Edit opens the edit form for the term in the detail view. The form starts
// from copies of its links and relations.
func (c *Coordinator) Edit() error {
	c.mu.Lock()
	if c.focus.Kind != FocusDetail || c.focus.Term == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if c.saving {
		c.mu.Unlock()
		return ErrBusy
	}
	t := c.focus.Term
	d := &Draft{Original: t.Name, Name: t.Name, Text: t.Definition.Text}
	for _, l := range t.Definition.Links {
		d.Links = append(d.Links, DraftLink{ID: c.newID(linkPrefix), URL: l.URL, Title: l.Title})
	}
	for _, r := range t.Relations {
		d.Relations = append(d.Relations, DraftRelation{ID: c.newID(relationPrefix), ToTerm: r.ToTerm, RelationType: r.RelationType})
	}
	c.previous = c.focus
	c.setFocus(Focus{Kind: FocusEditing, Draft: d})
	c.notice = nil
	c.mu.Unlock()
	c.notify()
	return nil
}

// Add opens an empty edit form for a new term, from any view.
func (c *Coordinator) Add() {
	c.mu.Lock()
	if c.focus.Kind != FocusEditing {
		c.previous = c.focus
	}
	c.setFocus(Focus{Kind: FocusEditing, Draft: &Draft{}})
	c.notice = nil
	c.mu.Unlock()
	c.notify()
}

// Cancel closes the edit form and restores the view it was opened from.
// Nothing is sent to the service.
func (c *Coordinator) Cancel() error {
	c.mu.Lock()
	if c.focus.Kind != FocusEditing {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if c.saving {
		c.mu.Unlock()
		return ErrBusy
	}
	prev := c.previous
	if prev.Kind == "" {
		prev = Focus{Kind: FocusEmpty}
	}
	c.setFocus(prev)
	c.previous = Focus{}
	c.notice = nil
	c.mu.Unlock()
	c.notify()
	return nil
}

// Save submits the edit form. On success the glossary has already been
// reloaded by the pipeline and the saved term is shown. On a validation
// failure, a rejection or a transport error the form stays open with its
// contents unchanged and a notice explains what happened.
func (c *Coordinator) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.focus.Kind != FocusEditing {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if c.saving {
		c.mu.Unlock()
		return ErrBusy
	}
	draft := c.focus.Draft.clone()
	epoch := c.epoch
	c.saving = true
	c.mu.Unlock()
	c.notify()

	var (
		out *mutation.Outcome
		err error
	)
	if draft.IsNew() {
		out, err = c.mutator.Add(ctx, draft.term())
	} else {
		out, err = c.mutator.Update(ctx, draft.term())
	}

	c.mu.Lock()
	current := epoch == c.epoch
	if err == nil && !out.Rejected {
		c.epoch++
		next := c.epoch
		c.previous = Focus{}
		c.notice = nil
		if !current {
			c.saving = false
			c.mu.Unlock()
			c.notify()
			return nil
		}
		c.mu.Unlock()
		// The form stays busy until the saved term is shown. A failed
		// re-fetch shows the error panel but is not a failure of Save.
		_ = c.show(ctx, out.Name, next)
		c.mu.Lock()
		c.saving = false
		c.mu.Unlock()
		c.notify()
		return nil
	}

	c.saving = false
	err = c.failure(out, err)
	if current {
		c.notice = noticeFor(err)
	}
	c.mu.Unlock()
	c.notify()
	return err
}

// Delete removes the term in the detail view. On success the focus
// becomes Empty.
func (c *Coordinator) Delete(ctx context.Context) error {
	c.mu.Lock()
	if c.focus.Kind != FocusDetail {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if c.saving {
		c.mu.Unlock()
		return ErrBusy
	}
	name := c.focus.Name
	epoch := c.epoch
	c.saving = true
	c.mu.Unlock()

	out, err := c.mutator.Delete(ctx, name)

	c.mu.Lock()
	c.saving = false
	current := epoch == c.epoch
	if err == nil && !out.Rejected {
		if current {
			c.setFocus(Focus{Kind: FocusEmpty})
			c.notice = &Notice{Kind: NoticeInfo, Message: fmt.Sprintf("Deleted %q.", name)}
		}
		c.mu.Unlock()
		c.notify()
		return nil
	}
	err = c.failure(out, err)
	if current {
		c.notice = noticeFor(err)
	}
	c.mu.Unlock()
	c.notify()
	return err
}

// failure turns an unsuccessful pipeline result into the error reported
// to the caller.
func (c *Coordinator) failure(out *mutation.Outcome, err error) error {
	if err != nil {
		return err
	}
	return &RejectedError{Op: out.Op, Message: out.Message}
}

func noticeFor(err error) *Notice {
	var (
		ve       *model.ValidationError
		rejected *RejectedError
	)
	switch {
	case errors.As(err, &ve):
		return &Notice{Kind: NoticeValidation, Message: ve.Error(), Fields: ve.Errors}
	case errors.As(err, &rejected):
		return &Notice{Kind: NoticeRejected, Message: rejected.Message}
	default:
		return &Notice{Kind: NoticeError, Message: err.Error()}
	}
}

// setFocus replaces the focus and invalidates in-flight selections. The
// caller holds c.mu.
func (c *Coordinator) setFocus(f Focus) {
	c.focus = f
	c.epoch++
}

// State returns a copy of everything a renderer needs.
func (c *Coordinator) State() State {
	snap := c.src.Current()

	c.mu.Lock()
	s := State{
		Focus:  c.focus.clone(),
		Saving: c.saving,
	}
	if c.notice != nil {
		n := *c.notice
		s.Notice = &n
	}
	c.mu.Unlock()

	s.Generation = snap.Generation
	s.Graph = snap.Graph
	s.Warnings = snap.Warnings
	s.Terms = make([]string, 0, len(snap.Terms))
	for _, t := range snap.Terms {
		s.Terms = append(s.Terms, t.Name)
	}
	if s.Focus.Kind == FocusDetail {
		s.Incoming = graph.Incoming(snap.Graph, s.Focus.Name)
	}
	return s
}

// Changes returns a channel that is signaled after every state change.
// Signals coalesce; read State after each one. Call cancel to stop.
func (c *Coordinator) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.listenersMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = ch
	c.listenersMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.listenersMu.Lock()
			delete(c.listeners, id)
			c.listenersMu.Unlock()
			close(ch)
		})
	}
}

func (c *Coordinator) notify() {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	for _, ch := range c.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
