// Package store holds the client-side cache of glossary terms.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// ErrStale is returned by Reload when a newer reload was initiated before this
// one completed. The result has been discarded; callers should drop it silently.
var ErrStale = errors.New("superseded by a newer reload")

// Loader is the subset of the gateway the store reads from.
type Loader interface {
	GetAllTerms(ctx context.Context) ([]*model.Term, error)
	GetTermByName(ctx context.Context, name string) (*model.Term, error)
}

// snapshot is an immutable view of the cache. It is never modified after
// being published; every change builds a new snapshot.
type snapshot struct {
	generation uint64
	terms      []*model.Term
	byName     map[string]*model.Term
}

func newSnapshot(generation uint64, terms []*model.Term) *snapshot {
	s := &snapshot{
		generation: generation,
		terms:      make([]*model.Term, 0, len(terms)),
		byName:     make(map[string]*model.Term, len(terms)),
	}
	for _, t := range terms {
		if t == nil {
			continue
		}
		if _, dup := s.byName[t.Name]; dup {
			continue
		}
		c := t.Clone()
		s.terms = append(s.terms, c)
		s.byName[c.Name] = c
	}
	return s
}

// with returns a copy of s where name is replaced by t (appended when new),
// or removed when t is nil.
func (s *snapshot) with(name string, t *model.Term) *snapshot {
	out := &snapshot{
		generation: s.generation,
		terms:      make([]*model.Term, 0, len(s.terms)+1),
		byName:     make(map[string]*model.Term, len(s.byName)+1),
	}
	replaced := false
	for _, cur := range s.terms {
		if cur.Name == name {
			replaced = true
			if t == nil {
				continue
			}
			cur = t
		}
		out.terms = append(out.terms, cur)
		out.byName[cur.Name] = cur
	}
	if !replaced && t != nil {
		out.terms = append(out.terms, t)
		out.byName[t.Name] = t
	}
	return out
}

// TermStore caches every term keyed by name. The cache is replaced wholesale
// by Reload; single-term fetches replace one entry by publishing a new
// snapshot. Readers never observe a half-replaced cache.
type TermStore struct {
	loader Loader

	mu        sync.Mutex // serializes initiation and publication
	initiated uint64
	current   atomic.Pointer[snapshot]
}

// New creates an empty store reading from loader.
func New(loader Loader) *TermStore {
	s := &TermStore{loader: loader}
	s.current.Store(newSnapshot(0, nil))
	return s
}

// Reload fetches all terms and replaces the cache. Only the most recently
// initiated reload may publish: an older reload that completes later (or
// earlier, while a newer one is still in flight) returns ErrStale and leaves
// the cache untouched. A gateway failure also leaves the cache untouched.
// It returns the generation that was published along with the terms.
func (s *TermStore) Reload(ctx context.Context) ([]*model.Term, uint64, error) {
	s.mu.Lock()
	s.initiated++
	gen := s.initiated
	s.mu.Unlock()

	terms, err := s.loader.GetAllTerms(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.initiated {
		return nil, 0, ErrStale
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reloading terms: %w", err)
	}
	snap := newSnapshot(gen, terms)
	s.current.Store(snap)
	return cloneAll(snap.terms), gen, nil
}

// Fetch asks the gateway for a single term, bypassing the cache. On success
// the cached entry is replaced; on not-found it is evicted. Neither happens
// when a reload was initiated after the fetch began, since that reload's
// result supersedes this one. The fetched term is returned either way.
func (s *TermStore) Fetch(ctx context.Context, name string) (*model.Term, error) {
	s.mu.Lock()
	gen := s.initiated
	s.mu.Unlock()

	term, err := s.loader.GetTermByName(ctx, name)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("fetching term %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.initiated {
		var entry *model.Term
		if err == nil {
			entry = term.Clone()
		}
		s.current.Store(s.current.Load().with(name, entry))
	}
	if err != nil {
		return nil, fmt.Errorf("fetching term %q: %w", name, err)
	}
	return term.Clone(), nil
}

// Get returns a copy of the cached term. ok is false when the cache has no
// entry; that means "not found" only right after a successful Reload.
func (s *TermStore) Get(name string) (term *model.Term, ok bool) {
	t, ok := s.current.Load().byName[name]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Terms returns copies of all cached terms in arrival order.
func (s *TermStore) Terms() []*model.Term {
	return cloneAll(s.current.Load().terms)
}

// Names returns the cached term names in arrival order.
func (s *TermStore) Names() []string {
	snap := s.current.Load()
	names := make([]string, len(snap.terms))
	for i, t := range snap.terms {
		names[i] = t.Name
	}
	return names
}

// Generation returns the generation of the reload that produced the current
// cache, or 0 before the first successful reload.
func (s *TermStore) Generation() uint64 {
	return s.current.Load().generation
}

// Latest returns the generation of the most recently initiated reload.
func (s *TermStore) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initiated
}

func cloneAll(terms []*model.Term) []*model.Term {
	out := make([]*model.Term, len(terms))
	for i, t := range terms {
		out[i] = t.Clone()
	}
	return out
}
