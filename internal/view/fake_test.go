package view

import (
	"context"
	"sync"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// service is an in-memory glossary service whose single-term fetches can
// be held at a gate to reorder completions.
type service struct {
	mu       sync.Mutex
	terms    []*model.Term
	writeErr error
	reject   string // when set, every write is declined with this message
	gates    map[string]chan struct{}
	fetching chan string
	writes   int

	writeGate chan struct{} // when set, writes block until it is closed
	writing   chan struct{}
}

func newService(terms ...*model.Term) *service {
	return &service{
		terms:    terms,
		gates:    map[string]chan struct{}{},
		fetching: make(chan string, 16),
		writing:  make(chan struct{}, 1),
	}
}

// holdWrites makes writes block until the returned func is called.
func (s *service) holdWrites() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := make(chan struct{})
	s.writeGate = g
	return func() { close(g) }
}

// awaitFetch waits until a fetch of name has started.
func (s *service) awaitFetch(name string) {
	for n := range s.fetching {
		if n == name {
			return
		}
	}
}

// hold makes fetches of name block until the returned func is called.
func (s *service) hold(name string) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := make(chan struct{})
	s.gates[name] = g
	return func() { close(g) }
}

func (s *service) find(name string) int {
	for i, t := range s.terms {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func (s *service) GetAllTerms(context.Context) ([]*model.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Term, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *service) GetTermByName(ctx context.Context, name string) (*model.Term, error) {
	s.mu.Lock()
	g := s.gates[name]
	s.mu.Unlock()
	s.fetching <- name
	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(name); i >= 0 {
		return s.terms[i].Clone(), nil
	}
	return nil, model.ErrNotFound
}

func (s *service) write(fn func() *model.WriteResult) (*model.WriteResult, error) {
	s.mu.Lock()
	g := s.writeGate
	s.mu.Unlock()
	if g != nil {
		s.writing <- struct{}{}
		<-g
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	if s.reject != "" {
		return &model.WriteResult{Success: false, Message: s.reject}, nil
	}
	return fn(), nil
}

func (s *service) AddTerm(_ context.Context, t *model.Term) (*model.WriteResult, error) {
	return s.write(func() *model.WriteResult {
		if s.find(t.Name) >= 0 {
			return &model.WriteResult{Success: false, Message: "term already exists"}
		}
		s.terms = append(s.terms, t.Clone())
		return &model.WriteResult{Success: true}
	})
}

func (s *service) UpdateTerm(_ context.Context, t *model.Term) (*model.WriteResult, error) {
	return s.write(func() *model.WriteResult {
		i := s.find(t.Name)
		if i < 0 {
			return &model.WriteResult{Success: false, Message: "not found"}
		}
		s.terms[i] = t.Clone()
		return &model.WriteResult{Success: true}
	})
}

func (s *service) DeleteTerm(_ context.Context, name string) (*model.WriteResult, error) {
	return s.write(func() *model.WriteResult {
		i := s.find(name)
		if i < 0 {
			return &model.WriteResult{Success: false, Message: "not found"}
		}
		s.terms = append(s.terms[:i], s.terms[i+1:]...)
		return &model.WriteResult{Success: true}
	})
}

func (s *service) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
