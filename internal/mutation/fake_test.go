package mutation

import (
	"context"
	"sync"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// memService is an in-memory glossary service.
type memService struct {
	mu       sync.Mutex
	terms    []*model.Term
	writeErr error
	loadErr  error
	added    []*model.Term
	updated  []*model.Term
	deleted  []string
}

func newMemService(terms ...*model.Term) *memService {
	return &memService{terms: terms}
}

func (m *memService) index(name string) int {
	for i, t := range m.terms {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func (m *memService) GetAllTerms(context.Context) ([]*model.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]*model.Term, len(m.terms))
	for i, t := range m.terms {
		out[i] = t.Clone()
	}
	return out, nil
}

func (m *memService) GetTermByName(_ context.Context, name string) (*model.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(name); i >= 0 {
		return m.terms[i].Clone(), nil
	}
	return nil, model.ErrNotFound
}

func (m *memService) AddTerm(_ context.Context, t *model.Term) (*model.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, t.Clone())
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	if m.index(t.Name) >= 0 {
		return &model.WriteResult{Success: false, Message: "term already exists"}, nil
	}
	m.terms = append(m.terms, t.Clone())
	return &model.WriteResult{Success: true, Message: "added"}, nil
}

func (m *memService) UpdateTerm(_ context.Context, t *model.Term) (*model.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, t.Clone())
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	i := m.index(t.Name)
	if i < 0 {
		return &model.WriteResult{Success: false, Message: "not found"}, nil
	}
	m.terms[i] = t.Clone()
	return &model.WriteResult{Success: true}, nil
}

func (m *memService) DeleteTerm(_ context.Context, name string) (*model.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, name)
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	i := m.index(name)
	if i < 0 {
		return &model.WriteResult{Success: false, Message: "not found"}, nil
	}
	m.terms = append(m.terms[:i], m.terms[i+1:]...)
	return &model.WriteResult{Success: true}, nil
}

func (m *memService) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.added) + len(m.updated) + len(m.deleted)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }
