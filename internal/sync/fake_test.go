package sync

import (
	"context"
	"sync"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// fakeGateway serves terms from memory. Tests can hold a GetAllTerms call
// at a gate and choose what it returns when released.
type fakeGateway struct {
	mu       sync.Mutex
	terms    []*model.Term
	graph    *model.Graph
	err      error
	graphErr error
	gates    []chan reply
	calls    int
}

type reply struct {
	terms []*model.Term
	err   error
}

func newFakeGateway(terms ...*model.Term) *fakeGateway {
	return &fakeGateway{terms: terms}
}

func (f *fakeGateway) set(terms ...*model.Term) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = terms
}

// gate makes the next GetAllTerms call block until a reply is sent on the
// returned channel.
func (f *fakeGateway) gate() chan reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan reply)
	f.gates = append(f.gates, ch)
	return ch
}

func (f *fakeGateway) GetAllTerms(ctx context.Context) ([]*model.Term, error) {
	f.mu.Lock()
	f.calls++
	var g chan reply
	if len(f.gates) > 0 {
		g, f.gates = f.gates[0], f.gates[1:]
	}
	terms, err := f.terms, f.err
	f.mu.Unlock()

	if g != nil {
		select {
		case r := <-g:
			return r.terms, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return terms, err
}

func (f *fakeGateway) GetTermByName(_ context.Context, name string) (*model.Term, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.terms {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeGateway) GetGraph(context.Context) (*model.Graph, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.graph, f.graphErr
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func term(name string, rels ...model.Relation) *model.Term {
	return &model.Term{Name: name, Definition: model.Definition{Text: name + " text"}, Relations: rels}
}
