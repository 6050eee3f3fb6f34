package mutation

import (
	"context"
	"errors"
	"testing"

	"github.com/alfredjeanlab/glossary/internal/events"
	"github.com/alfredjeanlab/glossary/internal/graph"
	"github.com/alfredjeanlab/glossary/internal/metrics"
	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/store"
	termsync "github.com/alfredjeanlab/glossary/internal/sync"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *memService
	store    *store.TermStore
	resyncer *termsync.Resyncer
	pub      *recordingPublisher
	metrics  *metrics.Collector
	pipeline *Pipeline
}

func newFixture(t *testing.T, terms ...*model.Term) *fixture {
	t.Helper()
	f := &fixture{svc: newMemService(terms...), pub: &recordingPublisher{}, metrics: metrics.NewCollector("test")}
	f.store = store.New(f.svc)
	f.resyncer = termsync.NewResyncer(f.store, nil)
	_, err := f.resyncer.Resync(context.Background())
	require.NoError(t, err)
	f.pipeline = New(f.svc, f.resyncer, WithPublisher(f.pub, "cl-test"), WithMetrics(f.metrics))
	return f
}

func term(name, text string, rels ...model.Relation) *model.Term {
	return &model.Term{Name: name, Definition: model.Definition{Text: text}, Relations: rels}
}

func TestAdd_SuccessResyncs(t *testing.T) {
	f := newFixture(t, term("Information", "Reduction of uncertainty."))
	before := f.store.Generation()

	out, err := f.pipeline.Add(context.Background(), term("Entropy", "Measure of disorder.",
		model.Relation{ToTerm: "Information", RelationType: "related-to"}))
	require.NoError(t, err)

	assert.False(t, out.Rejected)
	assert.Equal(t, OpAdd, out.Op)
	assert.Equal(t, "Entropy", out.Name)
	require.NotNil(t, out.Snapshot)
	assert.Greater(t, out.Snapshot.Generation, before)

	got, ok := f.store.Get("Entropy")
	require.True(t, ok)
	assert.Equal(t, "Measure of disorder.", got.Definition.Text)
	assert.True(t, graph.HasNode(out.Snapshot.Graph, "Entropy"))

	require.Equal(t, []string{events.TopicTermAdded}, f.pub.topics)
	assert.Equal(t, events.TermChanged{Name: "Entropy", Origin: "cl-test"}, f.pub.events[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Mutations.WithLabelValues("add", metrics.ResultSuccess)))
}

func TestAdd_EmptyTextNeverReachesGateway(t *testing.T) {
	f := newFixture(t)
	gen := f.store.Generation()

	out, err := f.pipeline.Add(context.Background(), term("Entropy", "   "))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, ErrValidation))

	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "definition.text", ve.Errors[0].Field)

	assert.Zero(t, f.svc.writes())
	assert.Equal(t, gen, f.store.Generation())
	assert.Empty(t, f.pub.topics)
}

func TestAdd_EmptyNameRefused(t *testing.T) {
	f := newFixture(t)
	_, err := f.pipeline.Add(context.Background(), term("", "text"))
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.svc.writes())
}

func TestAdd_DropsInvalidRowsAndForcesFromTerm(t *testing.T) {
	f := newFixture(t)
	in := &model.Term{
		Name: "Entropy",
		Definition: model.Definition{Text: "Disorder.", Links: []model.Link{
			{URL: "https://example.org", Title: "Example"},
			{URL: "https://no-title.example"},
		}},
		Relations: []model.Relation{
			{FromTerm: "Someone", ToTerm: "Heat", RelationType: "related-to"},
			{ToTerm: "", RelationType: "is-a"},
		},
	}

	out, err := f.pipeline.Add(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, model.Dropped{Links: 1, Relations: 1}, out.Dropped)

	require.Len(t, f.svc.added, 1)
	sent := f.svc.added[0]
	assert.Len(t, sent.Definition.Links, 1)
	require.Len(t, sent.Relations, 1)
	assert.Equal(t, "Entropy", sent.Relations[0].FromTerm)
	assert.Equal(t, "Heat", sent.Relations[0].ToTerm)
}

func TestAdd_ZeroValidRelationsStillSaves(t *testing.T) {
	f := newFixture(t)
	out, err := f.pipeline.Add(context.Background(), term("Entropy", "Disorder.",
		model.Relation{ToTerm: "", RelationType: "is-a"}))
	require.NoError(t, err)
	assert.False(t, out.Rejected)
	require.Len(t, f.svc.added, 1)
	assert.Empty(t, f.svc.added[0].Relations)
}

func TestUpdate_RejectionDoesNotResync(t *testing.T) {
	f := newFixture(t, term("A", "a"))
	gen := f.store.Generation()

	out, err := f.pipeline.Update(context.Background(), term("Ghost", "text"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)
	assert.Equal(t, "not found", out.Message)
	assert.Nil(t, out.Snapshot)
	assert.Equal(t, gen, f.store.Generation())
	assert.Empty(t, f.pub.topics)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Mutations.WithLabelValues("update", metrics.ResultRejected)))
}

func TestUpdate_ReplacesWholeTerm(t *testing.T) {
	f := newFixture(t, term("A", "old", model.Relation{ToTerm: "B", RelationType: "is-a"}))

	out, err := f.pipeline.Update(context.Background(), term("A", "new"))
	require.NoError(t, err)
	require.False(t, out.Rejected)

	got, ok := f.store.Get("A")
	require.True(t, ok)
	assert.Equal(t, "new", got.Definition.Text)
	assert.Empty(t, got.Relations)
	assert.Equal(t, []string{events.TopicTermUpdated}, f.pub.topics)
}

func TestWrite_TransportFailureIsError(t *testing.T) {
	f := newFixture(t, term("A", "a"))
	f.svc.writeErr = errors.New("connection reset")
	gen := f.store.Generation()

	out, err := f.pipeline.Update(context.Background(), term("A", "b"))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, gen, f.store.Generation())
	assert.Empty(t, f.pub.topics)
}

func TestWrite_ResyncFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.svc.loadErr = errors.New("service down")

	out, err := f.pipeline.Add(context.Background(), term("Entropy", "x"))
	require.NoError(t, err)
	assert.False(t, out.Rejected)
	assert.Nil(t, out.Snapshot)
	assert.ErrorContains(t, out.ResyncErr, "service down")
}

func TestDelete_Success(t *testing.T) {
	f := newFixture(t, term("Entropy", "x"), term("Information", "y"))

	out, err := f.pipeline.Delete(context.Background(), "Entropy")
	require.NoError(t, err)
	require.False(t, out.Rejected)

	_, ok := f.store.Get("Entropy")
	assert.False(t, ok)
	assert.Equal(t, []string{"Information"}, f.store.Names())
	assert.False(t, graph.HasNode(out.Snapshot.Graph, "Entropy"))
	assert.Equal(t, []string{events.TopicTermDeleted}, f.pub.topics)
}

func TestDelete_ReferencedTermBecomesSynthesized(t *testing.T) {
	f := newFixture(t,
		term("Entropy", "x"),
		term("Information", "y", model.Relation{ToTerm: "Entropy", RelationType: "related-to"}),
	)

	out, err := f.pipeline.Delete(context.Background(), "Entropy")
	require.NoError(t, err)
	assert.True(t, graph.HasNode(out.Snapshot.Graph, "Entropy"))
	assert.Equal(t, []string{"Entropy"}, out.Snapshot.Graph.Synthesized)
}

func TestDelete_BlankName(t *testing.T) {
	f := newFixture(t)
	_, err := f.pipeline.Delete(context.Background(), " ")
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.svc.writes())
}

func TestDelete_Rejected(t *testing.T) {
	f := newFixture(t)
	out, err := f.pipeline.Delete(context.Background(), "Ghost")
	require.NoError(t, err)
	assert.True(t, out.Rejected)
	assert.Equal(t, "not found", out.Message)
}

func TestNilWriteResultIsRejection(t *testing.T) {
	p := New(nilResultGateway{}, nil)
	out, err := p.Delete(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, out.Rejected)
}

type nilResultGateway struct{}

func (nilResultGateway) AddTerm(context.Context, *model.Term) (*model.WriteResult, error) {
	return nil, nil
}

func (nilResultGateway) UpdateTerm(context.Context, *model.Term) (*model.WriteResult, error) {
	return nil, nil
}

func (nilResultGateway) DeleteTerm(context.Context, string) (*model.WriteResult, error) {
	return nil, nil
}
