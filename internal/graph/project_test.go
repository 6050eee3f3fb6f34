package graph

import (
	"testing"

	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func term(name string, rels ...model.Relation) *model.Term {
	return &model.Term{Name: name, Definition: model.Definition{Text: name}, Relations: rels}
}

func rel(to, typ string) model.Relation {
	return model.Relation{ToTerm: to, RelationType: typ}
}

// requireClosed asserts that every edge endpoint is a node.
func requireClosed(t *testing.T, g *model.Graph) {
	t.Helper()
	nodes := toSet(g.Nodes)
	for _, e := range g.Edges {
		require.True(t, nodes[e.From], "edge %+v: missing from-node", e)
		require.True(t, nodes[e.To], "edge %+v: missing to-node", e)
	}
}

func TestProject_Basic(t *testing.T) {
	g := Project([]*model.Term{
		term("Machine Learning", rel("Statistics", "uses")),
		term("Statistics"),
	})
	assert.Equal(t, []string{"Machine Learning", "Statistics"}, g.Nodes)
	assert.Equal(t, []model.GraphEdge{{From: "Machine Learning", To: "Statistics", Type: "uses"}}, g.Edges)
	assert.Empty(t, g.Synthesized)
	requireClosed(t, g)
}

func TestProject_FromTermIsOwner(t *testing.T) {
	forged := model.Relation{FromTerm: "Someone Else", ToTerm: "B", RelationType: "is-a"}
	g := Project([]*model.Term{term("A", forged), term("B")})
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "A", g.Edges[0].From)
}

func TestProject_MultiEdgesPreserved(t *testing.T) {
	g := Project([]*model.Term{
		term("A", rel("B", "is-a"), rel("B", "broader-than"), rel("B", "is-a")),
		term("B"),
	})
	assert.Equal(t, []model.GraphEdge{
		{From: "A", To: "B", Type: "is-a"},
		{From: "A", To: "B", Type: "broader-than"},
	}, g.Edges)
}

func TestProject_DanglingSynthesized(t *testing.T) {
	g := Project([]*model.Term{
		term("A", rel("Ghost", "related-to"), rel("B", "is-a")),
		term("B", rel("Phantom", "is-a"), rel("Ghost", "is-a")),
	})
	assert.Equal(t, []string{"A", "B", "Ghost", "Phantom"}, g.Nodes)
	assert.Equal(t, []string{"Ghost", "Phantom"}, g.Synthesized)
	assert.Len(t, g.Edges, 4)
	requireClosed(t, g)
}

func TestProject_SkipsBlankTargets(t *testing.T) {
	g := Project([]*model.Term{term("A", rel("", "is-a"), rel("  ", "is-a"))})
	assert.Equal(t, []string{"A"}, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestProject_Deterministic(t *testing.T) {
	terms := []*model.Term{
		term("C", rel("A", "x"), rel("Z", "y")),
		term("A", rel("B", "x")),
		term("B", rel("C", "z"), rel("Y", "x")),
	}
	first := Project(terms)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Project(terms))
	}
}

func TestProject_Empty(t *testing.T) {
	g := Project(nil)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Nodes)
}

func TestProject_AfterDelete(t *testing.T) {
	// "Entropy" deleted; nothing references it any more.
	g := Project([]*model.Term{term("Information")})
	assert.False(t, HasNode(g, "Entropy"))

	// "Entropy" deleted, but another term still points at it.
	g = Project([]*model.Term{term("Information", rel("Entropy", "related-to"))})
	assert.True(t, HasNode(g, "Entropy"))
	assert.Equal(t, []string{"Entropy"}, g.Synthesized)
}

func TestFromServer_Normalizes(t *testing.T) {
	g := FromServer(&model.Graph{
		Nodes: []string{"A", "B", "A", ""},
		Edges: []model.GraphEdge{
			{From: "A", To: "B", Type: "is-a"},
			{From: "A", To: "B", Type: "is-a"},
			{From: "C", To: "A", Type: "uses"},
		},
	})
	assert.Equal(t, []string{"A", "B", "C"}, g.Nodes)
	assert.Equal(t, []string{"C"}, g.Synthesized)
	assert.Len(t, g.Edges, 2)
	requireClosed(t, g)
}

func TestFromServer_Nil(t *testing.T) {
	g := FromServer(nil)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestIncoming(t *testing.T) {
	g := Project([]*model.Term{
		term("A", rel("C", "is-a")),
		term("B", rel("C", "part-of"), rel("A", "uses")),
		term("C"),
	})
	assert.Equal(t, []model.GraphEdge{
		{From: "A", To: "C", Type: "is-a"},
		{From: "B", To: "C", Type: "part-of"},
	}, Incoming(g, "C"))
	assert.Empty(t, Incoming(g, "B"))
	assert.Empty(t, Incoming(nil, "B"))
}
