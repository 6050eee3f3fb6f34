package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailState() view.State {
	return view.State{
		Generation: 4,
		Terms:      []string{"Entropy", "Information"},
		Focus: view.Focus{
			Kind: view.FocusDetail,
			Name: "Entropy",
			Term: &model.Term{
				Name:       "Entropy",
				Definition: model.Definition{Text: "Disorder.", Links: []model.Link{{URL: "https://example.org", Title: "Example"}}},
				Relations: []model.Relation{
					{FromTerm: "Entropy", ToTerm: "Information", RelationType: "related-to"},
					{FromTerm: "Entropy", ToTerm: "Heat", RelationType: "see-also"},
				},
			},
		},
		Graph: &model.Graph{
			Nodes: []string{"Entropy", "Information", "Heat"},
			Edges: []model.GraphEdge{
				{From: "Entropy", To: "Information", Type: "related-to"},
				{From: "Entropy", To: "Heat", Type: "see-also"},
				{From: "Information", To: "Entropy", Type: "uses"},
			},
			Synthesized: []string{"Heat"},
		},
		Incoming: []model.GraphEdge{{From: "Information", To: "Entropy", Type: "uses"}},
	}
}

func TestBuild_Detail(t *testing.T) {
	p := Build(detailState())

	require.NotNil(t, p.Detail)
	assert.Nil(t, p.Error)
	assert.Nil(t, p.Form)
	assert.Equal(t, "Entropy - Glossary", p.Title)
	assert.Equal(t, []ListItem{
		{Name: "Entropy", Href: "/ui/select/Entropy", Selected: true},
		{Name: "Information", Href: "/ui/select/Information"},
	}, p.List)
	assert.Equal(t, []RelationItem{
		{Other: "Information", Type: "related-to"},
		{Other: "Heat", Type: "see-also", Dangling: true},
	}, p.Detail.Outgoing)
	assert.Equal(t, []RelationItem{{Other: "Information", Type: "uses"}}, p.Detail.Incoming)

	assert.Equal(t, GraphNode{Name: "Entropy", Href: "/ui/select/Entropy", Selected: true}, p.Graph.Nodes[0])
	assert.Equal(t, GraphNode{Name: "Heat", Href: "/ui/select/Heat", Synthesized: true}, p.Graph.Nodes[2])
	assert.Len(t, p.Graph.Edges, 3)
}

func TestBuild_Empty(t *testing.T) {
	p := Build(view.State{Focus: view.Focus{Kind: view.FocusEmpty}})
	assert.Nil(t, p.Detail)
	assert.Nil(t, p.Error)
	assert.Nil(t, p.Form)
	assert.Empty(t, p.List)
	assert.Empty(t, p.Graph.Nodes)
}

func TestBuild_Error(t *testing.T) {
	p := Build(view.State{Focus: view.Focus{Kind: view.FocusError, Name: "Ghost", Error: "Term \"Ghost\" was not found."}})
	require.NotNil(t, p.Error)
	assert.Equal(t, "Ghost", p.Error.Name)
}

func TestBuild_FormWithValidation(t *testing.T) {
	s := view.State{
		Focus: view.Focus{Kind: view.FocusEditing, Draft: &view.Draft{
			Original: "Entropy",
			Name:     "Entropy",
			Links:    []view.DraftLink{{ID: "lnk-1", URL: "https://a", Title: "A"}},
		}},
		Notice: &view.Notice{
			Kind:    view.NoticeValidation,
			Message: "validation failed: definition.text: is required",
			Fields:  []model.FieldError{{Field: "definition.text", Message: "is required"}},
		},
	}
	p := Build(s)
	require.NotNil(t, p.Form)
	assert.Equal(t, "Edit Entropy", p.Form.Heading)
	assert.False(t, p.Form.NameEditable)
	assert.Equal(t, map[string]string{"definition.text": "is required"}, p.Form.Invalid)
	assert.Equal(t, []string{"definition.text"}, p.Notice.Fields)
}

func TestBuild_Deterministic(t *testing.T) {
	a, _ := json.Marshal(Build(detailState()))
	b, _ := json.Marshal(Build(detailState()))
	assert.JSONEq(t, string(a), string(b))
}

func TestWriteHTML_Escapes(t *testing.T) {
	s := detailState()
	s.Focus.Term.Definition.Text = `<script>alert(1)</script>`
	s.Focus.Term.Definition.Links = []model.Link{{URL: "javascript:alert(1)", Title: "bad"}}

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Build(s)))
	out := buf.String()

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, `href="javascript:`)
	assert.Contains(t, out, `<h2>Entropy</h2>`)
	assert.Contains(t, out, `class="dangling"`)
}

func TestWriteHTML_AllPanels(t *testing.T) {
	for _, s := range []view.State{
		{Focus: view.Focus{Kind: view.FocusEmpty}},
		{Focus: view.Focus{Kind: view.FocusList}, Terms: []string{"A"}},
		{Focus: view.Focus{Kind: view.FocusError, Name: "X", Error: "boom"}},
		{Focus: view.Focus{Kind: view.FocusEditing, Draft: &view.Draft{}}, Saving: true},
		detailState(),
	} {
		var buf bytes.Buffer
		require.NoError(t, WriteHTML(&buf, Build(s)), "focus %s", s.Focus.Kind)
		assert.Contains(t, buf.String(), "</html>")
	}
}

func TestWriteHTML_SelectActionsEscapeNames(t *testing.T) {
	s := view.State{
		Focus: view.Focus{Kind: view.FocusList},
		Terms: []string{"C#", "TCP/IP", "100%"},
		Graph: &model.Graph{Nodes: []string{"C#", "TCP/IP", "100%"}},
	}
	p := Build(s)
	assert.Equal(t, "/ui/select/C%23", p.List[0].Href)
	assert.Equal(t, "/ui/select/TCP%2FIP", p.List[1].Href)
	assert.Equal(t, "/ui/select/100%25", p.Graph.Nodes[2].Href)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, p))
	out := buf.String()
	assert.Contains(t, out, `action="/ui/select/C%23"`)
	assert.Contains(t, out, `action="/ui/select/TCP%2FIP"`)
	assert.Contains(t, out, `action="/ui/select/100%25"`)
	assert.NotContains(t, out, `action="/ui/select/C#"`)
}

func TestWriteHTML_FormRowsCanBeRemoved(t *testing.T) {
	s := view.State{Focus: view.Focus{Kind: view.FocusEditing, Draft: &view.Draft{
		Name:      "Entropy",
		Links:     []view.DraftLink{{ID: "lnk-1", URL: "https://a", Title: "A"}},
		Relations: []view.DraftRelation{{ID: "rel-1", ToTerm: "Heat", RelationType: "see-also"}},
	}}}

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Build(s)))
	out := buf.String()
	assert.Contains(t, out, `formaction="/ui/draft/links/lnk-1/remove"`)
	assert.Contains(t, out, `formaction="/ui/draft/relations/rel-1/remove"`)
}
