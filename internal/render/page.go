// Package render turns a view state into a render tree and writes that tree
// as HTML. Build is pure; it reads nothing but its argument.
package render

import (
	"fmt"
	"net/url"

	"github.com/alfredjeanlab/glossary/internal/view"
)

// Page is the render tree of one view state. Exactly one of Detail, Error,
// Form is set, or none when the main panel is empty.
type Page struct {
	Title      string      `json:"title"`
	Generation uint64      `json:"generation"`
	Notice     *Notice     `json:"notice,omitempty"`
	List       []ListItem  `json:"list"`
	Detail     *Detail     `json:"detail,omitempty"`
	Error      *ErrorPanel `json:"error,omitempty"`
	Form       *Form       `json:"form,omitempty"`
	Graph      GraphPanel  `json:"graph"`
}

// Notice is a banner above the main panel.
type Notice struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// ListItem is one entry of the term list. Href selects it.
type ListItem struct {
	Name     string `json:"name"`
	Href     string `json:"href"`
	Selected bool   `json:"selected,omitempty"`
}

// Detail shows one term.
type Detail struct {
	Name     string         `json:"name"`
	Text     string         `json:"text"`
	Links    []Link         `json:"links"`
	Outgoing []RelationItem `json:"outgoing"`
	Incoming []RelationItem `json:"incoming"`
}

// Link is a rendered definition link.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// RelationItem is a relation as seen from the detail term. Other is the
// term at the far end; Dangling is set when no such term exists.
type RelationItem struct {
	Other    string `json:"other"`
	Type     string `json:"type"`
	Dangling bool   `json:"dangling,omitempty"`
}

// ErrorPanel replaces the detail when a term could not be shown.
type ErrorPanel struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Form is the add/edit form.
type Form struct {
	Heading      string               `json:"heading"`
	Name         string               `json:"name"`
	NameEditable bool                 `json:"name_editable"`
	Text         string               `json:"text"`
	Links        []view.DraftLink     `json:"links"`
	Relations    []view.DraftRelation `json:"relations"`
	Saving       bool                 `json:"saving,omitempty"`
	Invalid      map[string]string    `json:"invalid,omitempty"` // field path -> message
}

// GraphPanel is the graph drawing.
type GraphPanel struct {
	Nodes    []GraphNode `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
	Warnings []string    `json:"warnings,omitempty"`
}

// GraphNode is a drawn node.
type GraphNode struct {
	Name        string `json:"name"`
	Href        string `json:"href"`
	Synthesized bool   `json:"synthesized,omitempty"`
	Selected    bool   `json:"selected,omitempty"`
}

// GraphEdge is a drawn edge.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// SelectPath is the intent path that selects the named term. Names are
// free text, so the name is escaped as a single path segment.
func SelectPath(name string) string {
	return "/ui/select/" + url.PathEscape(name)
}

// Build derives the render tree for s.
func Build(s view.State) *Page {
	p := &Page{
		Title:      "Glossary",
		Generation: s.Generation,
		List:       make([]ListItem, 0, len(s.Terms)),
	}

	exists := make(map[string]bool, len(s.Terms))
	for _, name := range s.Terms {
		exists[name] = true
		p.List = append(p.List, ListItem{Name: name, Href: SelectPath(name), Selected: s.Focus.Kind == view.FocusDetail && name == s.Focus.Name})
	}

	if n := s.Notice; n != nil {
		p.Notice = &Notice{Kind: string(n.Kind), Message: n.Message}
		for _, fe := range n.Fields {
			p.Notice.Fields = append(p.Notice.Fields, fe.Field)
		}
	}

	switch s.Focus.Kind {
	case view.FocusDetail:
		p.Detail = buildDetail(s, exists)
		p.Title = s.Focus.Name + " - Glossary"
	case view.FocusError:
		p.Error = &ErrorPanel{Name: s.Focus.Name, Message: s.Focus.Error}
	case view.FocusEditing:
		p.Form = buildForm(s)
	}

	p.Graph = buildGraph(s)
	return p
}

func buildDetail(s view.State, exists map[string]bool) *Detail {
	d := &Detail{Name: s.Focus.Name, Links: []Link{}, Outgoing: []RelationItem{}, Incoming: []RelationItem{}}
	if t := s.Focus.Term; t != nil {
		d.Text = t.Definition.Text
		for _, l := range t.Definition.Links {
			d.Links = append(d.Links, Link{URL: l.URL, Title: l.Title})
		}
		for _, r := range t.Relations {
			d.Outgoing = append(d.Outgoing, RelationItem{Other: r.ToTerm, Type: r.RelationType, Dangling: !exists[r.ToTerm]})
		}
	}
	for _, e := range s.Incoming {
		d.Incoming = append(d.Incoming, RelationItem{Other: e.From, Type: e.Type, Dangling: !exists[e.From]})
	}
	return d
}

func buildForm(s view.State) *Form {
	d := s.Focus.Draft
	if d == nil {
		d = &view.Draft{}
	}
	f := &Form{
		Heading:      "Add term",
		Name:         d.Name,
		NameEditable: d.IsNew(),
		Text:         d.Text,
		Links:        append([]view.DraftLink{}, d.Links...),
		Relations:    append([]view.DraftRelation{}, d.Relations...),
		Saving:       s.Saving,
	}
	if !d.IsNew() {
		f.Heading = fmt.Sprintf("Edit %s", d.Original)
	}
	if n := s.Notice; n != nil && n.Kind == view.NoticeValidation {
		f.Invalid = make(map[string]string, len(n.Fields))
		for _, fe := range n.Fields {
			f.Invalid[fe.Field] = fe.Message
		}
	}
	return f
}

func buildGraph(s view.State) GraphPanel {
	g := GraphPanel{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
	if s.Graph == nil {
		return g
	}
	synthetic := make(map[string]bool, len(s.Graph.Synthesized))
	for _, n := range s.Graph.Synthesized {
		synthetic[n] = true
	}
	selected := ""
	if s.Focus.Kind == view.FocusDetail {
		selected = s.Focus.Name
	}
	for _, n := range s.Graph.Nodes {
		g.Nodes = append(g.Nodes, GraphNode{Name: n, Href: SelectPath(n), Synthesized: synthetic[n], Selected: n == selected})
	}
	for _, e := range s.Graph.Edges {
		g.Edges = append(g.Edges, GraphEdge{From: e.From, To: e.To, Label: e.Type})
	}
	for _, w := range s.Warnings {
		g.Warnings = append(g.Warnings, w.Message)
	}
	return g
}
