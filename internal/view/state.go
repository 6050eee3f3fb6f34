package view

import "github.com/alfredjeanlab/glossary/internal/model"

// FocusKind names what the interface is currently centered on.
type FocusKind string

const (
	FocusEmpty   FocusKind = "empty"
	FocusList    FocusKind = "list"
	FocusDetail  FocusKind = "detail"
	FocusError   FocusKind = "error"
	FocusEditing FocusKind = "editing"
)

// DraftLink is a link row in the edit form. ID identifies the row so it
// can be removed regardless of its position or content.
type DraftLink struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// DraftRelation is a relation row in the edit form.
type DraftRelation struct {
	ID           string `json:"id"`
	ToTerm       string `json:"to_term"`
	RelationType string `json:"relation_type"`
}

// Draft is the edit form's contents. Original is the name of the term being
// edited, or empty when adding a new term.
type Draft struct {
	Original  string          `json:"original,omitempty"`
	Name      string          `json:"name"`
	Text      string          `json:"text"`
	Links     []DraftLink     `json:"links"`
	Relations []DraftRelation `json:"relations"`
}

// IsNew reports whether the draft creates a term rather than editing one.
func (d *Draft) IsNew() bool { return d.Original == "" }

func (d *Draft) clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.Links = append([]DraftLink(nil), d.Links...)
	c.Relations = append([]DraftRelation(nil), d.Relations...)
	return &c
}

// term converts the draft into the term to submit. Incomplete rows are kept;
// the mutation pipeline drops them.
func (d *Draft) term() *model.Term {
	t := &model.Term{Name: d.Name, Definition: model.Definition{Text: d.Text}}
	for _, l := range d.Links {
		t.Definition.Links = append(t.Definition.Links, model.Link{URL: l.URL, Title: l.Title})
	}
	for _, r := range d.Relations {
		t.Relations = append(t.Relations, model.Relation{ToTerm: r.ToTerm, RelationType: r.RelationType})
	}
	return t
}

// Focus is the current view. Term is set for FocusDetail, Name for
// FocusDetail and FocusError, Error for FocusError, Draft for FocusEditing.
type Focus struct {
	Kind  FocusKind   `json:"kind"`
	Name  string      `json:"name,omitempty"`
	Term  *model.Term `json:"term,omitempty"`
	Error string      `json:"error,omitempty"`
	Draft *Draft      `json:"draft,omitempty"`
}

func (f Focus) clone() Focus {
	f.Term = f.Term.Clone()
	f.Draft = f.Draft.clone()
	return f
}

// NoticeKind classifies a message shown above the current view.
type NoticeKind string

const (
	NoticeError      NoticeKind = "error"      // transport or not-found failures
	NoticeValidation NoticeKind = "validation" // submission refused locally
	NoticeRejected   NoticeKind = "rejected"   // the service declined the write
	NoticeInfo       NoticeKind = "info"
)

// Notice is a message for the user. Fields lists the offending form fields
// for validation notices.
type Notice struct {
	Kind    NoticeKind         `json:"kind"`
	Message string             `json:"message"`
	Fields  []model.FieldError `json:"fields,omitempty"`
}

// State is everything a renderer needs: the focus plus the current list
// and graph.
type State struct {
	Generation uint64               `json:"generation"`
	Focus      Focus                `json:"focus"`
	Terms      []string             `json:"terms"`
	Graph      *model.Graph         `json:"graph"`
	Warnings   []model.GraphWarning `json:"warnings,omitempty"`
	Incoming   []model.GraphEdge    `json:"incoming,omitempty"` // relations pointing at the detail term
	Notice     *Notice              `json:"notice,omitempty"`
	Saving     bool                 `json:"saving,omitempty"`
}
