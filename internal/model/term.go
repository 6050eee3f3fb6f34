package model

import "errors"

// ErrNotFound is returned by gateway reads when the requested term does not exist.
var ErrNotFound = errors.New("term not found")

// Link is a supporting source attached to a definition.
type Link struct {
	URL   string `json:"url" validate:"notblank"`
	Title string `json:"title" validate:"notblank"`
}

// Definition is the explanatory text of a term plus its supporting links.
type Definition struct {
	Text  string `json:"text" validate:"notblank"`
	Links []Link `json:"links,omitempty" validate:"-"`
}

// Relation is a directed, labeled edge from one term to another by name.
// ToTerm may name a term that does not exist yet.
type Relation struct {
	FromTerm     string `json:"from_term"`
	ToTerm       string `json:"to_term" validate:"notblank"`
	RelationType string `json:"relation_type" validate:"notblank"`
}

// Term is a glossary entry. Name is the primary key and never changes after creation.
type Term struct {
	Name       string     `json:"name" validate:"notblank"`
	Definition Definition `json:"definition"`
	Relations  []Relation `json:"relations,omitempty" validate:"-"`
}

// Clone returns a deep copy of the term. Callers that hand terms across
// component boundaries clone so that no two owners share slices.
func (t *Term) Clone() *Term {
	if t == nil {
		return nil
	}
	c := &Term{
		Name: t.Name,
		Definition: Definition{
			Text: t.Definition.Text,
		},
	}
	if len(t.Definition.Links) > 0 {
		c.Definition.Links = append([]Link(nil), t.Definition.Links...)
	}
	if len(t.Relations) > 0 {
		c.Relations = append([]Relation(nil), t.Relations...)
	}
	return c
}

// WriteResult is the gateway's answer to AddTerm, UpdateTerm and DeleteTerm.
// Success=false is a business rejection, not a transport failure.
type WriteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
