package model

import "testing"

func TestTerm_Clone(t *testing.T) {
	orig := &Term{
		Name: "Entropy",
		Definition: Definition{
			Text:  "A measure of disorder",
			Links: []Link{{URL: "https://example.com/entropy", Title: "Entropy"}},
		},
		Relations: []Relation{{FromTerm: "Entropy", ToTerm: "Information", RelationType: "related-to"}},
	}

	c := orig.Clone()
	c.Definition.Links[0].Title = "changed"
	c.Relations[0].ToTerm = "changed"
	c.Definition.Text = "changed"

	if orig.Definition.Links[0].Title != "Entropy" {
		t.Errorf("clone shares links with original")
	}
	if orig.Relations[0].ToTerm != "Information" {
		t.Errorf("clone shares relations with original")
	}
	if orig.Definition.Text != "A measure of disorder" {
		t.Errorf("clone shares definition with original")
	}
}

func TestTerm_CloneNil(t *testing.T) {
	var term *Term
	if term.Clone() != nil {
		t.Error("Clone() of nil term should be nil")
	}
}

func TestTerm_CloneEmptySlices(t *testing.T) {
	c := (&Term{Name: "X"}).Clone()
	if c.Definition.Links != nil || c.Relations != nil {
		t.Errorf("Clone() should keep empty slices nil, got %+v", c)
	}
}
