package model

import (
	"errors"
	"testing"
)

// validTerm returns a Term that passes all validation rules.
func validTerm() Term {
	return Term{
		Name:       "Entropy",
		Definition: Definition{Text: "A measure of disorder"},
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateTerm_Valid(t *testing.T) {
	term := validTerm()
	if err := ValidateTerm(&term); err != nil {
		t.Fatalf("ValidateTerm() = %v, want nil", err)
	}
}

func TestValidateTerm_NameRequired(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		term := validTerm()
		term.Name = name
		errs := fieldErrors(t, ValidateTerm(&term))
		if !hasFieldError(errs, "name") {
			t.Errorf("name %q: expected error on field 'name', got %v", name, errs)
		}
	}
}

func TestValidateTerm_TextRequired(t *testing.T) {
	term := validTerm()
	term.Definition.Text = ""
	errs := fieldErrors(t, ValidateTerm(&term))
	if !hasFieldError(errs, "definition.text") {
		t.Errorf("expected error on field 'definition.text', got %v", errs)
	}
}

func TestValidateTerm_BothMissing(t *testing.T) {
	errs := fieldErrors(t, ValidateTerm(&Term{}))
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
}

func TestValidateTerm_Nil(t *testing.T) {
	errs := fieldErrors(t, ValidateTerm(nil))
	if !hasFieldError(errs, "name") {
		t.Errorf("expected error on field 'name' for nil term")
	}
}

func TestValidateTerm_IgnoresRows(t *testing.T) {
	term := validTerm()
	term.Definition.Links = []Link{{URL: "", Title: ""}}
	term.Relations = []Relation{{ToTerm: "", RelationType: ""}}
	if err := ValidateTerm(&term); err != nil {
		t.Fatalf("incomplete rows must not fail term validation, got %v", err)
	}
}

func TestValidateLink(t *testing.T) {
	for _, tc := range []struct {
		name  string
		link  Link
		valid bool
	}{
		{"Complete", Link{URL: "https://example.com", Title: "Example"}, true},
		{"MissingURL", Link{Title: "Example"}, false},
		{"MissingTitle", Link{URL: "https://example.com"}, false},
		{"BlankTitle", Link{URL: "https://example.com", Title: "  "}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLink(tc.link)
			if (err == nil) != tc.valid {
				t.Errorf("ValidateLink(%+v) = %v, want valid=%v", tc.link, err, tc.valid)
			}
		})
	}
}

func TestValidateRelation(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rel   Relation
		valid bool
	}{
		{"Complete", Relation{ToTerm: "Information", RelationType: "related-to"}, true},
		{"NoFromTermNeeded", Relation{FromTerm: "", ToTerm: "X", RelationType: "is-a"}, true},
		{"MissingTarget", Relation{RelationType: "is-a"}, false},
		{"MissingType", Relation{ToTerm: "X"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRelation(tc.rel)
			if (err == nil) != tc.valid {
				t.Errorf("ValidateRelation(%+v) = %v, want valid=%v", tc.rel, err, tc.valid)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "definition.text", Message: "is required"},
	}}
	want := "validation failed: name: is required; definition.text: is required"
	if got := ve.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
