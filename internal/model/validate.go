package model

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func rules() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// check runs struct-tag validation and converts failures into a *ValidationError.
// prefix is prepended to every field path (e.g. "links[2]").
func check(s any, prefix string) error {
	err := rules().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var ve ValidationError
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if prefix != "" {
			field = prefix + "." + field
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: "is required"})
	}
	return &ve
}

// fieldPath strips the top-level struct name from a validator namespace,
// turning "Term.definition.text" into "definition.text".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// ValidateTerm checks the fields a term cannot be submitted without: a
// non-blank name and non-blank definition text. Link and relation rows are
// checked separately because incomplete rows are dropped, not rejected.
func ValidateTerm(t *Term) error {
	if t == nil {
		return &ValidationError{Errors: []FieldError{{Field: "name", Message: "is required"}}}
	}
	return check(t, "")
}

// ValidateLink reports whether a link row has both url and title.
func ValidateLink(l Link) error {
	return check(l, "")
}

// ValidateRelation reports whether a relation row has both a target and a type.
func ValidateRelation(r Relation) error {
	return check(r, "")
}

// Dropped counts the rows SanitizeTerm discarded.
type Dropped struct {
	Links     int
	Relations int
}

// SanitizeTerm returns a copy of t ready for submission: incomplete link and
// relation rows are removed and every relation's FromTerm is set to t.Name.
// It does not check the name or definition text; see ValidateTerm.
func SanitizeTerm(t *Term) (*Term, Dropped) {
	var d Dropped
	if t == nil {
		return nil, d
	}
	out := t.Clone()
	out.Definition.Links = nil
	for _, l := range t.Definition.Links {
		if ValidateLink(l) != nil {
			d.Links++
			continue
		}
		out.Definition.Links = append(out.Definition.Links, l)
	}
	out.Relations = nil
	for _, r := range t.Relations {
		if ValidateRelation(r) != nil {
			d.Relations++
			continue
		}
		r.FromTerm = t.Name
		out.Relations = append(out.Relations, r)
	}
	return out, d
}
