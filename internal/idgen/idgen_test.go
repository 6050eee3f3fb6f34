package idgen

import (
	"regexp"
	"strings"
	"testing"
)

func TestNew_Shape(t *testing.T) {
	for _, prefix := range []string{LinkPrefix, RelationPrefix, ClientPrefix, ""} {
		id, err := New(prefix)
		if err != nil {
			t.Fatalf("New(%q) error: %v", prefix, err)
		}
		if !strings.HasPrefix(id, prefix) {
			t.Errorf("New(%q) = %q, missing prefix", prefix, id)
		}
		if got := len(id) - len(prefix); got != length {
			t.Errorf("New(%q) suffix length = %d, want %d", prefix, got, length)
		}
		pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `[a-z0-9]+$`)
		if !pattern.MatchString(id) {
			t.Errorf("New(%q) = %q, unexpected characters", prefix, id)
		}
	}
}

func TestHelpers_Prefixes(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"Link", Link, LinkPrefix},
		{"Relation", Relation, RelationPrefix},
		{"Client", Client, ClientPrefix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if id := tt.gen(); !strings.HasPrefix(id, tt.prefix) {
				t.Errorf("%s() = %q, want prefix %q", tt.name, id, tt.prefix)
			}
		})
	}
}

func TestNew_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id := Link()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
