// Package idgen generates short, URL-safe identifiers for draft rows and
// client instances.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the identifier kinds.
const (
	LinkPrefix     = "lnk-"
	RelationPrefix = "rel-"
	ClientPrefix   = "cl-"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	length   = 8
)

// New returns prefix followed by a random suffix.
func New(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// MustNew is like New but panics if the system random source fails.
func MustNew(prefix string) string {
	id, err := New(prefix)
	if err != nil {
		panic(err)
	}
	return id
}

// Link returns an identifier for a draft link row.
func Link() string { return MustNew(LinkPrefix) }

// Relation returns an identifier for a draft relation row.
func Relation() string { return MustNew(RelationPrefix) }

// Client returns an identifier for a running client, used to tag the
// change events it publishes.
func Client() string { return MustNew(ClientPrefix) }
