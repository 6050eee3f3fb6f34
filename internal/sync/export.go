package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// Source is what ExportJSONL reads from. *store.TermStore satisfies it.
type Source interface {
	Terms() []*model.Term
	Generation() uint64
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Generation uint64    `json:"generation"`
	TermCount  int       `json:"term_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every cached term as JSONL to w: a header line, then
// one "term" record per term sorted by name.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	terms := src.Terms()
	sort.Slice(terms, func(i, j int) bool {
		return terms[i].Name < terms[j].Name
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		Generation: src.Generation(),
		TermCount:  len(terms),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, t := range terms {
		if err := enc.Encode(record{Type: "term", Data: t}); err != nil {
			return fmt.Errorf("encode term %s: %w", t.Name, err)
		}
	}
	return nil
}
