// Package client provides a transport-agnostic interface for the glossary
// service and HTTP/JSON and gRPC implementations of it.
package client

import (
	"context"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// GlossaryClient is the gateway every component uses to reach the glossary
// service. Reads return model.ErrNotFound (possibly wrapped) for missing
// terms. Writes report business rejections through WriteResult.Success and
// reserve the error return for transport failures.
type GlossaryClient interface {
	// Reads
	GetAllTerms(ctx context.Context) ([]*model.Term, error)
	GetGraph(ctx context.Context) (*model.Graph, error)
	GetTermByName(ctx context.Context, name string) (*model.Term, error)

	// Writes
	AddTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error)
	UpdateTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error)
	DeleteTerm(ctx context.Context, name string) (*model.WriteResult, error)

	// Lifecycle
	Close() error
}
