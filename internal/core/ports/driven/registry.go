package driven

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// PaperRegistry is the process-wide paper metadata registry.
// The ingestion pipeline writes it on success; the query orchestrator
// reads it to resolve citations. Writes are keyed by paper id with
// last-writer-wins semantics, so re-ingestion overwrites cleanly.
type PaperRegistry interface {
	// Put stores or replaces the paper keyed by its id.
	Put(ctx context.Context, paper domain.Paper) error

	// Get retrieves a paper by id. Returns domain.ErrNotFound when
	// the id is unknown.
	Get(ctx context.Context, id string) (domain.Paper, error)

	// List returns all registered papers, most recently ingested first.
	List(ctx context.Context) ([]domain.Paper, error)

	// Count returns the number of registered papers.
	Count(ctx context.Context) (int, error)

	// Delete removes a paper by id. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
