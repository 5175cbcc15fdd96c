package driven

import (
	"context"
	"io"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// PaperSource discovers papers and serves their raw bytes.
// Implementations include the arXiv API and local directories.
//
// Fetch returns a stream plus the declared size when the source knows
// it (-1 otherwise); the ingestion pipeline enforces the byte cap
// while reading, so oversized payloads are abandoned mid-stream
// rather than buffered whole.
type PaperSource interface {
	// Name returns the source name (e.g. "arxiv").
	Name() string

	// Search returns up to maxResults candidate papers for a query,
	// each with a stable id and full metadata.
	Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)

	// Lookup resolves specific paper ids to papers with metadata.
	// Unknown ids are omitted from the result, not errors.
	Lookup(ctx context.Context, ids []string) ([]domain.Paper, error)

	// Fetch opens the paper's artifact for reading. The caller must
	// close the reader. declaredSize is -1 when unknown.
	Fetch(ctx context.Context, paper domain.Paper) (r io.ReadCloser, declaredSize int64, err error)
}
