package driving

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// IngestOrchestrator runs the fetch, extract, chunk, index pipeline.
type IngestOrchestrator interface {
	// ProcessQuery searches the paper source and ingests up to
	// maxResults matching papers.
	ProcessQuery(ctx context.Context, query string, maxResults int) (*domain.BatchResult, error)

	// ProcessIDs ingests specific papers by source id.
	ProcessIDs(ctx context.Context, ids []string) (*domain.BatchResult, error)

	// ProcessPapers ingests already-resolved papers. One paper's
	// failure never aborts its siblings.
	ProcessPapers(ctx context.Context, papers []domain.Paper) (*domain.BatchResult, error)
}
