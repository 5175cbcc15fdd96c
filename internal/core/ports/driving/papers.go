package driving

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// PaperService manages the paper catalogue.
type PaperService interface {
	// Search lists candidate papers from the source without ingesting.
	Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)

	// List returns all ingested papers.
	List(ctx context.Context) ([]domain.Paper, error)

	// Get retrieves one ingested paper by id.
	Get(ctx context.Context, id string) (domain.Paper, error)

	// Stats reports the collection state.
	Stats(ctx context.Context) (*PipelineStats, error)

	// Reset destroys and recreates the collection and clears the
	// registry. Used by explicit reset flows only.
	Reset(ctx context.Context) error

	// Runs lists recent ingestion runs, newest first.
	Runs(ctx context.Context, limit int) ([]domain.IngestRun, error)
}

// PipelineStats summarises the pipeline state for status surfaces.
type PipelineStats struct {
	// PapersProcessed is the registry count.
	PapersProcessed int

	// ChunksIndexed is the vector store count.
	ChunksIndexed int

	// Collection is the vector collection name.
	Collection string
}
