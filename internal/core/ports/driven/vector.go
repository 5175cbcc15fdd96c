package driven

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// VectorStore holds indexed chunks and answers similarity queries.
// The core only ever passes text and metadata through this port;
// embeddings are the store's own concern (some backends embed
// server-side, others wrap an EmbeddingService).
//
// Every method except EnsureCollection returns
// domain.ErrStoreNotInitialized when called before the collection
// exists. That is a programming error, distinct from transient
// backend failures, and is never retried.
type VectorStore interface {
	// EnsureCollection opens or creates the named collection.
	// With reset, the collection is destroyed and recreated; reset is
	// reserved for explicit reset flows, never the ingestion path.
	EnsureCollection(ctx context.Context, name string, reset bool) error

	// Add indexes chunks with their metadata under the given ids.
	// All three slices must have equal length. Pre-existing ids are
	// overwritten (upsert), which makes re-ingestion idempotent.
	Add(ctx context.Context, texts []string, metas []domain.ChunkMetadata, ids []string) error

	// Query returns up to n chunks ranked by similarity to the query
	// text, descending. The filter may restrict results to one paper.
	Query(ctx context.Context, text string, n int, filter *domain.QueryFilter) ([]domain.RetrievedChunk, error)

	// Stats returns the chunk count and collection name.
	Stats(ctx context.Context) (domain.CollectionStats, error)

	// Close releases resources.
	Close() error
}
