// Package memory provides an in-process vector store that embeds
// client-side and ranks by brute-force cosine similarity. It backs
// tests and the no-persistence mode; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// record is one indexed chunk.
type record struct {
	text      string
	meta      domain.ChunkMetadata
	embedding []float32
}

// Store holds indexed chunks in process memory.
type Store struct {
	embedder driven.EmbeddingService

	mu         sync.RWMutex
	collection string
	ready      bool
	records    map[string]record
}

// NewStore creates a memory store embedding through the given service.
func NewStore(embedder driven.EmbeddingService) *Store {
	return &Store{
		embedder: embedder,
		records:  make(map[string]record),
	}
}

// EnsureCollection opens or creates the named collection. With reset,
// all records are dropped.
func (s *Store) EnsureCollection(_ context.Context, name string, reset bool) error {
	if name == "" {
		return fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if reset || s.collection != name {
		s.records = make(map[string]record)
	}
	s.collection = name
	s.ready = true
	return nil
}

// requireReady guards every other method against use before
// EnsureCollection.
func (s *Store) requireReady() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return domain.ErrStoreNotInitialized
	}
	return nil
}

// Add indexes chunks under the given ids with upsert semantics.
func (s *Store) Add(ctx context.Context, texts []string, metas []domain.ChunkMetadata, ids []string) error {
	if err := s.requireReady(); err != nil {
		return err
	}
	if s.embedder == nil {
		return fmt.Errorf("embedding service: %w", domain.ErrNotConfigured)
	}
	if len(texts) != len(metas) || len(texts) != len(ids) {
		return fmt.Errorf("%w: texts, metadata and ids must have equal length", domain.ErrInvalidInput)
	}
	if len(texts) == 0 {
		return nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding service returned %d vectors for %d texts", len(embeddings), len(texts))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		s.records[id] = record{
			text:      texts[i],
			meta:      metas[i],
			embedding: embeddings[i],
		}
	}
	return nil
}

// Query returns up to n chunks ranked by similarity, descending.
func (s *Store) Query(ctx context.Context, text string, n int, filter *domain.QueryFilter) ([]domain.RetrievedChunk, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("embedding service: %w", domain.ErrNotConfigured)
	}
	if n <= 0 {
		return nil, nil
	}

	queryVec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	s.mu.RLock()
	hits := make([]domain.RetrievedChunk, 0, len(s.records))
	for _, rec := range s.records {
		if filter != nil && filter.PaperID != "" && rec.meta.PaperID != filter.PaperID {
			continue
		}
		hits = append(hits, domain.RetrievedChunk{
			Text:     rec.text,
			Metadata: rec.meta,
			Score:    cosineSimilarity(queryVec, rec.embedding),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Metadata.PaperID != hits[j].Metadata.PaperID {
			return hits[i].Metadata.PaperID < hits[j].Metadata.PaperID
		}
		return hits[i].Metadata.ChunkIndex < hits[j].Metadata.ChunkIndex
	})
	if n < len(hits) {
		hits = hits[:n]
	}
	return hits, nil
}

// Stats returns the chunk count and collection name.
func (s *Store) Stats(_ context.Context) (domain.CollectionStats, error) {
	if err := s.requireReady(); err != nil {
		return domain.CollectionStats{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CollectionStats{Count: len(s.records), Name: s.collection}, nil
}

// Close releases resources (no-op for memory store).
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity is the naive cosine similarity over float32 vectors.
// Mismatched or zero vectors score 0 rather than erroring.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
