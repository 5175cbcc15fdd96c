package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore over the chunks table.
// Chunks are embedded client-side and ranked by brute-force cosine
// similarity, which is fine at the scale of a personal paper library.
type vectorStore struct {
	store    *Store
	embedder driven.EmbeddingService

	mu         sync.RWMutex
	collection string
	ready      bool
}

var _ driven.VectorStore = (*vectorStore)(nil)

// EnsureCollection opens or creates the named collection.
func (v *vectorStore) EnsureCollection(ctx context.Context, name string, reset bool) error {
	if name == "" {
		return fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}

	if reset {
		if _, err := v.store.db.ExecContext(ctx,
			"DELETE FROM chunks WHERE collection = ?", name); err != nil {
			return fmt.Errorf("resetting collection: %w", err)
		}
	}

	v.mu.Lock()
	v.collection = name
	v.ready = true
	v.mu.Unlock()
	return nil
}

// requireReady returns the collection name, or ErrStoreNotInitialized
// when EnsureCollection has not run.
func (v *vectorStore) requireReady() (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.ready {
		return "", domain.ErrStoreNotInitialized
	}
	return v.collection, nil
}

// Add indexes chunks with their metadata under the given ids.
func (v *vectorStore) Add(ctx context.Context, texts []string, metas []domain.ChunkMetadata, ids []string) error {
	collection, err := v.requireReady()
	if err != nil {
		return err
	}
	if v.embedder == nil {
		return fmt.Errorf("embedding service: %w", domain.ErrNotConfigured)
	}
	if len(texts) != len(metas) || len(texts) != len(ids) {
		return fmt.Errorf("%w: texts, metadata and ids must have equal length", domain.ErrInvalidInput)
	}
	if len(texts) == 0 {
		return nil
	}

	embeddings, err := v.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding service returned %d vectors for %d texts", len(embeddings), len(texts))
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (collection, id, paper_id, chunk_index, title, authors, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			paper_id = excluded.paper_id,
			chunk_index = excluded.chunk_index,
			title = excluded.title,
			authors = excluded.authors,
			content = excluded.content,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range texts {
		blob := float32SliceToBytes(embeddings[i])
		if _, err := stmt.ExecContext(ctx, collection, ids[i],
			metas[i].PaperID, metas[i].ChunkIndex, metas[i].Title, metas[i].Authors,
			texts[i], blob); err != nil {
			return fmt.Errorf("saving chunk %s: %w", ids[i], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns up to n chunks ranked by similarity, descending.
func (v *vectorStore) Query(ctx context.Context, text string, n int, filter *domain.QueryFilter) ([]domain.RetrievedChunk, error) {
	collection, err := v.requireReady()
	if err != nil {
		return nil, err
	}
	if v.embedder == nil {
		return nil, fmt.Errorf("embedding service: %w", domain.ErrNotConfigured)
	}
	if n <= 0 {
		return nil, nil
	}

	queryVec, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	query := `
		SELECT paper_id, chunk_index, title, authors, content, embedding
		FROM chunks WHERE collection = ?`
	args := []any{collection}
	if filter != nil && filter.PaperID != "" {
		query += " AND paper_id = ?"
		args = append(args, filter.PaperID)
	}
	query += " ORDER BY paper_id, chunk_index"

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievedChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit domain.RetrievedChunk
		var blob []byte
		if err := rows.Scan(&hit.Metadata.PaperID, &hit.Metadata.ChunkIndex,
			&hit.Metadata.Title, &hit.Metadata.Authors, &hit.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		hit.Score = cosineSimilarity(queryVec, bytesToFloat32Slice(blob))
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if n < len(hits) {
		hits = hits[:n]
	}
	return hits, nil
}

// Stats returns the chunk count and collection name.
func (v *vectorStore) Stats(ctx context.Context) (domain.CollectionStats, error) {
	collection, err := v.requireReady()
	if err != nil {
		return domain.CollectionStats{}, err
	}

	var count int
	row := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE collection = ?", collection)
	if err := row.Scan(&count); err != nil {
		return domain.CollectionStats{}, fmt.Errorf("counting chunks: %w", err)
	}

	return domain.CollectionStats{Count: count, Name: collection}, nil
}

// Close releases resources. The parent Store owns the connection.
func (v *vectorStore) Close() error {
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if floats == nil {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity is the naive cosine similarity over float32 vectors.
// Mismatched or zero vectors score 0 rather than erroring, so a chunk
// indexed under a different embedding model simply ranks last.
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
