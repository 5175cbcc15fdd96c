package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// stubEmbedder maps texts to fixed 3-dimensional vectors so similarity
// ordering is predictable without a real embedding backend.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	// Crude fallback: direction decided by the first word.
	if strings.HasPrefix(text, "quantum") {
		return []float32{1, 0, 0}, nil
	}
	return []float32{0, 1, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int              { return 3 }
func (s *stubEmbedder) ModelName() string            { return "stub" }
func (s *stubEmbedder) Ping(_ context.Context) error { return nil }
func (s *stubEmbedder) Close() error                 { return nil }

func newReadyStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(&stubEmbedder{})
	require.NoError(t, store.EnsureCollection(context.Background(), "papers", false))
	return store
}

func TestStore_AddBeforeEnsureCollection(t *testing.T) {
	store := NewStore(&stubEmbedder{})

	err := store.Add(context.Background(), []string{"x"},
		[]domain.ChunkMetadata{{}}, []string{"id"})
	assert.ErrorIs(t, err, domain.ErrStoreNotInitialized)

	_, err = store.Query(context.Background(), "x", 5, nil)
	assert.ErrorIs(t, err, domain.ErrStoreNotInitialized)

	_, err = store.Stats(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreNotInitialized)
}

func TestStore_LengthAgreementRequired(t *testing.T) {
	store := newReadyStore(t)

	err := store.Add(context.Background(), []string{"a", "b"},
		[]domain.ChunkMetadata{{}}, []string{"id1", "id2"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_UpsertKeepsCountConstant(t *testing.T) {
	store := newReadyStore(t)
	ctx := context.Background()

	add := func() {
		require.NoError(t, store.Add(ctx,
			[]string{"quantum computing chunk"},
			[]domain.ChunkMetadata{{PaperID: "p1", ChunkIndex: 0}},
			[]string{"p1_chunk_0"}))
	}
	add()
	add()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
}

func TestStore_QueryRanksBySimilarity(t *testing.T) {
	store := newReadyStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx,
		[]string{"quantum error correction", "neural network pruning"},
		[]domain.ChunkMetadata{
			{PaperID: "quantum-paper", ChunkIndex: 0},
			{PaperID: "nn-paper", ChunkIndex: 0},
		},
		[]string{"q_chunk_0", "n_chunk_0"}))

	hits, err := store.Query(ctx, "quantum decoherence", 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "quantum-paper", hits[0].Metadata.PaperID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestStore_QueryFilterByPaper(t *testing.T) {
	store := newReadyStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx,
		[]string{"quantum chunk", "neural chunk"},
		[]domain.ChunkMetadata{
			{PaperID: "p1", ChunkIndex: 0},
			{PaperID: "p2", ChunkIndex: 0},
		},
		[]string{"p1_chunk_0", "p2_chunk_0"}))

	hits, err := store.Query(ctx, "quantum", 10, &domain.QueryFilter{PaperID: "p2"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "p2", hits[0].Metadata.PaperID)
}

func TestStore_ResetDropsRecords(t *testing.T) {
	store := newReadyStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []string{"quantum chunk"},
		[]domain.ChunkMetadata{{PaperID: "p1"}}, []string{"p1_chunk_0"}))

	require.NoError(t, store.EnsureCollection(ctx, "papers", true))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
}
