// Package chroma provides a vector store backed by a Chroma server.
// Embeddings are computed server-side, so this backend runs without an
// EmbeddingService.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Chroma store.
type Config struct {
	// BaseURL is the Chroma server URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Store talks to a Chroma server over its v1 REST API.
type Store struct {
	client  *http.Client
	baseURL string

	mu           sync.RWMutex
	collection   string
	collectionID string
}

// createCollectionRequest is the POST /api/v1/collections body.
type createCollectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

// collectionResponse describes a collection.
type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// upsertRequest is the POST /collections/{id}/upsert body.
type upsertRequest struct {
	IDs       []string         `json:"ids"`
	Documents []string         `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
}

// queryRequest is the POST /collections/{id}/query body.
type queryRequest struct {
	QueryTexts []string       `json:"query_texts"`
	NResults   int            `json:"n_results"`
	Where      map[string]any `json:"where,omitempty"`
	Include    []string       `json:"include"`
}

// queryResponse is the query result, one inner slice per query text.
type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// NewStore creates a Chroma store client.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
	}
}

// EnsureCollection opens or creates the named collection. With reset,
// the collection is deleted first.
func (s *Store) EnsureCollection(ctx context.Context, name string, reset bool) error {
	if name == "" {
		return fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}

	if reset {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			s.baseURL+"/api/v1/collections/"+name, http.NoBody)
		if err != nil {
			return fmt.Errorf("create delete request: %w", err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		resp.Body.Close()
		// 404 is fine: nothing to reset.
	}

	var coll collectionResponse
	err := s.post(ctx, "/api/v1/collections", createCollectionRequest{
		Name:        name,
		GetOrCreate: true,
	}, &coll)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	s.mu.Lock()
	s.collection = coll.Name
	s.collectionID = coll.ID
	s.mu.Unlock()
	return nil
}

// requireReady returns the collection id, or ErrStoreNotInitialized
// when EnsureCollection has not run.
func (s *Store) requireReady() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.collectionID == "" {
		return "", domain.ErrStoreNotInitialized
	}
	return s.collectionID, nil
}

// Add upserts chunks with their metadata under the given ids.
func (s *Store) Add(ctx context.Context, texts []string, metas []domain.ChunkMetadata, ids []string) error {
	collID, err := s.requireReady()
	if err != nil {
		return err
	}
	if len(texts) != len(metas) || len(texts) != len(ids) {
		return fmt.Errorf("%w: texts, metadata and ids must have equal length", domain.ErrInvalidInput)
	}
	if len(texts) == 0 {
		return nil
	}

	metadatas := make([]map[string]any, len(metas))
	for i, m := range metas {
		metadatas[i] = map[string]any{
			"paper_id":    m.PaperID,
			"title":       m.Title,
			"chunk_index": m.ChunkIndex,
			"authors":     m.Authors,
		}
	}

	err = s.post(ctx, "/api/v1/collections/"+collID+"/upsert", upsertRequest{
		IDs:       ids,
		Documents: texts,
		Metadatas: metadatas,
	}, nil)
	if err != nil {
		return fmt.Errorf("upsert chunks: %w", err)
	}
	return nil
}

// Query returns up to n chunks ranked by similarity, descending.
// Chroma reports cosine distances ascending; scores are 1-distance.
func (s *Store) Query(ctx context.Context, text string, n int, filter *domain.QueryFilter) ([]domain.RetrievedChunk, error) {
	collID, err := s.requireReady()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	req := queryRequest{
		QueryTexts: []string{text},
		NResults:   n,
		Include:    []string{"documents", "metadatas", "distances"},
	}
	if filter != nil && filter.PaperID != "" {
		req.Where = map[string]any{"paper_id": filter.PaperID}
	}

	var result queryResponse
	if err := s.post(ctx, "/api/v1/collections/"+collID+"/query", req, &result); err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	if len(result.Documents) == 0 {
		return nil, nil
	}

	docs := result.Documents[0]
	hits := make([]domain.RetrievedChunk, 0, len(docs))
	for i, doc := range docs {
		hit := domain.RetrievedChunk{Text: doc}
		if len(result.Metadatas) > 0 && i < len(result.Metadatas[0]) {
			hit.Metadata = metadataFromMap(result.Metadatas[0][i])
		}
		if len(result.Distances) > 0 && i < len(result.Distances[0]) {
			hit.Score = 1 - result.Distances[0][i]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Stats returns the chunk count and collection name.
func (s *Store) Stats(ctx context.Context) (domain.CollectionStats, error) {
	collID, err := s.requireReady()
	if err != nil {
		return domain.CollectionStats{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/v1/collections/"+collID+"/count", http.NoBody)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("create count request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("count chunks: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("read count response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.CollectionStats{}, fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.Unmarshal(body, &count); err != nil {
		return domain.CollectionStats{}, fmt.Errorf("decode count: %w", err)
	}

	s.mu.RLock()
	name := s.collection
	s.mu.RUnlock()
	return domain.CollectionStats{Count: count, Name: name}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// post sends a JSON request and decodes the response into out when
// non-nil.
func (s *Store) post(ctx context.Context, path string, payload, out any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// metadataFromMap rebuilds chunk metadata from Chroma's generic map.
func metadataFromMap(m map[string]any) domain.ChunkMetadata {
	meta := domain.ChunkMetadata{}
	if v, ok := m["paper_id"].(string); ok {
		meta.PaperID = v
	}
	if v, ok := m["title"].(string); ok {
		meta.Title = v
	}
	if v, ok := m["authors"].(string); ok {
		meta.Authors = v
	}
	switch v := m["chunk_index"].(type) {
	case float64:
		meta.ChunkIndex = int(v)
	case int:
		meta.ChunkIndex = v
	}
	return meta
}
