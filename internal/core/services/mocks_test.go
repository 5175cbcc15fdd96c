package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Shared hand-rolled mocks for the service tests. Function fields
// override behaviour per test; zero values behave as empty successes.

// mockSource implements driven.PaperSource.
type mockSource struct {
	name       string
	searchFn   func(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)
	lookupFn   func(ctx context.Context, ids []string) ([]domain.Paper, error)
	fetchFn    func(ctx context.Context, paper domain.Paper) (io.ReadCloser, int64, error)
	mu         sync.Mutex
	fetchCalls []string
}

var _ driven.PaperSource = (*mockSource)(nil)

func (m *mockSource) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, maxResults)
	}
	return nil, nil
}

func (m *mockSource) Lookup(ctx context.Context, ids []string) ([]domain.Paper, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockSource) Fetch(ctx context.Context, paper domain.Paper) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	m.fetchCalls = append(m.fetchCalls, paper.ID)
	m.mu.Unlock()

	if m.fetchFn != nil {
		return m.fetchFn(ctx, paper)
	}
	return io.NopCloser(bytes.NewReader(nil)), 0, nil
}

func (m *mockSource) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetchCalls)
}

// mockExtractor implements driven.TextExtractor.
type mockExtractor struct {
	name      string
	extractFn func(ctx context.Context, data []byte, maxPages int) (string, error)
}

var _ driven.TextExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockExtractor) Extract(ctx context.Context, data []byte, maxPages int) (string, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, data, maxPages)
	}
	return string(data), nil
}

// mockVectorStore implements driven.VectorStore with an in-memory map
// and upsert semantics, enough to exercise idempotent ingestion.
type mockVectorStore struct {
	mu          sync.Mutex
	initialized bool
	name        string
	texts       map[string]string
	metas       map[string]domain.ChunkMetadata

	addErr  error
	queryFn func(ctx context.Context, text string, n int, filter *domain.QueryFilter) ([]domain.RetrievedChunk, error)
	statsFn func(ctx context.Context) (domain.CollectionStats, error)
}

var _ driven.VectorStore = (*mockVectorStore)(nil)

func (m *mockVectorStore) EnsureCollection(_ context.Context, name string, reset bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reset || m.texts == nil {
		m.texts = make(map[string]string)
		m.metas = make(map[string]domain.ChunkMetadata)
	}
	m.initialized = true
	m.name = name
	return nil
}

func (m *mockVectorStore) Add(_ context.Context, texts []string, metas []domain.ChunkMetadata, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return domain.ErrStoreNotInitialized
	}
	if m.addErr != nil {
		return m.addErr
	}
	for i, id := range ids {
		m.texts[id] = texts[i]
		m.metas[id] = metas[i]
	}
	return nil
}

func (m *mockVectorStore) Query(ctx context.Context, text string, n int, filter *domain.QueryFilter) ([]domain.RetrievedChunk, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, text, n, filter)
	}
	return nil, nil
}

func (m *mockVectorStore) Stats(ctx context.Context) (domain.CollectionStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return domain.CollectionStats{}, domain.ErrStoreNotInitialized
	}
	return domain.CollectionStats{Count: len(m.texts), Name: m.name}, nil
}

func (m *mockVectorStore) Close() error { return nil }

func (m *mockVectorStore) storedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.texts))
	for id := range m.texts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// mockRegistry implements driven.PaperRegistry over a plain map.
type mockRegistry struct {
	mu     sync.Mutex
	papers map[string]domain.Paper
	putErr error
}

var _ driven.PaperRegistry = (*mockRegistry)(nil)

func (m *mockRegistry) Put(_ context.Context, paper domain.Paper) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.papers == nil {
		m.papers = make(map[string]domain.Paper)
	}
	m.papers[paper.ID] = paper
	return nil
}

func (m *mockRegistry) Get(_ context.Context, id string) (domain.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.papers[id]
	if !ok {
		return domain.Paper{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockRegistry) List(_ context.Context) ([]domain.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	papers := make([]domain.Paper, 0, len(m.papers))
	for _, p := range m.papers {
		papers = append(papers, p)
	}
	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })
	return papers, nil
}

func (m *mockRegistry) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.papers), nil
}

func (m *mockRegistry) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.papers, id)
	return nil
}

func (m *mockRegistry) Close() error { return nil }

// mockRunStore implements driven.RunStore.
type mockRunStore struct {
	mu   sync.Mutex
	runs []domain.IngestRun
}

var _ driven.RunStore = (*mockRunStore)(nil)

func (m *mockRunStore) Save(_ context.Context, run domain.IngestRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunStore) Recent(_ context.Context, limit int) ([]domain.IngestRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]domain.IngestRun, limit)
	copy(out, m.runs[len(m.runs)-limit:])
	return out, nil
}

// mockGenerator implements driven.Generator and counts invocations.
type mockGenerator struct {
	mu         sync.Mutex
	calls      int
	lastPrompt string

	generateFn func(ctx context.Context, prompt string, maxTokens int) (string, error)
}

var _ driven.Generator = (*mockGenerator)(nil)

func (m *mockGenerator) Name() string         { return "mock" }
func (m *mockGenerator) DefaultModel() string { return "mock-model" }

func (m *mockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt = prompt
	m.mu.Unlock()

	if m.generateFn != nil {
		return m.generateFn(ctx, prompt, maxTokens)
	}
	return "mock answer", nil
}

func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { return nil }

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockGenerator) prompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// mockPromptStore implements driven.PromptStore with fixed templates.
type mockPromptStore struct {
	prompts map[string]string
}

var _ driven.PromptStore = (*mockPromptStore)(nil)

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// wordText builds a deterministic text of n whitespace-separated words.
func wordText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word" + string(rune('a'+i%26))
	}
	return strings.Join(words, " ")
}
