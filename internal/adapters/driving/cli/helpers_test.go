package cli

import (
	"context"
	"errors"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

// setupTestServices swaps the package services for happy-path mocks and
// returns a cleanup function restoring the originals.
func setupTestServices() func() {
	oldIngest := ingestService
	oldQuery := queryService
	oldPapers := paperService
	oldSettings := settingsService

	ingestService = &mockIngestService{}
	queryService = &mockQueryService{}
	paperService = &mockPaperService{}
	settingsService = &mockSettingsService{}

	return func() {
		ingestService = oldIngest
		queryService = oldQuery
		paperService = oldPapers
		settingsService = oldSettings
	}
}

func testPaper() domain.Paper {
	return domain.Paper{
		ID:        "1706.03762",
		Title:     "Attention Is All You Need",
		Authors:   []string{"A. Vaswani", "N. Shazeer", "N. Parmar", "J. Uszkoreit"},
		Published: "2017-06-12",
		SourceURL: "https://arxiv.org/abs/1706.03762",
	}
}

type mockIngestService struct {
	batch *domain.BatchResult
	err   error

	lastQuery string
	lastIDs   []string
	lastMax   int
}

var _ driving.IngestOrchestrator = (*mockIngestService)(nil)

func (m *mockIngestService) result() (*domain.BatchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.batch != nil {
		return m.batch, nil
	}
	batch := &domain.BatchResult{}
	batch.Add(domain.IngestResult{
		PaperID:    "1706.03762",
		Status:     domain.IngestSucceeded,
		ChunkCount: 12,
	})
	return batch, nil
}

func (m *mockIngestService) ProcessQuery(_ context.Context, query string, maxResults int) (*domain.BatchResult, error) {
	m.lastQuery = query
	m.lastMax = maxResults
	return m.result()
}

func (m *mockIngestService) ProcessIDs(_ context.Context, ids []string) (*domain.BatchResult, error) {
	m.lastIDs = ids
	return m.result()
}

func (m *mockIngestService) ProcessPapers(_ context.Context, _ []domain.Paper) (*domain.BatchResult, error) {
	return m.result()
}

type mockQueryService struct {
	answer *domain.Answer
	err    error

	lastQuestion string
	lastOpts     domain.AskOptions
}

var _ driving.QueryService = (*mockQueryService)(nil)

func (m *mockQueryService) Ask(_ context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{
		Success: true,
		Text:    "The transformer replaces recurrence with attention.",
		Sources: []domain.Source{{
			PaperID:   "1706.03762",
			Title:     "Attention Is All You Need",
			Authors:   "A. Vaswani, N. Shazeer, N. Parmar",
			URL:       "https://arxiv.org/abs/1706.03762",
			Published: "2017-06-12",
		}},
	}, nil
}

type mockPaperService struct {
	papers []domain.Paper
	stats  *driving.PipelineStats
	runs   []domain.IngestRun
	err    error

	resetCalled bool
}

var _ driving.PaperService = (*mockPaperService)(nil)

func (m *mockPaperService) Search(_ context.Context, _ string, _ int) ([]domain.Paper, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.papers != nil {
		return m.papers, nil
	}
	return []domain.Paper{testPaper()}, nil
}

func (m *mockPaperService) List(_ context.Context) ([]domain.Paper, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.papers != nil {
		return m.papers, nil
	}
	return []domain.Paper{testPaper()}, nil
}

func (m *mockPaperService) Get(_ context.Context, id string) (domain.Paper, error) {
	if m.err != nil {
		return domain.Paper{}, m.err
	}
	p := testPaper()
	if id != p.ID {
		return domain.Paper{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPaperService) Stats(_ context.Context) (*driving.PipelineStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stats != nil {
		return m.stats, nil
	}
	return &driving.PipelineStats{
		PapersProcessed: 3,
		ChunksIndexed:   42,
		Collection:      "papers",
	}, nil
}

func (m *mockPaperService) Reset(_ context.Context) error {
	m.resetCalled = true
	return m.err
}

func (m *mockPaperService) Runs(_ context.Context, _ int) ([]domain.IngestRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.runs, nil
}

type mockSettingsService struct {
	settings *domain.AppSettings
	keys     map[domain.GenProvider]string
	err      error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings != nil {
		return m.settings, nil
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = settings
	return m.err
}

func (m *mockSettingsService) SetProvider(provider domain.GenProvider, model string) error {
	if m.err != nil {
		return m.err
	}
	settings, _ := m.Get() //nolint:errcheck // err is nil here
	settings.Provider = provider
	settings.Model = model
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetEmbedding(provider domain.EmbedProvider, model string) error {
	if m.err != nil {
		return m.err
	}
	settings, _ := m.Get() //nolint:errcheck // err is nil here
	settings.Embedding = provider
	settings.EmbeddingModel = model
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetBackend(backend domain.VectorBackend) error {
	if m.err != nil {
		return m.err
	}
	settings, _ := m.Get() //nolint:errcheck // err is nil here
	settings.Backend = backend
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetAPIKey(provider domain.GenProvider, key string) error {
	if m.err != nil {
		return m.err
	}
	if m.keys == nil {
		m.keys = make(map[domain.GenProvider]string)
	}
	m.keys[provider] = key
	return nil
}

func (m *mockSettingsService) APIKey(provider domain.GenProvider) string {
	return m.keys[provider]
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateProvider(_ context.Context) error {
	return m.err
}

var errMockService = errors.New("backend unavailable")
