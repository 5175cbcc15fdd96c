package mcp

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer   *domain.Answer
	err      error
	lastOpts domain.AskOptions
}

func (m *mockQueryService) Ask(
	_ context.Context,
	_ string,
	opts domain.AskOptions,
) (*domain.Answer, error) {
	m.lastOpts = opts
	return m.answer, m.err
}

// mockIngestService is a mock implementation of driving.IngestOrchestrator.
type mockIngestService struct {
	batch     *domain.BatchResult
	err       error
	lastQuery string
	lastMax   int
	lastIDs   []string
}

func (m *mockIngestService) ProcessQuery(
	_ context.Context,
	query string,
	maxResults int,
) (*domain.BatchResult, error) {
	m.lastQuery = query
	m.lastMax = maxResults
	return m.batch, m.err
}

func (m *mockIngestService) ProcessIDs(_ context.Context, ids []string) (*domain.BatchResult, error) {
	m.lastIDs = ids
	return m.batch, m.err
}

func (m *mockIngestService) ProcessPapers(_ context.Context, _ []domain.Paper) (*domain.BatchResult, error) {
	return m.batch, m.err
}

// mockPaperService is a mock implementation of driving.PaperService.
type mockPaperService struct {
	papers []domain.Paper
	paper  domain.Paper
	stats  *driving.PipelineStats
	runs   []domain.IngestRun
	err    error
}

func (m *mockPaperService) Search(_ context.Context, _ string, _ int) ([]domain.Paper, error) {
	return m.papers, m.err
}

func (m *mockPaperService) List(_ context.Context) ([]domain.Paper, error) {
	return m.papers, m.err
}

func (m *mockPaperService) Get(_ context.Context, _ string) (domain.Paper, error) {
	return m.paper, m.err
}

func (m *mockPaperService) Stats(_ context.Context) (*driving.PipelineStats, error) {
	return m.stats, m.err
}

func (m *mockPaperService) Reset(_ context.Context) error {
	return m.err
}

func (m *mockPaperService) Runs(_ context.Context, _ int) ([]domain.IngestRun, error) {
	return m.runs, m.err
}
