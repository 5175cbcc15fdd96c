package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
	"github.com/scirag-labs/scirag-cli/internal/logger"
)

// Ensure PaperService implements the interface.
var _ driving.PaperService = (*PaperService)(nil)

// PaperService manages the paper catalogue: source search, registry
// listings, pipeline stats and the reset flow.
type PaperService struct {
	source     driven.PaperSource
	registry   driven.PaperRegistry
	vector     driven.VectorStore
	runStore   driven.RunStore
	collection string
}

// NewPaperService creates a paper service. runStore may be nil, in
// which case Runs returns an empty history.
func NewPaperService(
	source driven.PaperSource,
	registry driven.PaperRegistry,
	vector driven.VectorStore,
	runStore driven.RunStore,
	collection string,
) *PaperService {
	if collection == "" {
		collection = domain.DefaultCollection
	}
	return &PaperService{
		source:     source,
		registry:   registry,
		vector:     vector,
		runStore:   runStore,
		collection: collection,
	}
}

// Search lists candidate papers from the source without ingesting.
func (s *PaperService) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	papers, err := s.source.Search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search papers: %w", err)
	}
	return papers, nil
}

// List returns all ingested papers.
func (s *PaperService) List(ctx context.Context) ([]domain.Paper, error) {
	return s.registry.List(ctx)
}

// Get retrieves one ingested paper by id.
func (s *PaperService) Get(ctx context.Context, id string) (domain.Paper, error) {
	if id == "" {
		return domain.Paper{}, fmt.Errorf("%w: empty paper id", domain.ErrInvalidInput)
	}
	return s.registry.Get(ctx, id)
}

// Stats reports the collection state for status surfaces.
func (s *PaperService) Stats(ctx context.Context) (*driving.PipelineStats, error) {
	if err := s.vector.EnsureCollection(ctx, s.collection, false); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	stats, err := s.vector.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collection stats: %w", err)
	}

	papers, err := s.registry.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry count: %w", err)
	}

	return &driving.PipelineStats{
		PapersProcessed: papers,
		ChunksIndexed:   stats.Count,
		Collection:      stats.Name,
	}, nil
}

// Reset destroys and recreates the collection and clears the registry.
// This is the only path that resets a collection; ingestion never does.
func (s *PaperService) Reset(ctx context.Context) error {
	logger.Section("Reset")

	if err := s.vector.EnsureCollection(ctx, s.collection, true); err != nil {
		return fmt.Errorf("reset collection: %w", err)
	}

	papers, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list papers: %w", err)
	}
	for _, p := range papers {
		if err := s.registry.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("delete paper %s: %w", p.ID, err)
		}
	}

	logger.Info("Collection %s reset, %d papers cleared", s.collection, len(papers))
	return nil
}

// Runs lists recent ingestion runs, newest first.
func (s *PaperService) Runs(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if s.runStore == nil {
		return nil, nil
	}
	return s.runStore.Recent(ctx, limit)
}
