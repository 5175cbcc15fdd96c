package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory ingestion run history.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.IngestRun
}

// NewRunStore creates an empty in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Save stores a completed run.
func (s *RunStore) Save(_ context.Context, run domain.IngestRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *RunStore) Recent(_ context.Context, limit int) ([]domain.IngestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.IngestRun, len(s.runs))
	copy(runs, s.runs)
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}
