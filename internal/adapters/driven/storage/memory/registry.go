package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Ensure PaperRegistry implements the interface.
var _ driven.PaperRegistry = (*PaperRegistry)(nil)

// PaperRegistry is an in-memory paper metadata registry. Writes are
// keyed by paper id under one lock, giving the last-writer-wins
// overwrite semantics re-ingestion relies on. Contents do not survive
// a restart; the vector store holds the durable side of ingestion.
type PaperRegistry struct {
	mu     sync.RWMutex
	papers map[string]domain.Paper
}

// NewPaperRegistry creates an empty in-memory registry.
func NewPaperRegistry() *PaperRegistry {
	return &PaperRegistry{
		papers: make(map[string]domain.Paper),
	}
}

// Put stores or replaces the paper keyed by its id.
func (r *PaperRegistry) Put(_ context.Context, paper domain.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.papers[paper.ID] = paper
	return nil
}

// Get retrieves a paper by id.
func (r *PaperRegistry) Get(_ context.Context, id string) (domain.Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paper, ok := r.papers[id]
	if !ok {
		return domain.Paper{}, domain.ErrNotFound
	}
	return paper, nil
}

// List returns all registered papers, most recently ingested first.
func (r *PaperRegistry) List(_ context.Context) ([]domain.Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	papers := make([]domain.Paper, 0, len(r.papers))
	for _, p := range r.papers {
		papers = append(papers, p)
	}
	sort.Slice(papers, func(i, j int) bool {
		if !papers[i].IngestedAt.Equal(papers[j].IngestedAt) {
			return papers[i].IngestedAt.After(papers[j].IngestedAt)
		}
		return papers[i].ID < papers[j].ID
	})
	return papers, nil
}

// Count returns the number of registered papers.
func (r *PaperRegistry) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.papers), nil
}

// Delete removes a paper by id. Unknown ids are a no-op.
func (r *PaperRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.papers, id)
	return nil
}

// Close releases resources (no-op for memory registry).
func (r *PaperRegistry) Close() error {
	return nil
}
