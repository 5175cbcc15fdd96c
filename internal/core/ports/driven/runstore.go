package driven

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// RunStore persists ingestion run history.
type RunStore interface {
	// Save stores a completed run.
	Save(ctx context.Context, run domain.IngestRun) error

	// Recent returns the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
