package driving

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// QueryService answers questions over the indexed papers.
type QueryService interface {
	// Ask runs the full answer protocol: input guardrail, retrieval,
	// generation, output guardrail, citation assembly. Every outcome,
	// including blocks and failures, is a structured Answer.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
}
