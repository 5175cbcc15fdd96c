package domain

import "time"

// IngestRun records one batch ingestion for history and diagnostics.
type IngestRun struct {
	// ID is the unique run identifier.
	ID string

	// Query is the source query or id list that selected the papers.
	Query string

	// Source names the paper source used (e.g. "arxiv", "localdir").
	Source string

	// Total is the number of papers attempted.
	Total int

	// Succeeded is the number fully indexed.
	Succeeded int

	// Failed is the number that failed.
	Failed int

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time
}

// Duration returns the wall-clock time the run took.
func (r IngestRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
