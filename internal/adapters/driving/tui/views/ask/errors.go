package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoQueryService indicates that no query service was provided.
	ErrNoQueryService = errors.New("query service is required")

	// ErrNoIngestService indicates /ingest was used without an ingest service.
	ErrNoIngestService = errors.New("ingest service is not available")
)
