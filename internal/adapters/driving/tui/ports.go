// Package tui provides the interactive chat interface over the indexed
// paper collection. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions over the indexed papers.
	Query driving.QueryService

	// Papers manages the paper catalogue.
	Papers driving.PaperService

	// Ingest runs the ingestion pipeline for /ingest commands.
	Ingest driving.IngestOrchestrator
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Papers == nil {
		return ErrMissingPaperService
	}
	// Ingest is optional; the chat reports when it is absent.
	return nil
}
