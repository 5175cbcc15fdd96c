package mcp

import (
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions over the indexed papers.
	Query driving.QueryService

	// Ingest runs the ingestion pipeline.
	Ingest driving.IngestOrchestrator

	// Papers manages the paper catalogue.
	Papers driving.PaperService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Ingest and Papers are optional; their tools report the gap.
	return nil
}
