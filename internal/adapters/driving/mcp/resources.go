package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for SciRAG resources.
	uriScheme = "scirag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing ingested papers.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "papers",
		Name:        "papers",
		Description: "List of all ingested papers",
		MIMEType:    "application/json",
	}, s.handlePapersResource)

	// Template for a single paper's metadata and abstract.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "papers/{paperId}",
		Name:        "paper",
		Description: "Metadata and abstract of one ingested paper",
		MIMEType:    "application/json",
	}, s.handlePaperResource)
}

// handlePapersResource returns a list of all ingested papers.
func (s *Server) handlePapersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Papers == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	papers, err := s.ports.Papers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}

	infos := make([]PaperOutput, len(papers))
	for i, p := range papers {
		infos[i] = paperOutput(p)
		infos[i].Summary = "" // abstracts live on the per-paper resource
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling papers: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePaperResource returns metadata and abstract for one paper.
func (s *Server) handlePaperResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Papers == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract paperId from URI: scirag://papers/{paperId}
	paperID := extractPaperID(req.Params.URI)
	if paperID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	paper, err := s.ports.Papers.Get(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("getting paper: %w", err)
	}

	data, err := json.MarshalIndent(paperOutput(paper), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling paper: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPaperID extracts the paper ID from a URI like scirag://papers/{paperId}.
func extractPaperID(uri string) string {
	const prefix = uriScheme + "papers/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
