package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the indexed papers"`
	TopK      int    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default 5, max 20)"`
	MaxTokens int    `json:"max_tokens,omitempty" jsonschema:"maximum answer length in tokens (0 = provider default)"`
	PaperID   string `json:"paper_id,omitempty" jsonschema:"restrict retrieval to one paper"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Success bool           `json:"success"`
	Answer  string         `json:"answer,omitempty"`
	Sources []SourceOutput `json:"sources,omitempty"`
	Warning string         `json:"warning,omitempty"`
	Message string         `json:"message,omitempty"`
	ErrorID string         `json:"error_id,omitempty"`
}

// SourceOutput is one cited paper.
type SourceOutput struct {
	PaperID   string `json:"paper_id"`
	Title     string `json:"title"`
	Authors   string `json:"authors,omitempty"`
	URL       string `json:"url,omitempty"`
	Published string `json:"published,omitempty"`
}

// SearchPapersInput is the input schema for the search_papers tool.
type SearchPapersInput struct {
	Query string `json:"query" jsonschema:"the search query to find papers at the source"`
	Max   int    `json:"max,omitempty" jsonschema:"maximum number of papers to return (default 10)"`
}

// SearchPapersOutput is the output schema for the search_papers tool.
type SearchPapersOutput struct {
	Papers []PaperOutput `json:"papers"`
	Count  int           `json:"count"`
}

// PaperOutput represents a single paper.
type PaperOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Authors   string `json:"authors,omitempty"`
	Published string `json:"published,omitempty"`
	URL       string `json:"url,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// IngestInput is the input schema for the ingest_papers tool.
type IngestInput struct {
	Query string   `json:"query,omitempty" jsonschema:"source query selecting papers to ingest"`
	IDs   []string `json:"ids,omitempty" jsonschema:"specific paper ids to ingest instead of a query"`
	Max   int      `json:"max,omitempty" jsonschema:"maximum papers to ingest for a query (default 5)"`
}

// IngestOutput is the output schema for the ingest_papers tool.
type IngestOutput struct {
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Results   []IngestResultOutput `json:"results"`
}

// IngestResultOutput is the outcome for one paper in a batch.
type IngestResultOutput struct {
	PaperID   string `json:"paper_id"`
	Status    string `json:"status"`
	Chunks    int    `json:"chunks,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// StatsInput is the (empty) input schema for the collection_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the collection_stats tool.
type StatsOutput struct {
	Papers     int    `json:"papers"`
	Chunks     int    `json:"chunks"`
	Collection string `json:"collection"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the indexed papers with citations",
	}, s.handleAskQuestion)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_papers",
		Description: "Search the paper source without ingesting anything",
	}, s.handleSearchPapers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_papers",
		Description: "Fetch, extract, chunk and index papers by query or id",
	}, s.handleIngestPapers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "collection_stats",
		Description: "Report how many papers and chunks are indexed",
	}, s.handleCollectionStats)
}

// handleAskQuestion handles the ask_question tool invocation.
func (s *Server) handleAskQuestion(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.AskOptions{
		TopK:      input.TopK,
		MaxTokens: input.MaxTokens,
	}
	if input.PaperID != "" {
		opts.Filter = &domain.QueryFilter{PaperID: input.PaperID}
	}

	answer, err := s.ports.Query.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Success: answer.Success,
		Answer:  answer.Text,
		Warning: answer.Warning,
		Message: answer.Message,
		ErrorID: answer.ErrorID,
	}
	for _, src := range answer.Sources {
		output.Sources = append(output.Sources, SourceOutput{
			PaperID:   src.PaperID,
			Title:     src.Title,
			Authors:   src.Authors,
			URL:       src.URL,
			Published: src.Published,
		})
	}

	return nil, output, nil
}

// handleSearchPapers handles the search_papers tool invocation.
func (s *Server) handleSearchPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPapersInput,
) (*mcp.CallToolResult, SearchPapersOutput, error) {
	if s.ports.Papers == nil {
		return nil, SearchPapersOutput{}, errors.New("paper service not available")
	}

	maxResults := input.Max
	if maxResults <= 0 {
		maxResults = 10
	}

	papers, err := s.ports.Papers.Search(ctx, input.Query, maxResults)
	if err != nil {
		return nil, SearchPapersOutput{}, err
	}

	output := SearchPapersOutput{
		Papers: make([]PaperOutput, len(papers)),
		Count:  len(papers),
	}
	for i, p := range papers {
		output.Papers[i] = paperOutput(p)
	}

	return nil, output, nil
}

// handleIngestPapers handles the ingest_papers tool invocation.
func (s *Server) handleIngestPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, errors.New("ingest service not available")
	}
	if input.Query != "" && len(input.IDs) > 0 {
		return nil, IngestOutput{}, errors.New("provide a query or ids, not both")
	}
	if input.Query == "" && len(input.IDs) == 0 {
		return nil, IngestOutput{}, errors.New("provide a query or ids")
	}

	var (
		batch *domain.BatchResult
		err   error
	)
	if len(input.IDs) > 0 {
		batch, err = s.ports.Ingest.ProcessIDs(ctx, input.IDs)
	} else {
		maxResults := input.Max
		if maxResults <= 0 {
			maxResults = 5
		}
		batch, err = s.ports.Ingest.ProcessQuery(ctx, input.Query, maxResults)
	}
	if err != nil {
		return nil, IngestOutput{}, err
	}

	output := IngestOutput{
		Total:     batch.Total,
		Succeeded: batch.Succeeded,
		Failed:    batch.Failed,
		Results:   make([]IngestResultOutput, len(batch.Results)),
	}
	for i, r := range batch.Results {
		out := IngestResultOutput{
			PaperID: r.PaperID,
			Status:  string(r.Status),
			Chunks:  r.ChunkCount,
			Stage:   string(r.Stage),
		}
		if r.Err != nil {
			out.Error = r.Err.Error()
			out.Retryable = r.Retryable()
		}
		output.Results[i] = out
	}

	return nil, output, nil
}

// handleCollectionStats handles the collection_stats tool invocation.
func (s *Server) handleCollectionStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	if s.ports.Papers == nil {
		return nil, StatsOutput{}, errors.New("paper service not available")
	}

	stats, err := s.ports.Papers.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		Papers:     stats.PapersProcessed,
		Chunks:     stats.ChunksIndexed,
		Collection: stats.Collection,
	}, nil
}

// paperOutput converts a domain paper to its tool representation.
func paperOutput(p domain.Paper) PaperOutput {
	return PaperOutput{
		ID:        p.ID,
		Title:     p.Title,
		Authors:   p.DisplayAuthors(),
		Published: p.Published,
		URL:       p.SourceURL,
		Summary:   p.Summary,
	}
}
