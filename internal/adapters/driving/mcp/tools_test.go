package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

func TestServer_handleAskQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		mockQuery := &mockQueryService{
			answer: &domain.Answer{
				Success: true,
				Text:    "Attention weighs token pairs directly.",
				Sources: []domain.Source{{
					PaperID: "1706.03762",
					Title:   "Attention Is All You Need",
					Authors: "A. Vaswani, N. Shazeer, N. Parmar",
				}},
			},
		}

		server, err := NewServer(&Ports{Query: mockQuery})
		require.NoError(t, err)

		input := AskInput{Question: "what is attention", TopK: 8, PaperID: "1706.03762"}
		_, output, err := server.handleAskQuestion(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, output.Success)
		assert.Equal(t, "Attention weighs token pairs directly.", output.Answer)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "1706.03762", output.Sources[0].PaperID)
		assert.Equal(t, 8, mockQuery.lastOpts.TopK)
		require.NotNil(t, mockQuery.lastOpts.Filter)
		assert.Equal(t, "1706.03762", mockQuery.lastOpts.Filter.PaperID)
	})

	t.Run("blocked question surfaces message and error id", func(t *testing.T) {
		mockQuery := &mockQueryService{
			answer: &domain.Answer{
				Success: false,
				Message: "That question is outside the scope of this collection.",
				ErrorID: "12f9c0d8",
			},
		}

		server, err := NewServer(&Ports{Query: mockQuery})
		require.NoError(t, err)

		_, output, err := server.handleAskQuestion(ctx, nil, AskInput{Question: "rm -rf /"})

		require.NoError(t, err)
		assert.False(t, output.Success)
		assert.Empty(t, output.Answer)
		assert.Equal(t, "12f9c0d8", output.ErrorID)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mockQuery := &mockQueryService{err: errors.New("store unreachable")}

		server, err := NewServer(&Ports{Query: mockQuery})
		require.NoError(t, err)

		_, _, err = server.handleAskQuestion(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store unreachable")
	})
}

func TestServer_handleSearchPapers(t *testing.T) {
	ctx := context.Background()

	t.Run("returns papers", func(t *testing.T) {
		mockPapers := &mockPaperService{
			papers: []domain.Paper{{
				ID:        "1706.03762",
				Title:     "Attention Is All You Need",
				Authors:   []string{"A. Vaswani", "N. Shazeer", "N. Parmar", "J. Uszkoreit"},
				Published: "2017-06-12",
				SourceURL: "https://arxiv.org/abs/1706.03762",
			}},
		}

		server, err := NewServer(&Ports{Query: &mockQueryService{}, Papers: mockPapers})
		require.NoError(t, err)

		_, output, err := server.handleSearchPapers(ctx, nil, SearchPapersInput{Query: "attention"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Papers, 1)
		assert.Equal(t, "1706.03762", output.Papers[0].ID)
		assert.Equal(t, "A. Vaswani, N. Shazeer, N. Parmar", output.Papers[0].Authors)
	})

	t.Run("missing paper service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchPapers(ctx, nil, SearchPapersInput{Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "paper service not available")
	})
}

func TestServer_handleIngestPapers(t *testing.T) {
	ctx := context.Background()

	batch := &domain.BatchResult{}
	batch.Add(domain.IngestResult{PaperID: "1706.03762", Status: domain.IngestSucceeded, ChunkCount: 12})
	batch.Add(domain.IngestResult{
		PaperID: "2301.00001",
		Status:  domain.IngestFailed,
		Stage:   domain.StageFetch,
		Err:     errors.New("connection reset"),
	})

	t.Run("ingests by query", func(t *testing.T) {
		mockIngest := &mockIngestService{batch: batch}

		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: mockIngest})
		require.NoError(t, err)

		input := IngestInput{Query: "quantum computing", Max: 3}
		_, output, err := server.handleIngestPapers(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "quantum computing", mockIngest.lastQuery)
		assert.Equal(t, 3, mockIngest.lastMax)
		assert.Equal(t, 2, output.Total)
		assert.Equal(t, 1, output.Succeeded)
		assert.Equal(t, 1, output.Failed)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "success", output.Results[0].Status)
		assert.Equal(t, 12, output.Results[0].Chunks)
		assert.Equal(t, "fetch", output.Results[1].Stage)
		assert.Equal(t, "connection reset", output.Results[1].Error)
		assert.True(t, output.Results[1].Retryable)
	})

	t.Run("ingests by ids", func(t *testing.T) {
		mockIngest := &mockIngestService{batch: &domain.BatchResult{}}

		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: mockIngest})
		require.NoError(t, err)

		input := IngestInput{IDs: []string{"1706.03762"}}
		_, _, err = server.handleIngestPapers(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, []string{"1706.03762"}, mockIngest.lastIDs)
	})

	t.Run("query and ids together are rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: &mockIngestService{}})
		require.NoError(t, err)

		input := IngestInput{Query: "q", IDs: []string{"id"}}
		_, _, err = server.handleIngestPapers(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not both")
	})

	t.Run("missing selection is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: &mockIngestService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngestPapers(ctx, nil, IngestInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "provide a query or ids")
	})

	t.Run("missing ingest service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngestPapers(ctx, nil, IngestInput{Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ingest service not available")
	})
}

func TestServer_handleCollectionStats(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats", func(t *testing.T) {
		mockPapers := &mockPaperService{
			stats: &driving.PipelineStats{
				PapersProcessed: 3,
				ChunksIndexed:   42,
				Collection:      "papers",
			},
		}

		server, err := NewServer(&Ports{Query: &mockQueryService{}, Papers: mockPapers})
		require.NoError(t, err)

		_, output, err := server.handleCollectionStats(ctx, nil, StatsInput{})

		require.NoError(t, err)
		assert.Equal(t, 3, output.Papers)
		assert.Equal(t, 42, output.Chunks)
		assert.Equal(t, "papers", output.Collection)
	})

	t.Run("missing paper service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, _, err = server.handleCollectionStats(ctx, nil, StatsInput{})

		require.Error(t, err)
	})
}
