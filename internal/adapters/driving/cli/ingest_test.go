package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [query]", ingestCmd.Use)
}

func TestIngestCmd_WithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockIngestService{}
	ingestService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "quantum error correction", "--max", "3"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestMax = 5
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "quantum error correction", mock.lastQuery)
	assert.Equal(t, 3, mock.lastMax)
	assert.Contains(t, buf.String(), "[ok]")
	assert.Contains(t, buf.String(), "1 succeeded, 0 failed (of 1)")
}

func TestIngestCmd_WithIDs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockIngestService{}
	ingestService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--ids", "1706.03762,1810.04805"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestIDs = nil
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []string{"1706.03762", "1810.04805"}, mock.lastIDs)
}

func TestIngestCmd_QueryAndIDsRejected(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "some query", "--ids", "1706.03762"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestIDs = nil
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestIngestCmd_NoSelectionRejected(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provide a query or --ids")
}

func TestIngestCmd_ReportsFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	batch := &domain.BatchResult{}
	batch.Add(domain.IngestResult{
		PaperID:    "good",
		Status:     domain.IngestSucceeded,
		ChunkCount: 4,
	})
	batch.Add(domain.IngestResult{
		PaperID: "bad",
		Status:  domain.IngestFailed,
		Stage:   domain.StageFetch,
		Err:     errors.New("connection reset"),
	})
	ingestService = &mockIngestService{batch: batch}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[ok]   good (4 chunks)")
	assert.Contains(t, buf.String(), "[fail] bad at fetch")
	assert.Contains(t, buf.String(), "transient")
	assert.Contains(t, buf.String(), "1 succeeded, 1 failed (of 2)")
}

func TestIngestCmd_TerminalFailureNotMarkedRetryable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	batch := &domain.BatchResult{}
	batch.Add(domain.IngestResult{
		PaperID: "huge",
		Status:  domain.IngestFailed,
		Stage:   domain.StageFetch,
		Err:     domain.ErrPayloadTooLarge,
	})
	ingestService = &mockIngestService{batch: batch}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[fail] huge")
	assert.NotContains(t, buf.String(), "transient")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	oldService := ingestService
	ingestService = nil
	defer func() {
		ingestService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}
