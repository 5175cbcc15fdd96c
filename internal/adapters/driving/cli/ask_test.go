package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_SuccessfulAnswer(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "What is a transformer?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "attention")
	assert.Contains(t, buf.String(), "Sources:")
	assert.Contains(t, buf.String(), "Attention Is All You Need")
	assert.Contains(t, buf.String(), "A. Vaswani, N. Shazeer, N. Parmar")
}

func TestAskCmd_PassesOptions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockQueryService{}
	queryService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "-k", "8", "--paper", "1706.03762", "What is attention?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askTopK = 0
		askPaperID = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "What is attention?", mock.lastQuestion)
	assert.Equal(t, 8, mock.lastOpts.TopK)
	assert.NotNil(t, mock.lastOpts.Filter)
	assert.Equal(t, "1706.03762", mock.lastOpts.Filter.PaperID)
}

func TestAskCmd_BlockedQuestionShowsMessage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	queryService = &mockQueryService{answer: &domain.Answer{
		Success: false,
		Message: "I can only answer questions related to the scientific papers in my collection.",
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "scientific papers in my collection")
	assert.NotContains(t, buf.String(), "Sources:")
}

func TestAskCmd_GenerationFailureShowsErrorID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	queryService = &mockQueryService{answer: &domain.Answer{
		Success: false,
		Message: "Answer generation failed (provider anthropic). Please try again or switch providers.",
		ErrorID: "12f9c0d8-0000-0000-0000-000000000000",
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "generation failed")
	assert.Contains(t, buf.String(), "error id: 12f9c0d8")
}

func TestAskCmd_WarningShown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	queryService = &mockQueryService{answer: &domain.Answer{
		Success: true,
		Text:    "Probably 42.",
		Warning: "This answer may contain information not found in the source papers.",
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Probably 42.")
	assert.Contains(t, buf.String(), "Warning:")
}

func TestAskCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--json", "What is a transformer?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"Success\": true")
	assert.Contains(t, buf.String(), "\"Sources\"")
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	oldService := queryService
	queryService = nil
	defer func() {
		queryService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query service not configured")
}

func TestAskCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	queryService = &mockQueryService{err: errMockService}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ask failed")
}
