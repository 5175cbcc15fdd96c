package ask

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/messages"
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// MockQueryService is a mock implementation of driving.QueryService.
type MockQueryService struct {
	Answer       *domain.Answer
	Error        error
	LastQuestion string
}

func (m *MockQueryService) Ask(
	_ context.Context,
	question string,
	_ domain.AskOptions,
) (*domain.Answer, error) {
	m.LastQuestion = question
	return m.Answer, m.Error
}

// MockIngestService is a mock implementation of driving.IngestOrchestrator.
type MockIngestService struct {
	Batch     *domain.BatchResult
	Error     error
	LastQuery string
	LastMax   int
}

func (m *MockIngestService) ProcessQuery(
	_ context.Context,
	query string,
	maxResults int,
) (*domain.BatchResult, error) {
	m.LastQuery = query
	m.LastMax = maxResults
	return m.Batch, m.Error
}

func (m *MockIngestService) ProcessIDs(_ context.Context, _ []string) (*domain.BatchResult, error) {
	return m.Batch, m.Error
}

func (m *MockIngestService) ProcessPapers(_ context.Context, _ []domain.Paper) (*domain.BatchResult, error) {
	return m.Batch, m.Error
}

func newTestView(query *MockQueryService, ingest *MockIngestService) *View {
	v := NewView(nil, nil, query, ingest)
	v.SetDimensions(80, 24)
	return v
}

func typeString(v *View, s string) *View {
	for _, r := range s {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &MockQueryService{}, nil)

	require.NotNil(t, v)
	assert.True(t, v.InputFocused())
	assert.Nil(t, v.Answer())
}

func TestView_SubmitQuestion(t *testing.T) {
	mockQuery := &MockQueryService{
		Answer: &domain.Answer{Success: true, Text: "the answer"},
	}
	v := newTestView(mockQuery, nil)

	v = typeString(v, "what is attention")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.False(t, v.InputFocused())

	msg := cmd()
	received, ok := msg.(messages.AnswerReceived)
	require.True(t, ok)
	assert.Equal(t, "what is attention", received.Question)
	assert.Equal(t, "what is attention", mockQuery.LastQuestion)
	assert.True(t, received.Answer.Success)
}

func TestView_EmptySubmitIsIgnored(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_AnswerReceived(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)
	v.question = "q"

	answer := &domain.Answer{
		Success: true,
		Text:    "Attention weighs token pairs.",
		Sources: []domain.Source{{
			PaperID:   "1706.03762",
			Title:     "Attention Is All You Need",
			Authors:   "A. Vaswani, N. Shazeer, N. Parmar",
			Published: "2017-06-12",
		}},
		Warning: "Verify against the cited sources.",
	}
	v, _ = v.Update(messages.AnswerReceived{Question: "q", Answer: answer})

	view := v.View()
	assert.Contains(t, view, "Attention weighs token pairs.")
	assert.Contains(t, view, "[1] Attention Is All You Need")
	assert.Contains(t, view, "A. Vaswani")
	assert.Contains(t, view, "Warning: Verify against the cited sources.")
}

func TestView_BlockedAnswer(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)
	v.question = "q"

	answer := &domain.Answer{
		Success: false,
		Message: "That question is outside the scope of this collection.",
		ErrorID: "12f9c0d8",
	}
	v, _ = v.Update(messages.AnswerReceived{Question: "q", Answer: answer})

	view := v.View()
	assert.Contains(t, view, "outside the scope")
	assert.Contains(t, view, "error id: 12f9c0d8")
	assert.NotContains(t, view, "Sources:")
}

func TestView_AnswerError(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)

	testErr := errors.New("ask failed")
	v, _ = v.Update(messages.AnswerReceived{Err: testErr})

	assert.Equal(t, testErr, v.Err())
	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "ask failed")
}

func TestView_IngestCommand(t *testing.T) {
	batch := &domain.BatchResult{}
	batch.Add(domain.IngestResult{PaperID: "1706.03762", Status: domain.IngestSucceeded, ChunkCount: 12})
	mockIngest := &MockIngestService{Batch: batch}

	v := newTestView(&MockQueryService{}, mockIngest)

	v = typeString(v, "/ingest quantum computing")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	completed, ok := msg.(messages.IngestCompleted)
	require.True(t, ok)
	assert.Equal(t, "quantum computing", completed.Query)
	assert.Equal(t, "quantum computing", mockIngest.LastQuery)
	assert.Equal(t, 5, mockIngest.LastMax)

	v, _ = v.Update(completed)
	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "1 succeeded, 0 failed")
}

func TestView_IngestCommandWithoutQuery(t *testing.T) {
	v := newTestView(&MockQueryService{}, &MockIngestService{})

	v = typeString(v, "/ingest")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "usage: /ingest <query>")
}

func TestView_IngestWithoutService(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)

	v = typeString(v, "/ingest attention")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	occurred, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, occurred.Err, ErrNoIngestService)
}

func TestView_TabSwitchesToPapers(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)

	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewPapers, changed.View)
}

func TestView_NewQuestionAfterAnswer(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)
	v, _ = v.Update(messages.AnswerReceived{
		Question: "q",
		Answer:   &domain.Answer{Success: true, Text: "answer"},
	})
	assert.False(t, v.InputFocused())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.True(t, v.InputFocused())
}

func TestView_EscResets(t *testing.T) {
	v := newTestView(&MockQueryService{}, nil)
	v, _ = v.Update(messages.AnswerReceived{
		Question: "q",
		Answer:   &domain.Answer{Success: true, Text: "answer"},
	})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, v.InputFocused())
	assert.Nil(t, v.Answer())
	assert.Empty(t, v.Question())
}

func TestView_NotReady(t *testing.T) {
	v := NewView(nil, nil, &MockQueryService{}, nil)

	assert.Equal(t, "Initialising...", v.View())
}
