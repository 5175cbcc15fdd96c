// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// AskRequested is a command to answer a question.
type AskRequested struct {
	Question string
	Options  domain.AskOptions
}

// AnswerReceived carries the answer protocol outcome back to the model.
// Guardrail blocks and generation failures arrive as non-success
// answers, not as Err.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// IngestCompleted carries the outcome of a /ingest command.
type IngestCompleted struct {
	Query string
	Batch *domain.BatchResult
	Err   error
}

// PapersLoaded carries the ingested paper list from the service.
type PapersLoaded struct {
	Papers []domain.Paper
	Err    error
}

// PaperSelected signals a paper was chosen in the browser.
type PaperSelected struct {
	Paper domain.Paper
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAsk is the chat view with question input and answers.
	ViewAsk ViewType = iota
	// ViewPapers is the ingested paper browser.
	ViewPapers
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAsk:
		return "ask"
	case ViewPapers:
		return "papers"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
