// Package ask provides the chat view for the TUI: a question input,
// the generated answer with its cited sources, and a status bar.
package ask

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/components/input"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/components/status"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/keymap"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/messages"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/styles"
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

// ingestCommand is the slash command that triggers ingestion from chat.
const ingestCommand = "/ingest"

// View represents the chat view with input, answer display, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	statusbar *status.Bar

	queryService  driving.QueryService
	ingestService driving.IngestOrchestrator
	ctx           context.Context

	question string
	answer   *domain.Answer

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = reading the answer
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	queryService driving.QueryService,
	ingestService driving.IngestOrchestrator,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		statusbar:     status.NewBar(s, km),
		queryService:  queryService,
		ingestService: ingestService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswerReceived(msg)
		return v, nil

	case messages.IngestCompleted:
		v.handleIngestCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Tab switches to the paper browser from either mode
	if keymap.Matches(msg.String(), v.keymap.Papers) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPapers}
		}
	}

	// Enter in input mode submits the question or command
	if msg.Type == tea.KeyEnter && v.focusInput {
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			return v, nil
		}
		return v.submit(text)
	}

	// Input mode: esc clears a previous answer, other keys go to input
	if v.focusInput {
		if msg.Type == tea.KeyEsc {
			v.Reset()
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Answer mode
	switch {
	case msg.Type == tea.KeyEsc:
		v.Reset()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.NewQuestion):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	return v, nil
}

// submit routes the entered text to the answer protocol or, for
// /ingest, to the ingestion pipeline.
func (v *View) submit(text string) (*View, tea.Cmd) {
	if strings.HasPrefix(text, ingestCommand) {
		query := strings.TrimSpace(strings.TrimPrefix(text, ingestCommand))
		if query == "" {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage("usage: /ingest <query>")
			return v, nil
		}
		v.statusbar.SetState(status.StateIngesting)
		v.focusInput = false
		v.input.Blur()
		return v, v.performIngest(query)
	}

	v.question = text
	v.answer = nil
	v.statusbar.SetState(status.StateThinking)
	v.focusInput = false
	v.input.Blur()
	return v, v.performAsk(text)
}

// performAsk executes the answer protocol for a question.
func (v *View) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if v.queryService == nil {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}

		answer, err := v.queryService.Ask(v.ctx, question, domain.AskOptions{})
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// performIngest runs the ingestion pipeline for a /ingest command.
func (v *View) performIngest(query string) tea.Cmd {
	return func() tea.Msg {
		if v.ingestService == nil {
			return messages.ErrorOccurred{Err: ErrNoIngestService}
		}

		batch, err := v.ingestService.ProcessQuery(v.ctx, query, 5)
		return messages.IngestCompleted{Query: query, Batch: batch, Err: err}
	}
}

// handleAnswerReceived processes the answer protocol outcome.
func (v *View) handleAnswerReceived(msg messages.AnswerReceived) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.answer = msg.Answer
	v.statusbar.SetState(status.StateAnswered)
	if msg.Answer.Success {
		v.statusbar.SetMessage("")
		v.statusbar.SetSourceCount(len(msg.Answer.Sources))
	} else {
		v.statusbar.SetMessage(msg.Answer.Message)
		v.statusbar.SetSourceCount(0)
	}
}

// handleIngestCompleted processes the /ingest outcome.
func (v *View) handleIngestCompleted(msg messages.IngestCompleted) {
	v.focusInput = true
	v.input.SetValue("")
	v.input.Focus()

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf(
		"Ingested %q: %d succeeded, %d failed",
		msg.Query, msg.Batch.Succeeded, msg.Batch.Failed,
	))
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)

	header := v.styles.Title.Render("SciRAG")
	sections = append(sections, header, "")

	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.answer != nil {
		sections = append(sections, v.renderAnswer())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAnswer renders the answer, warning and cited sources.
func (v *View) renderAnswer() string {
	lines := make([]string, 0, 8+len(v.answer.Sources))

	lines = append(lines, v.styles.Subtitle.Render("You: ")+v.styles.Normal.Render(v.question), "")

	if !v.answer.Success {
		lines = append(lines, v.styles.Warning.Render(v.answer.Message))
		if v.answer.ErrorID != "" {
			lines = append(lines, v.styles.Muted.Render("error id: "+v.answer.ErrorID))
		}
		return strings.Join(lines, "\n")
	}

	lines = append(lines, v.styles.Answer.Render(v.answer.Text))

	if v.answer.Warning != "" {
		lines = append(lines, "", v.styles.Warning.Render("Warning: "+v.answer.Warning))
	}

	if len(v.answer.Sources) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Sources:"))
		for i, src := range v.answer.Sources {
			ref := fmt.Sprintf("[%d] %s", i+1, src.Title)
			if src.Authors != "" {
				ref += " - " + src.Authors
			}
			if src.Published != "" {
				ref += " (" + src.Published + ")"
			}
			lines = append(lines, v.styles.Citation.Render(ref))
		}
	}

	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the last asked question.
func (v *View) Question() string {
	return v.question
}

// Answer returns the last received answer.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.question = ""
	v.answer = nil
	v.err = nil
	v.statusbar.Clear()
}
