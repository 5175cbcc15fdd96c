package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/messages"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/styles"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/views/ask"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/views/papers"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// askView is the chat view with input and answers.
	askView *ask.View

	// papersView is the ingested paper browser.
	papersView *papers.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	askView := ask.NewView(s, nil, ports.Query, ports.Ingest)
	papersView := papers.NewView(s, ports.Papers)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		askView:     askView,
		papersView:  papersView,
		currentView: messages.ViewAsk, // Start in the chat
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	a.papersView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("scirag - Paper Chat"),
		a.askView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.askView.SetDimensions(msg.Width, msg.Height)
		a.papersView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
			a.err = a.askView.Err()
			return a, cmd

		case messages.ViewPapers:
			a.papersView, cmd = a.papersView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes back to the chat
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewAsk
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.AnswerReceived, messages.IngestCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.PapersLoaded:
		a.papersView, cmd = a.papersView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewPapers {
			return a, a.papersView.Init()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
		case messages.ViewPapers:
			a.papersView, cmd = a.papersView.Update(msg)
		case messages.ViewHelp:
			// Help view doesn't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewPapers:
		a.papersView, cmd = a.papersView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewPapers:
		return a.papersView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.askView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Chat:
  (type)        Enter a question
  /ingest <q>   Search the source and index matching papers
  enter         Ask
  esc           Clear the current answer
  n             New question (after an answer)
  tab           Paper browser

Papers:
  j/k, ↑/↓      Navigate papers
  enter         Toggle abstract
  r             Refresh list
  tab/esc       Back to chat
  q             Quit

Global:
  ctrl+c        Quit

[esc] back to chat`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Also size the views so they render properly
	a.askView.SetDimensions(width, height)
	a.papersView.SetDimensions(width, height)
}
