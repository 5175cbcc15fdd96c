// Package papers provides the ingested paper browser for the TUI.
package papers

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/messages"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui/styles"
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

// View is the ingested paper browser.
type View struct {
	styles       *styles.Styles
	paperService driving.PaperService
	ctx          context.Context

	papers       []domain.Paper
	selected     int
	showAbstract bool
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new paper browser view.
func NewView(s *styles.Styles, paperService driving.PaperService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:       s,
		paperService: paperService,
		ctx:          context.Background(),
		papers:       []domain.Paper{},
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the paper list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadPapers()
}

// loadPapers returns a command that loads the ingested papers.
func (v *View) loadPapers() tea.Cmd {
	return func() tea.Msg {
		if v.paperService == nil {
			return messages.PapersLoaded{Err: fmt.Errorf("paper service not available")}
		}

		papers, err := v.paperService.List(v.ctx)
		return messages.PapersLoaded{Papers: papers, Err: err}
	}
}

// Update handles messages for the paper browser.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PapersLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.papers = msg.Papers
			v.err = nil
			if v.selected >= len(v.papers) {
				v.selected = 0
				v.scrollOffset = 0
			}
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
		v.showAbstract = false
	case "down", "j":
		if v.selected < len(v.papers)-1 {
			v.selected++
			v.adjustScroll()
		}
		v.showAbstract = false
	case "enter":
		if len(v.papers) > 0 {
			v.showAbstract = !v.showAbstract
		}
	case "r":
		v.loading = true
		return v, v.loadPapers()
	case "esc", "tab":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewAsk}
		}
	case "q":
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	return v, nil
}

// adjustScroll keeps the selected paper visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount returns the number of papers that fit on screen.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the paper browser.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Papers (%d)", len(v.papers))
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading papers..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.papers) == 0 {
		b.WriteString(v.styles.Muted.Render("No papers ingested yet. Use /ingest in the chat."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleItemCount()
	end := v.scrollOffset + visible
	if end > len(v.papers) {
		end = len(v.papers)
	}

	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderPaper(i))
		b.WriteString("\n")
	}

	if v.showAbstract && v.selected < len(v.papers) {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Abstract"))
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(v.papers[v.selected].Summary))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderPaper renders one list row.
func (v *View) renderPaper(i int) string {
	p := v.papers[i]
	line := fmt.Sprintf("%s  %s", p.ID, p.Title)
	if p.Published != "" {
		line += fmt.Sprintf(" (%s)", p.Published)
	}

	if i == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.styles.Normal.Render("  " + line)
}

// renderHelp renders the key hints.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("↑/k ↓/j: navigate | enter: abstract | r: refresh | tab/esc: chat | q: quit")
}

// Papers returns the loaded paper list.
func (v *View) Papers() []domain.Paper {
	return v.papers
}

// Selected returns the selected paper index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedPaper returns the selected paper, if any.
func (v *View) SelectedPaper() *domain.Paper {
	if v.selected < 0 || v.selected >= len(v.papers) {
		return nil
	}
	return &v.papers[v.selected]
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}
