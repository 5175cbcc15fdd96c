package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch the interactive terminal UI for asking questions about your
ingested papers, with cited sources and a paper browser.

Controls:
  Enter    - Ask / Select
  Tab      - Switch between chat and papers
  ↑/k, ↓/j - Scroll
  Esc      - Back / Cancel
  q        - Quit (from the papers view)`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps stack traces visible outside the alt screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Query:  queryService,
		Papers: paperService,
		Ingest: ingestService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	return nil
}
