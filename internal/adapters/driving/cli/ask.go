package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

var (
	askTopK      int
	askMaxTokens int
	askPaperID   string
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested papers",
	Long: `Answers a question using retrieval-augmented generation over the
ingested papers. The answer cites the papers it draws on.

Unsafe questions are refused before any retrieval happens. Answers that
look ungrounded in the retrieved excerpts carry a warning but are still
shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "chunks to retrieve (0 = configured default)")
	askCmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "answer length bound (0 = configured default)")
	askCmd.Flags().StringVar(&askPaperID, "paper", "", "restrict retrieval to one paper id")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	opts := domain.AskOptions{
		TopK:      askTopK,
		MaxTokens: askMaxTokens,
	}
	if askPaperID != "" {
		opts.Filter = &domain.QueryFilter{PaperID: askPaperID}
	}

	answer, err := queryService.Ask(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputAnswer(cmd, answer)
	return nil
}

func outputAnswer(cmd *cobra.Command, answer *domain.Answer) {
	if !answer.Success {
		cmd.Println(answer.Message)
		if answer.ErrorID != "" {
			cmd.Printf("(error id: %s)\n", answer.ErrorID)
		}
		return
	}

	cmd.Println(answer.Text)

	if answer.Warning != "" {
		cmd.Println()
		cmd.Printf("Warning: %s\n", answer.Warning)
	}

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			cmd.Printf("  [%d] %s", i+1, src.Title)
			if src.Authors != "" {
				cmd.Printf(" - %s", src.Authors)
			}
			if src.Published != "" {
				cmd.Printf(" (%s)", src.Published)
			}
			cmd.Println()
			if src.URL != "" {
				cmd.Printf("      %s\n", src.URL)
			}
		}
	}
}
