package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

var (
	searchMax  int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the paper source",
	Long: `Searches the configured paper source (arXiv by default) and lists
matching papers without ingesting them. Use the ids with 'scirag ingest --ids'
to ingest specific papers.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchMax, "max", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if paperService == nil {
		return errors.New("paper service not configured")
	}

	papers, err := paperService.Search(cmd.Context(), query, searchMax)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputPapersJSON(cmd, papers)
	}

	return outputPapersTable(cmd, papers)
}

func outputPapersJSON(cmd *cobra.Command, papers []domain.Paper) error {
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal papers: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputPapersTable(cmd *cobra.Command, papers []domain.Paper) error {
	if len(papers) == 0 {
		cmd.Println("No papers found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range papers {
		cmd.Printf("  [%d] %s\n", i+1, papers[i].Title)
		cmd.Printf("      ID: %s\n", papers[i].ID)
		if authors := papers[i].DisplayAuthors(); authors != "" {
			cmd.Printf("      Authors: %s\n", authors)
		}
		if papers[i].Published != "" {
			cmd.Printf("      Published: %s\n", papers[i].Published)
		}
		cmd.Println()
	}

	return nil
}
