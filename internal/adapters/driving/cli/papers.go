package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var papersJSON bool

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List ingested papers",
	Long:  `Lists the papers in the collection, newest first.`,
	RunE:  runPapersList,
}

var papersShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one ingested paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

func init() {
	papersCmd.Flags().BoolVar(&papersJSON, "json", false, "output papers as JSON")
	papersCmd.AddCommand(papersShowCmd)
	rootCmd.AddCommand(papersCmd)
}

func runPapersList(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	papers, err := paperService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list papers: %w", err)
	}

	if papersJSON {
		data, err := json.MarshalIndent(papers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal papers: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(papers) == 0 {
		cmd.Println("No papers ingested yet. Run 'scirag ingest' first.")
		return nil
	}

	cmd.Printf("%d papers:\n\n", len(papers))
	for i := range papers {
		cmd.Printf("  %s\n", papers[i].Title)
		cmd.Printf("      ID: %s\n", papers[i].ID)
		if authors := papers[i].DisplayAuthors(); authors != "" {
			cmd.Printf("      Authors: %s\n", authors)
		}
		if !papers[i].IngestedAt.IsZero() {
			cmd.Printf("      Ingested: %s\n", papers[i].IngestedAt.Format("2006-01-02 15:04"))
		}
		cmd.Println()
	}
	return nil
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	paper, err := paperService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get paper: %w", err)
	}

	cmd.Printf("Title:     %s\n", paper.Title)
	cmd.Printf("ID:        %s\n", paper.ID)
	if authors := paper.DisplayAuthors(); authors != "" {
		cmd.Printf("Authors:   %s\n", authors)
	}
	if paper.Published != "" {
		cmd.Printf("Published: %s\n", paper.Published)
	}
	if paper.SourceURL != "" {
		cmd.Printf("URL:       %s\n", paper.SourceURL)
	}
	if len(paper.Categories) > 0 {
		cmd.Printf("Categories: %v\n", paper.Categories)
	}
	if paper.Summary != "" {
		cmd.Printf("\n%s\n", paper.Summary)
	}
	return nil
}
