package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runDurationPrecision keeps run durations readable in listings.
const runDurationPrecision = 10 * time.Millisecond

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE:  runStats,
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Long:  `Lists recent ingestion runs, newest first.`,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum runs to show")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(runsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	stats, err := paperService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	cmd.Println("Collection Statistics")
	cmd.Println("=====================")
	cmd.Printf("  Collection:       %s\n", stats.Collection)
	cmd.Printf("  Papers processed: %d\n", stats.PapersProcessed)
	cmd.Printf("  Chunks indexed:   %d\n", stats.ChunksIndexed)
	return nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	runs, err := paperService.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No ingestion runs recorded.")
		return nil
	}

	cmd.Println("Recent runs:")
	cmd.Println()
	for _, run := range runs {
		query := run.Query
		if query == "" {
			query = "(direct)"
		}
		cmd.Printf("  %s  %s %q\n", run.StartedAt.Format("2006-01-02 15:04"), run.Source, query)
		cmd.Printf("      %d ok, %d failed of %d in %s\n",
			run.Succeeded, run.Failed, run.Total, run.Duration().Round(runDurationPrecision))
	}
	return nil
}
