package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

var (
	ingestIDs []string
	ingestMax int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [query]",
	Short: "Ingest papers into the collection",
	Long: `Runs the ingestion pipeline: fetch, extract, chunk, index.

Papers are selected by a source query, or explicitly with --ids.
Each paper is processed independently; one paper failing never aborts
the rest of the batch. Re-ingesting a paper replaces its chunks.

Examples:
  scirag ingest "attention is all you need" --max 3
  scirag ingest --ids 1706.03762,1810.04805`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestIDs, "ids", nil, "comma-separated paper ids to ingest")
	ingestCmd.Flags().IntVarP(&ingestMax, "max", "n", 5, "maximum papers to ingest for a query")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var (
		batch *domain.BatchResult
		err   error
	)

	switch {
	case len(ingestIDs) > 0:
		if len(args) > 0 {
			return errors.New("provide a query or --ids, not both")
		}
		batch, err = ingestService.ProcessIDs(cmd.Context(), ingestIDs)
	case len(args) == 1:
		batch, err = ingestService.ProcessQuery(cmd.Context(), args[0], ingestMax)
	default:
		return errors.New("provide a query or --ids")
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	outputBatchResult(cmd, batch)
	return nil
}

func outputBatchResult(cmd *cobra.Command, batch *domain.BatchResult) {
	if batch.Total == 0 {
		cmd.Println("No papers matched.")
		return
	}

	cmd.Println("Ingestion complete:")
	cmd.Println()
	for _, r := range batch.Results {
		if r.Status == domain.IngestSucceeded {
			cmd.Printf("  [ok]   %s (%d chunks)\n", r.PaperID, r.ChunkCount)
			continue
		}
		cmd.Printf("  [fail] %s at %s: %v\n", r.PaperID, r.Stage, r.Err)
		if r.Retryable() {
			cmd.Printf("         (transient - retrying this paper may succeed)\n")
		}
	}
	cmd.Println()
	cmd.Printf("%d succeeded, %d failed (of %d)\n", batch.Succeeded, batch.Failed, batch.Total)
}
