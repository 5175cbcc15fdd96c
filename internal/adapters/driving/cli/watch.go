package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
	"github.com/scirag-labs/scirag-cli/internal/sources/localdir"
)

// WatchFactory builds a directory source and an orchestrator bound to
// it. The root command's orchestrator is bound to the configured paper
// source, so watching a directory needs its own pipeline.
type WatchFactory func(dir string) (*localdir.Source, driving.IngestOrchestrator, error)

var watchFactory WatchFactory

// SetWatchFactory wires construction of directory-watch pipelines.
func SetWatchFactory(f WatchFactory) {
	watchFactory = f
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new papers",
	Long: `Watches a directory tree and ingests PDF, txt and md files as they
appear or change. File writes are debounced, so a paper is ingested
once its copy completes. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFactory == nil {
		return errors.New("watch not configured")
	}

	source, orchestrator, err := watchFactory(args[0])
	if err != nil {
		return fmt.Errorf("watch setup failed: %w", err)
	}
	defer source.Close() //nolint:errcheck // Close on shutdown

	papers, err := source.Watch(cmd.Context())
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Watching %s for papers (Ctrl+C to stop)...\n", source.Root())

	for paper := range papers {
		batch, err := orchestrator.ProcessPapers(cmd.Context(), []domain.Paper{paper})
		if err != nil {
			cmd.Printf("  [fail] %s: %v\n", paper.ID, err)
			continue
		}
		for _, r := range batch.Results {
			if r.Status == domain.IngestSucceeded {
				cmd.Printf("  [ok]   %s (%d chunks)\n", r.PaperID, r.ChunkCount)
			} else {
				cmd.Printf("  [fail] %s at %s: %v\n", r.PaperID, r.Stage, r.Err)
			}
		}
	}

	return nil
}
