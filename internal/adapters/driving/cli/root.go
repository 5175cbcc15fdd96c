// Package cli implements the scirag command-line interface using cobra.
// Commands talk to the core exclusively through driving ports; wiring
// happens in main via InitServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
	"github.com/scirag-labs/scirag-cli/internal/logger"
)

// version is stamped by the build; overridden via SetVersion.
var version = "dev"

// Services the commands depend on. Nil services produce a clear error
// instead of a panic, so partial wiring (tests, future commands) stays
// safe.
var (
	ingestService   driving.IngestOrchestrator
	queryService    driving.QueryService
	paperService    driving.PaperService
	settingsService driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scirag",
	Short: "Ask questions about scientific papers from your terminal",
	Long: `SciRAG ingests scientific papers into a local vector collection and
answers questions about them with cited sources.

Typical session:
  scirag ingest "quantum error correction" --max 5
  scirag ask "What are the main approaches to quantum error correction?"`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles the driving ports the commands use.
type Services struct {
	Ingest   driving.IngestOrchestrator
	Query    driving.QueryService
	Papers   driving.PaperService
	Settings driving.SettingsService
}

// InitServices wires the command layer to the core services.
// Must be called before Execute.
func InitServices(s Services) {
	ingestService = s.Ingest
	queryService = s.Query
	paperService = s.Papers
	settingsService = s.Settings
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
