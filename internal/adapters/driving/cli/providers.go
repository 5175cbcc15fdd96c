package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List generation providers",
	Long: `Lists the supported generation providers, their default models and
whether a credential is available for each. The list is static; no
provider is contacted.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	models := domain.DefaultGenModels()

	cmd.Println("Generation providers:")
	cmd.Println()
	for _, p := range domain.AllGenProviders() {
		marker := " "
		if p == settings.Provider {
			marker = "*"
		}

		status := "ready (local)"
		if p.RequiresAPIKey() {
			if settingsService.APIKey(p) != "" {
				status = "key configured"
			} else {
				status = fmt.Sprintf("no key (set %s)", p.EnvKeyName())
			}
		}

		cmd.Printf("  %s %-10s %-28s %s\n", marker, p, models[p], status)
	}
	cmd.Println()
	cmd.Println("* = active provider. Switch with 'scirag settings provider'.")
	return nil
}
