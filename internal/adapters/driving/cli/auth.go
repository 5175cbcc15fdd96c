package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider credentials",
	Long: `Store and inspect API keys for cloud generation providers.

Environment variables always win over stored keys, so CI and one-off
shells can override without touching the config file.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set [provider]",
	Short: "Store an API key for a provider",
	Long: `Prompts for an API key and stores it in the config file.

Example:
  scirag auth set anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential status per provider",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.GenProvider(args[0])
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q (see 'scirag providers')", args[0])
	}
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("provider %s is local and needs no key", provider)
	}

	cmd.Printf("Enter API key for %s: ", provider)
	key := readPassword()
	cmd.Println()
	if key == "" {
		return errors.New("no key entered")
	}

	if err := settingsService.SetAPIKey(provider, key); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	cmd.Printf("API key for %s stored.\n", provider)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Credential status:")
	cmd.Println()
	for _, p := range domain.AllGenProviders() {
		if !p.RequiresAPIKey() {
			cmd.Printf("  %-10s local, no key needed\n", p)
			continue
		}

		key := settingsService.APIKey(p)
		if key == "" {
			cmd.Printf("  %-10s not set (export %s or 'scirag auth set %s')\n", p, p.EnvKeyName(), p)
		} else {
			cmd.Printf("  %-10s %s\n", p, maskAPIKey(key))
		}
	}
	return nil
}
