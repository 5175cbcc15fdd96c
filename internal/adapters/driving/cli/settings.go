package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the generation provider, embedding provider,
vector backend and pipeline parameters.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider",
	Short: "Configure the generation provider",
	Long:  `Select the provider that generates answers and optionally override its model.`,
	RunE:  runSettingsProvider,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Select the embedding provider used by vector backends that embed
client-side (sqlite and memory). The chroma backend embeds server-side
and ignores this setting.`,
	RunE: runSettingsEmbedding,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Configure the vector backend",
	Long: `Select where chunks and embeddings are stored.

Available backends:
  sqlite - local database, no extra services (default)
  chroma - Chroma server over HTTP, server-side embeddings
  memory - in-process only, lost on exit`,
	RunE: runSettingsBackend,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Generation]")
	cmd.Printf("  Provider: %s\n", settings.Provider.Description())
	model := settings.Model
	if model == "" {
		model = domain.DefaultGenModels()[settings.Provider] + " (default)"
	}
	cmd.Printf("  Model: %s\n", model)
	if settings.Provider.RequiresAPIKey() {
		if key := settingsService.APIKey(settings.Provider); key != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(key))
		} else {
			cmd.Printf("  API Key: (not set - export %s or run 'scirag auth set %s')\n",
				settings.Provider.EnvKeyName(), settings.Provider)
		}
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding)
	embedModel := settings.EmbeddingModel
	if embedModel == "" {
		embedModel = domain.DefaultEmbedModels()[settings.Embedding] + " (default)"
	}
	cmd.Printf("  Model: %s\n", embedModel)
	cmd.Println()

	cmd.Println("[Vector Store]")
	cmd.Printf("  Backend: %s\n", settings.Backend)
	cmd.Printf("  Collection: %s\n", settings.Collection)
	cmd.Println()

	cmd.Println("[Ingestion]")
	cmd.Printf("  Chunk size: %d words (overlap %d)\n", settings.Ingest.ChunkSize, settings.Ingest.Overlap)
	cmd.Printf("  Max pages: %d\n", settings.Ingest.MaxPages)
	cmd.Printf("  Workers: %d\n", settings.Ingest.Workers)
	cmd.Println()

	cmd.Println("[Query]")
	cmd.Printf("  Top-K: %d (max %d)\n", settings.Query.TopK, domain.MaxTopK)
	cmd.Printf("  Max tokens: %d\n", settings.Query.MaxTokens)

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("SciRAG Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Generation Provider")
	cmd.Println("---------------------------")
	if err := configureProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Vector Backend")
	cmd.Println("----------------------")
	if err := configureBackend(cmd, reader); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.Backend == domain.VectorBackendChroma {
		cmd.Println("Step 3: Embedding Provider (skipped)")
		cmd.Println("------------------------------------")
		cmd.Println("The chroma backend embeds server-side.")
		cmd.Println()
	} else {
		cmd.Println("Step 3: Embedding Provider")
		cmd.Println("--------------------------")
		if err := configureEmbedding(cmd, reader); err != nil {
			return err
		}
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")

	cmd.Print("Validating generation provider... ")
	if err := settingsService.ValidateProvider(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		cmd.Println("Settings were saved; fix the credential and re-run 'scirag settings wizard'.")
		return nil
	}
	cmd.Println("OK")

	return nil
}

func runSettingsProvider(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureProvider(cmd, reader)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureEmbedding(cmd, reader)
}

func runSettingsBackend(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureBackend(cmd, reader)
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Generation Provider")
	providers := domain.AllGenProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultGenModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == defaultModel {
		model = "" // Empty means provider default
	}

	if err := settingsService.SetProvider(selected, model); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}

	if selected.RequiresAPIKey() && settingsService.APIKey(selected) == "" {
		cmd.Print("Enter API key: ")
		key := readPassword()
		cmd.Println()
		if key == "" {
			cmd.Printf("No key entered. Export %s or run 'scirag auth set %s' later.\n\n",
				selected.EnvKeyName(), selected)
		} else if err := settingsService.SetAPIKey(selected, key); err != nil {
			return fmt.Errorf("failed to store api key: %w", err)
		}
	}

	cmd.Printf("Generation provider set to: %s\n\n", selected.Description())
	return nil
}

func configureEmbedding(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := []domain.EmbedProvider{domain.EmbedProviderOpenAI, domain.EmbedProviderOllama}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p)
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultEmbedModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == defaultModel {
		model = ""
	}

	if err := settingsService.SetEmbedding(selected, model); err != nil {
		return fmt.Errorf("failed to set embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider set to: %s\n\n", selected)
	return nil
}

func configureBackend(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Vector Backend")
	backends := []domain.VectorBackend{
		domain.VectorBackendSQLite,
		domain.VectorBackendChroma,
		domain.VectorBackendMemory,
	}
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b)
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(backends), 1)
	selected := backends[idx-1]

	if err := settingsService.SetBackend(selected); err != nil {
		return fmt.Errorf("failed to set backend: %w", err)
	}

	cmd.Printf("Vector backend set to: %s\n\n", selected)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
