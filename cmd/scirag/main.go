// Command scirag ingests scientific papers into a local vector
// collection and answers questions about them with cited sources.
// All wiring happens here; the command layer only sees driving ports.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/scirag-labs/scirag-cli/internal/adapters/driven/ai"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driven/config/file"
	memstore "github.com/scirag-labs/scirag-cli/internal/adapters/driven/storage/memory"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driven/storage/sqlite"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driven/vector/chroma"
	vecmemory "github.com/scirag-labs/scirag-cli/internal/adapters/driven/vector/memory"
	"github.com/scirag-labs/scirag-cli/internal/adapters/driving/cli"
	"github.com/scirag-labs/scirag-cli/internal/chunker"
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
	"github.com/scirag-labs/scirag-cli/internal/core/services"
	"github.com/scirag-labs/scirag-cli/internal/extractors/pdf"
	"github.com/scirag-labs/scirag-cli/internal/extractors/plaintext"
	"github.com/scirag-labs/scirag-cli/internal/sources/arxiv"
	"github.com/scirag-labs/scirag-cli/internal/sources/localdir"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

//nolint:gocyclo // Linear wiring of every adapter behind the CLI
func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// Credential gaps degrade the wiring instead of killing the CLI so
	// that settings and auth commands still run on a fresh machine.
	var notices []string

	var (
		registry driven.PaperRegistry
		runStore driven.RunStore
		vector   driven.VectorStore
	)

	switch settings.Backend {
	case domain.VectorBackendMemory:
		embedder, embErr := newEmbedder(settingsSvc, settings)
		if embErr != nil {
			notices = append(notices, fmt.Sprintf("vector store disabled: %v", embErr))
		} else {
			vector = vecmemory.NewStore(embedder)
		}
		registry = memstore.NewPaperRegistry()
		runStore = memstore.NewRunStore()

	case domain.VectorBackendChroma:
		// Chroma embeds server-side; the registry and run history still
		// live in the local database.
		store, dbErr := sqlite.NewStore("")
		if dbErr != nil {
			return fmt.Errorf("opening database: %w", dbErr)
		}
		defer store.Close()
		registry = store.PaperRegistry()
		runStore = store.RunStore()
		vector = chroma.NewStore(chroma.Config{BaseURL: os.Getenv("CHROMA_URL")})

	default:
		store, dbErr := sqlite.NewStore("")
		if dbErr != nil {
			return fmt.Errorf("opening database: %w", dbErr)
		}
		defer store.Close()
		registry = store.PaperRegistry()
		runStore = store.RunStore()
		embedder, embErr := newEmbedder(settingsSvc, settings)
		if embErr != nil {
			notices = append(notices, fmt.Sprintf("vector store disabled: %v", embErr))
		} else {
			vector = store.VectorStore(embedder)
		}
	}

	ch, err := chunker.New(
		chunker.WithChunkSize(settings.Ingest.ChunkSize),
		chunker.WithOverlap(settings.Ingest.Overlap),
		chunker.WithMinChars(settings.Ingest.MinChunkChars),
	)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	pdfExtractor := pdf.New()
	txtExtractor := plaintext.New()
	source := arxiv.New(arxiv.Config{})
	guardrail := services.NewGuardrailEvaluator()

	var cacheDir string
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		cacheDir = filepath.Join(home, ".scirag", "cache")
	}

	svc := cli.Services{Settings: settingsSvc}

	if vector != nil {
		svc.Ingest = services.NewIngestOrchestrator(
			source, pdfExtractor, txtExtractor, ch, vector, registry, settings.Collection,
			services.WithRunStore(runStore),
			services.WithCacheDir(cacheDir),
			services.WithMaxBytes(settings.Ingest.MaxPDFBytes),
			services.WithMaxPages(settings.Ingest.MaxPages),
			services.WithWorkers(settings.Ingest.Workers),
		)
		svc.Papers = services.NewPaperService(source, registry, vector, runStore, settings.Collection)

		generator, genErr := ai.NewGenerator(ai.GeneratorConfig{
			Provider: settings.Provider,
			APIKey:   settingsSvc.APIKey(settings.Provider),
			Model:    settings.Model,
		})
		if genErr != nil {
			notices = append(notices, fmt.Sprintf("answer generation disabled: %v", genErr))
		} else {
			svc.Query = services.NewQueryService(
				vector, registry, generator, guardrail,
				services.WithCollection(settings.Collection),
				services.WithPromptStore(promptStore),
				services.WithDefaultTopK(settings.Query.TopK),
				services.WithDefaultMaxTokens(settings.Query.MaxTokens),
			)
		}
	}

	cli.InitServices(svc)
	cli.SetVersion(version)

	cli.SetWatchFactory(func(dir string) (*localdir.Source, driving.IngestOrchestrator, error) {
		if vector == nil {
			return nil, nil, fmt.Errorf("vector store not configured")
		}
		src := localdir.New(dir)
		orch := services.NewIngestOrchestrator(
			src, pdfExtractor, txtExtractor, ch, vector, registry, settings.Collection,
			services.WithRunStore(runStore),
			services.WithMaxBytes(settings.Ingest.MaxPDFBytes),
			services.WithMaxPages(settings.Ingest.MaxPages),
			services.WithWorkers(settings.Ingest.Workers),
		)
		return src, orch, nil
	})

	for _, n := range notices {
		fmt.Fprintf(os.Stderr, "Warning: %s (run 'scirag auth set' or 'scirag settings wizard')\n", n)
	}

	return cli.Execute()
}

// newEmbedder builds the embedding client for backends that embed on
// the client side. The openai embedding provider shares the openai
// credential namespace with generation.
func newEmbedder(settingsSvc *services.SettingsService, settings *domain.AppSettings) (driven.EmbeddingService, error) {
	return ai.NewEmbeddingService(ai.EmbeddingConfig{
		Provider: settings.Embedding,
		APIKey:   settingsSvc.APIKey(domain.GenProvider(settings.Embedding)),
		Model:    settings.EmbeddingModel,
	})
}
