// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PaperSource: Discovers papers and serves raw bytes
//   - TextExtractor: Turns raw bytes into plain text
//   - VectorStore: Indexes chunks and answers similarity queries
//   - PaperRegistry: Paper metadata keyed by id
//   - Generator: Produces answers from assembled prompts
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil depending on configuration:
//
//   - EmbeddingService: Only needed by vector backends that embed
//     client-side (sqlite, memory). The Chroma backend embeds server-side.
//   - PromptStore: Without it, services use hardcoded default templates.
//   - RunStore: Without it, run history is simply not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, source, or extractor package
package driven
