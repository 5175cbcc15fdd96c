// Package domain defines the core business entities for scirag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Paper: A scientific paper with source metadata
//   - Chunk: A bounded, overlapping slice of a paper's text
//   - Answer: The structured outcome of the answer protocol
//   - Verdict: A guardrail check result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
