// Package services implements the driving port interfaces: the
// ingestion state machine, the answer protocol with its guardrails,
// paper management, and settings. Services contain the core business
// logic and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
