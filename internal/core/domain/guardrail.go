package domain

// ViolationKind classifies why a guardrail flagged a text.
type ViolationKind string

// Violation kinds. The first three apply to input checks, the last
// two to output checks.
const (
	// ViolationHarmful flags harmful-intent keywords in a question.
	ViolationHarmful ViolationKind = "harmful"

	// ViolationOffTopic flags questions outside the research domain.
	ViolationOffTopic ViolationKind = "off_topic"

	// ViolationJailbreak flags instruction-override attempts.
	ViolationJailbreak ViolationKind = "jailbreak"

	// ViolationHallucination flags answers citing numbers absent from
	// the retrieved context.
	ViolationHallucination ViolationKind = "hallucination"

	// ViolationNotGrounded flags answers with too little word overlap
	// with the retrieved context.
	ViolationNotGrounded ViolationKind = "not_grounded"
)

// Verdict is the outcome of one guardrail check. Input verdicts are
// blocking; output verdicts are advisory and surface as a warning on
// the answer.
type Verdict struct {
	// Safe is true when no rule matched.
	Safe bool

	// Kind names the matched rule when Safe is false.
	Kind ViolationKind

	// Message is a short human-readable explanation when Safe is false.
	Message string
}

// SafeVerdict returns the passing verdict.
func SafeVerdict() Verdict {
	return Verdict{Safe: true}
}

// Violation returns a failing verdict of the given kind.
func Violation(kind ViolationKind, message string) Verdict {
	return Verdict{Safe: false, Kind: kind, Message: message}
}
