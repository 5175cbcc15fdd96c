package services

import (
	"regexp"
	"strings"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// Guardrail rule sets. Deliberately kept as literal data rather than
// code so they can be tuned and tested in isolation. These heuristics
// have known false-positive and false-negative rates and are not a
// security boundary.
var (
	harmfulKeywords = []string{
		"weapon", "bomb", "attack", "kill", "harm", "illegal",
		"hack", "exploit", "steal", "fraud", "poison", "dangerous",
	}

	researchKeywords = []string{
		"paper", "research", "study", "finding", "method", "result",
		"analysis", "data", "experiment", "hypothesis", "conclusion",
		"author", "cite", "reference", "abstract", "introduction",
		"discussion", "figure", "table", "section", "algorithm",
		"model", "approach", "technique", "evaluation", "compare",
	}

	offTopicPatterns = []string{
		"weather", "joke", "recipe", "game", "movie", "sports",
		"write code", "create program", "build app", "homework",
		"translate", "what is the time", "news", "stock", "price",
	}

	jailbreakPatterns = []string{
		"ignore previous instructions",
		"ignore all instructions",
		"disregard",
		"forget everything",
		"act as",
		"pretend you are",
		"roleplay as",
		"simulate",
		"you are now",
		"new instructions",
		"system:",
		"override",
	}

	groundingStopWords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
		"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
		"with": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
		"been": {}, "being": {}, "have": {}, "has": {}, "had": {},
		"do": {}, "does": {}, "did": {}, "will": {}, "would": {},
		"could": {}, "should": {}, "may": {}, "might": {}, "must": {},
		"can": {}, "this": {}, "that": {}, "these": {}, "those": {},
		"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {},
		"they": {}, "what": {}, "which": {}, "who": {}, "when": {},
		"where": {}, "why": {}, "how": {},
	}
)

// numberPattern extracts numeric tokens (integers, decimals, optional
// trailing percent) for the hallucination heuristic.
var numberPattern = regexp.MustCompile(`\b\d+\.?\d*%?\b`)

// Blocking thresholds for the output heuristics.
const (
	// maxUnsupportedNumbers is how many numeric tokens a response may
	// introduce beyond the retrieved context before being flagged.
	maxUnsupportedNumbers = 3

	// groundedOverlap is the word-overlap size that marks a response
	// grounded regardless of length.
	groundedOverlap = 10

	// shortResponseWords is the unique-word count under which the
	// relaxed overlap threshold applies.
	shortResponseWords = 50

	// shortGroundedOverlap is the relaxed overlap for short responses.
	shortGroundedOverlap = 5
)

// User-facing verdict messages. Kept free of internal detail.
const (
	msgHarmful = "I'm designed to help with scientific research questions. " +
		"I cannot assist with harmful, unethical, or dangerous content. " +
		"Please ask a question related to your research papers."

	msgOffTopic = "I'm specifically designed to answer questions about research papers. " +
		"Your question seems to be outside this scope. Please ask about the " +
		"content, methodology, findings, or analysis of your papers."

	msgJailbreak = "I notice you're trying to bypass my guidelines. I'm here to help " +
		"with scientific research questions only."

	msgHallucination = "The response may contain information not supported by your papers. " +
		"Please verify this information against the original sources."

	msgNotGrounded = "While I can provide some information, the answer may not be fully " +
		"supported by your processed papers. Please take this response with caution."
)

// GuardrailEvaluator runs the rule-based input and output checks.
// Input verdicts are blocking; output verdicts are advisory and only
// attach a warning to the answer.
type GuardrailEvaluator struct{}

// NewGuardrailEvaluator creates a guardrail evaluator.
func NewGuardrailEvaluator() *GuardrailEvaluator {
	return &GuardrailEvaluator{}
}

// CheckInput screens a question before any retrieval or generation.
// Checks run in fixed priority order: harmful content, then off-topic,
// then jailbreak. The first matching rule decides the verdict.
func (g *GuardrailEvaluator) CheckInput(text string) domain.Verdict {
	if g.containsHarmful(text) {
		return domain.Violation(domain.ViolationHarmful, msgHarmful)
	}
	if g.isOffTopic(text) {
		return domain.Violation(domain.ViolationOffTopic, msgOffTopic)
	}
	if g.isJailbreak(text) {
		return domain.Violation(domain.ViolationJailbreak, msgJailbreak)
	}
	return domain.SafeVerdict()
}

// CheckOutput screens a generated answer against the context it was
// grounded on. Hallucination is checked before grounding.
func (g *GuardrailEvaluator) CheckOutput(response string, contexts []string, _ string) domain.Verdict {
	if g.containsHallucination(response, contexts) {
		return domain.Violation(domain.ViolationHallucination, msgHallucination)
	}
	if !g.isWellGrounded(response, contexts) {
		return domain.Violation(domain.ViolationNotGrounded, msgNotGrounded)
	}
	return domain.SafeVerdict()
}

func (g *GuardrailEvaluator) containsHarmful(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range harmfulKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isOffTopic flags questions outside the research domain. Questions of
// 3 or 4 words with no pattern match pass without a research keyword;
// shorter and longer ones require one. The tolerance band is part of
// the check's contract and pinned by tests.
func (g *GuardrailEvaluator) isOffTopic(text string) bool {
	lower := strings.ToLower(text)

	for _, pattern := range offTopicPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	hasResearchContext := false
	for _, kw := range researchKeywords {
		if strings.Contains(lower, kw) {
			hasResearchContext = true
			break
		}
	}

	words := strings.Fields(lower)
	if len(words) < 3 {
		return !hasResearchContext
	}
	if len(words) >= 5 && !hasResearchContext {
		return true
	}

	return false
}

func (g *GuardrailEvaluator) isJailbreak(text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range jailbreakPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// containsHallucination counts numeric tokens present in the response
// but absent from the combined context. More than the threshold flags
// the response. No context means nothing to contradict.
func (g *GuardrailEvaluator) containsHallucination(response string, contexts []string) bool {
	if len(contexts) == 0 {
		return false
	}

	combined := strings.ToLower(strings.Join(contexts, " "))

	inContext := make(map[string]struct{})
	for _, n := range numberPattern.FindAllString(combined, -1) {
		inContext[n] = struct{}{}
	}

	unsupported := make(map[string]struct{})
	for _, n := range numberPattern.FindAllString(response, -1) {
		if _, ok := inContext[n]; !ok {
			unsupported[n] = struct{}{}
		}
	}

	return len(unsupported) > maxUnsupportedNumbers
}

// isWellGrounded measures stop-word-filtered word overlap between the
// response and the combined context. A response with no context to
// stand on is never grounded.
func (g *GuardrailEvaluator) isWellGrounded(response string, contexts []string) bool {
	if len(contexts) == 0 {
		return false
	}

	combined := strings.ToLower(strings.Join(contexts, " "))
	lower := strings.ToLower(response)

	responseWords := make(map[string]struct{})
	for _, w := range strings.Fields(lower) {
		responseWords[w] = struct{}{}
	}

	contextWords := make(map[string]struct{})
	for _, w := range strings.Fields(combined) {
		contextWords[w] = struct{}{}
	}

	overlap := 0
	for w := range responseWords {
		if _, stop := groundingStopWords[w]; stop {
			continue
		}
		if _, ok := contextWords[w]; ok {
			overlap++
		}
	}

	if overlap > groundedOverlap {
		return true
	}
	if len(responseWords) < shortResponseWords && overlap > shortGroundedOverlap {
		return true
	}

	return false
}
