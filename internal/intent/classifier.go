package intent

import "strings"

// Keyword sets, scanned in this order. Within a set the first hit in list
// order wins; across sets the earlier set wins. Order is load-bearing.
var (
	navigationKeywords = []string{
		"go to", "goto", "navigate to", "take me to",
		"open", "show me", "where is", "find",
	}
	interactionKeywords = []string{
		"click", "press", "tap", "select", "choose",
		"type in", "fill in", "enter", "toggle",
	}
	explanationKeywords = []string{
		"what is", "what does", "explain", "tell me about",
		"how do i", "help me understand",
	}
)

// Suffix nouns trimmed from the extracted target.
var targetSuffixes = []string{" button", " page", " section", " menu"}

// Classify parses a free-text query into a typed intent. It is pure and
// deterministic: the same text always yields the same intent.
func Classify(text string) ParsedIntent {
	lowered := strings.ToLower(strings.TrimSpace(text))

	intentType, matched := detectType(lowered)
	target := extractTarget(lowered)
	if target == "" {
		target = text
	}

	confidence := 0.5
	if matched {
		confidence += 0.3
	}
	if len(strings.Fields(lowered)) <= 5 {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return ParsedIntent{
		Type:       intentType,
		Target:     target,
		Confidence: confidence,
		RawQuery:   text,
	}
}

// detectType returns the intent type and whether any keyword matched.
// Queries without a keyword are treated as locate requests, not unknowns,
// so that bare element names resolve.
func detectType(lowered string) (Type, bool) {
	if containsAny(lowered, navigationKeywords) {
		return Navigate, true
	}
	if containsAny(lowered, interactionKeywords) {
		return Interact, true
	}
	if containsAny(lowered, explanationKeywords) {
		return Explain, true
	}
	return Locate, false
}

// extractTarget strips every keyword (as a substring) from the lowered
// query, then trims filler words around the remainder.
func extractTarget(lowered string) string {
	target := lowered
	for _, set := range [][]string{navigationKeywords, interactionKeywords, explanationKeywords} {
		for _, kw := range set {
			target = strings.ReplaceAll(target, kw, " ")
		}
	}

	// Collapse whitespace left behind by stripping.
	target = strings.Join(strings.Fields(target), " ")
	target = strings.TrimPrefix(target, "the ")
	for _, suffix := range targetSuffixes {
		target = strings.TrimSuffix(target, suffix)
	}
	return strings.TrimSpace(target)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
