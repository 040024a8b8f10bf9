// Package matcher resolves a target phrase to candidate element selectors
// through a tiered lookup: registered app schemas first, the built-in
// catalog second, and a synthesized generic selector set as the floor.
package matcher

import (
	"fmt"
	"strings"

	"github.com/guidle/guidle/backend/internal/catalog"
)

// Confidence levels by tier. App schemas are caller-declared semantics and
// are trusted flat; the default tier ranks competing partial matches; the
// generic tier is the always-available floor.
const (
	exactConfidence   = 1.0
	appConfidence     = 0.9
	genericConfidence = 0.3

	// partialThreshold rejects tenuous partial matches in favor of the
	// generic fallback. Kept as-is for compatibility with existing
	// clients; changing it changes which catalog entries win.
	partialThreshold = 0.3
)

// Tier identifies which resolution tier produced a result.
type Tier string

const (
	TierApp     Tier = "app"
	TierExact   Tier = "exact"
	TierPartial Tier = "partial"
	TierGeneric Tier = "generic"
)

// Result is the outcome of a match. Selectors always has length >= 1.
type Result struct {
	Selectors   []string `json:"selectors"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`

	// Tier is observability metadata, not part of the wire contract.
	Tier Tier `json:"-"`
}

// Matcher resolves targets against a schema registry and the built-in
// catalog.
type Matcher struct {
	registry *catalog.Registry
}

// New creates a matcher backed by the given schema registry.
func New(registry *catalog.Registry) *Matcher {
	return &Matcher{registry: registry}
}

// Match resolves a target phrase to selector candidates. Tiers are
// evaluated in order and the first success short-circuits. Match never
// fails: when nothing matches it synthesizes a generic selector set.
func (m *Matcher) Match(target, appID string) Result {
	targetLower := strings.ToLower(strings.TrimSpace(target))

	if result, ok := m.matchApp(targetLower, appID); ok {
		return result
	}
	if result, ok := m.matchDefault(targetLower); ok {
		return result
	}
	return genericResult(target, targetLower)
}

// matchApp scans the registered schema for the app, if any. A pattern
// matches when either string contains the other; the first mapping with a
// matching pattern wins at a fixed confidence, with no scoring competition
// inside the tier.
func (m *Matcher) matchApp(targetLower, appID string) (Result, bool) {
	if appID == "" || targetLower == "" {
		return Result{}, false
	}
	schema, ok := m.registry.Lookup(appID)
	if !ok {
		return Result{}, false
	}

	for _, mapping := range schema.Elements {
		for _, pattern := range mapping.Patterns {
			if strings.Contains(targetLower, pattern) || strings.Contains(pattern, targetLower) {
				return Result{
					Selectors:   mapping.Selectors,
					Description: mapping.Description,
					Confidence:  appConfidence,
					Tier:        TierApp,
				}, true
			}
		}
	}
	return Result{}, false
}

// matchDefault scans the built-in catalog. Exact pattern equality wins
// immediately; otherwise the best partial containment score across all
// mappings is kept and returned if it clears the threshold. The score is
// the length ratio of the contained string to the containing one, so
// tighter matches score higher.
func (m *Matcher) matchDefault(targetLower string) (Result, bool) {
	var best *catalog.ElementMapping
	bestScore := 0.0

	defaults := catalog.Defaults()
	for i := range defaults {
		mapping := &defaults[i]
		for _, pattern := range mapping.Patterns {
			if targetLower == pattern {
				return Result{
					Selectors:   mapping.Selectors,
					Description: mapping.Description,
					Confidence:  exactConfidence,
					Tier:        TierExact,
				}, true
			}

			var score float64
			if strings.Contains(targetLower, pattern) {
				score = float64(len(pattern)) / float64(len(targetLower))
			} else if strings.Contains(pattern, targetLower) && targetLower != "" {
				score = float64(len(targetLower)) / float64(len(pattern))
			}
			if score > bestScore {
				bestScore = score
				best = mapping
			}
		}
	}

	if best != nil && bestScore > partialThreshold {
		return Result{
			Selectors:   best.Selectors,
			Description: best.Description,
			Confidence:  bestScore,
			Tier:        TierPartial,
		}, true
	}
	return Result{}, false
}

// genericResult synthesizes a selector set mechanically from the target so
// that no query ever resolves to an empty candidate list.
func genericResult(target, targetLower string) Result {
	return Result{
		Selectors: []string{
			fmt.Sprintf("[data-guidle='%s']", targetLower),
			fmt.Sprintf("#%s", targetLower),
			fmt.Sprintf("[aria-label*='%s' i]", target),
			fmt.Sprintf("[class*='%s']", targetLower),
			fmt.Sprintf("button:contains('%s')", target),
			fmt.Sprintf("a:contains('%s')", target),
		},
		Description: fmt.Sprintf("Element matching %q", target),
		Confidence:  genericConfidence,
		Tier:        TierGeneric,
	}
}
