package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidle/guidle/backend/internal/catalog"
)

func newTestMatcher(t *testing.T, schemas ...catalog.AppSchema) *Matcher {
	t.Helper()
	reg := catalog.NewRegistry()
	for _, s := range schemas {
		require.NoError(t, reg.Register(s))
	}
	return New(reg)
}

func TestMatchExactPattern(t *testing.T) {
	m := newTestMatcher(t)

	result := m.Match("settings", "")

	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, TierExact, result.Tier)
	assert.Equal(t, "Settings and preferences", result.Description)
	assert.Contains(t, result.Selectors, "#settings")
}

func TestMatchPartialScore(t *testing.T) {
	m := newTestMatcher(t)

	// "email address field" contains the pattern "email address":
	// score = len(pattern) / len(target).
	result := m.Match("email address field", "")

	assert.Equal(t, TierPartial, result.Tier)
	assert.Equal(t, "Email input field", result.Description)
	assert.InDelta(t, float64(len("email address"))/float64(len("email address field")), result.Confidence, 1e-9)
	assert.Greater(t, result.Confidence, 0.3)
	assert.Less(t, result.Confidence, 1.0)
}

func TestMatchGenericFallback(t *testing.T) {
	m := newTestMatcher(t)

	result := m.Match("frobnicator", "")

	assert.Equal(t, TierGeneric, result.Tier)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Equal(t, `Element matching "frobnicator"`, result.Description)
	require.NotEmpty(t, result.Selectors)
	assert.Contains(t, result.Selectors, "#frobnicator")
	assert.Contains(t, result.Selectors, "[data-guidle='frobnicator']")
}

func TestMatchNeverEmpty(t *testing.T) {
	m := newTestMatcher(t)

	for _, target := range []string{"settings", "email address field", "frobnicator", "x"} {
		result := m.Match(target, "")
		assert.NotEmpty(t, result.Selectors, "target %q", target)
		assert.Greater(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestMatchAppTierPrecedence(t *testing.T) {
	// The app schema pattern and a default-tier exact pattern both match;
	// the app tier is checked first and must win at its flat confidence.
	schema := catalog.AppSchema{
		AppID: "demo-app",
		Elements: []catalog.ElementMapping{
			{
				Patterns:    []string{"settings"},
				Selectors:   []string{"[data-demo='app-settings']"},
				Description: "Demo app settings",
				Category:    "settings",
			},
		},
	}
	m := newTestMatcher(t, schema)

	result := m.Match("settings", "demo-app")

	assert.Equal(t, TierApp, result.Tier)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, []string{"[data-demo='app-settings']"}, result.Selectors)
}

func TestMatchAppTierFlatConfidence(t *testing.T) {
	schema := catalog.AppSchema{
		AppID: "demo-app",
		Elements: []catalog.ElementMapping{
			{
				Patterns:    []string{"a very long pattern that dwarfs the target"},
				Selectors:   []string{"#long"},
				Description: "Long pattern",
			},
		},
	}
	m := newTestMatcher(t, schema)

	// Bidirectional containment: the pattern contains the target. The
	// string length ratio must not influence app-tier confidence.
	result := m.Match("a very long pattern", "demo-app")

	assert.Equal(t, TierApp, result.Tier)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestMatchAppTierFirstMappingWins(t *testing.T) {
	schema := catalog.AppSchema{
		AppID: "demo-app",
		Elements: []catalog.ElementMapping{
			{Patterns: []string{"report"}, Selectors: []string{"#first"}, Description: "First"},
			{Patterns: []string{"reports"}, Selectors: []string{"#second"}, Description: "Second"},
		},
	}
	m := newTestMatcher(t, schema)

	result := m.Match("reports", "demo-app")
	assert.Equal(t, []string{"#first"}, result.Selectors)
}

func TestMatchUnknownAppFallsThrough(t *testing.T) {
	m := newTestMatcher(t)

	result := m.Match("settings", "never-registered")

	assert.Equal(t, TierExact, result.Tier)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestMatchExactBeatsPartialScan(t *testing.T) {
	m := newTestMatcher(t)

	// "find" is both an exact pattern of the search mapping and a
	// substring of several others; exact equality must short-circuit.
	result := m.Match("find", "")

	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, "Search functionality", result.Description)
}

func TestMatchReRegistrationReplaces(t *testing.T) {
	reg := catalog.NewRegistry()
	require.NoError(t, reg.Register(catalog.AppSchema{
		AppID:    "demo-app",
		Elements: []catalog.ElementMapping{{Patterns: []string{"billing"}, Selectors: []string{"#billing"}, Description: "Billing"}},
	}))
	m := New(reg)

	result := m.Match("billing", "demo-app")
	assert.Equal(t, TierApp, result.Tier)

	// Replace the schema with one that no longer has the pattern.
	require.NoError(t, reg.Register(catalog.AppSchema{
		AppID:    "demo-app",
		Elements: []catalog.ElementMapping{{Patterns: []string{"invoices"}, Selectors: []string{"#invoices"}, Description: "Invoices"}},
	}))

	result = m.Match("billing", "demo-app")
	assert.NotEqual(t, TierApp, result.Tier)
	assert.Equal(t, TierGeneric, result.Tier)
}

func TestMatchCaseInsensitive(t *testing.T) {
	m := newTestMatcher(t)

	result := m.Match("  SETTINGS  ", "")
	assert.Equal(t, 1.0, result.Confidence)
}

func TestMatchBelowThresholdUsesGeneric(t *testing.T) {
	m := newTestMatcher(t)

	// "nav" is contained in this long target: score len("nav")/len(target)
	// is far below the threshold, so the generic tier must win.
	target := "something entirely unrelated to navigating anywhere at all"
	result := m.Match(target, "")

	assert.Equal(t, TierGeneric, result.Tier)
	assert.Equal(t, 0.3, result.Confidence)
}
