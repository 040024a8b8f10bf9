// Package planner synthesizes the ordered step sequence for a classified
// intent: always a highlight first, then an intent-specific follow-up.
package planner

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/guidle/guidle/backend/internal/intent"
	"github.com/guidle/guidle/backend/internal/matcher"
	"github.com/guidle/guidle/backend/internal/protocol"
)

// Plan is the full outcome of planning one query.
type Plan struct {
	Steps       []protocol.Step     `json:"steps"`
	Intent      intent.ParsedIntent `json:"intent"`
	Selectors   []string            `json:"matchedSelectors"`
	Description string              `json:"description"`

	// Match carries the raw matcher result for observability.
	Match matcher.Result `json:"-"`
}

// Planner builds guidance plans from parsed intents.
type Planner struct {
	matcher   *matcher.Matcher
	sanitizer *bluemonday.Policy
}

// New creates a planner backed by the given matcher.
func New(m *matcher.Matcher) *Planner {
	return &Planner{
		matcher: m,
		// User text is echoed back into prompt and tooltip messages the
		// renderer injects into the page; strip any markup from it.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Plan resolves the intent's target and synthesizes the step sequence.
// The highlight step always comes first and carries the full selector
// list; follow-up steps depend on the intent type. Steps are never
// removed once appended.
func (p *Planner) Plan(parsed intent.ParsedIntent, appID string) Plan {
	match := p.matcher.Match(parsed.Target, appID)

	steps := []protocol.Step{
		protocol.Highlight{
			Selectors:   match.Selectors,
			Description: match.Description,
			Intent:      parsed.Type,
			Confidence:  match.Confidence,
		},
	}

	switch parsed.Type {
	case intent.Navigate:
		steps = append(steps, protocol.Prompt{
			Message: fmt.Sprintf("Click to go to %s", match.Description),
			Action:  protocol.ActionClick,
		})
	case intent.Interact:
		steps = append(steps, protocol.Prompt{
			Message: fmt.Sprintf("Click to %s", p.sanitizer.Sanitize(parsed.Target)),
			Action:  protocol.ActionClick,
		})
	case intent.Explain:
		steps = append(steps, protocol.Tooltip{
			Message:  fmt.Sprintf("This is %s", match.Description),
			Position: protocol.PositionAuto,
		})
	case intent.Locate, intent.Unknown:
		// Highlight only.
	}

	return Plan{
		Steps:       steps,
		Intent:      parsed,
		Selectors:   match.Selectors,
		Description: match.Description,
		Match:       match,
	}
}
