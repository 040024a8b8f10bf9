// Package guidance is the single composition point of the query pipeline.
// It classifies free text, resolves it to selectors or vision regions, and
// yields the step sequence the transport layers deliver.
package guidance

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/guidle/guidle/backend/internal/infrastructure/monitoring"
	"github.com/guidle/guidle/backend/internal/intent"
	"github.com/guidle/guidle/backend/internal/planner"
	"github.com/guidle/guidle/backend/internal/protocol"
	"github.com/guidle/guidle/backend/internal/vision"
)

// Resolution is the outcome of resolving one query. When Vision is set the
// query was answered from a screenshot; otherwise the selector plan applies.
type Resolution struct {
	Plan   planner.Plan
	Vision *protocol.VisionHighlight
}

// Steps returns the ordered steps to deliver for this resolution.
func (r Resolution) Steps() []protocol.Step {
	if r.Vision != nil {
		return []protocol.Step{*r.Vision}
	}
	return r.Plan.Steps
}

// Service resolves guidance queries.
type Service struct {
	planner  *planner.Planner
	analyzer *vision.Analyzer
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// New creates a guidance service.
func New(p *planner.Planner, analyzer *vision.Analyzer, metrics *monitoring.Metrics, logger *zap.Logger) *Service {
	return &Service{
		planner:  p,
		analyzer: analyzer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolve classifies the query text and plans the step sequence against the
// selector catalog.
func (s *Service) Resolve(text, appID string) Resolution {
	parsed := intent.Classify(text)
	plan := s.planner.Plan(parsed, appID)

	s.metrics.RecordQuery(string(parsed.Type))
	s.metrics.RecordMatch(string(plan.Match.Tier), plan.Match.Confidence)

	s.logger.Info("query resolved",
		zap.String("intent", string(parsed.Type)),
		zap.String("target", parsed.Target),
		zap.String("tier", string(plan.Match.Tier)),
		zap.Float64("confidence", plan.Match.Confidence),
		zap.Int("steps", len(plan.Steps)))

	return Resolution{Plan: plan}
}

// ResolveVision analyzes the screenshot for the query and, when detection
// succeeds, returns a vision highlight with element regions scaled to the
// viewport. Every vision failure falls through to Resolve so the caller
// always gets a usable plan.
func (s *Service) ResolveVision(ctx context.Context, text, screenshot string, vp vision.Viewport, appID string) Resolution {
	if !s.analyzer.Configured() {
		return s.Resolve(text, appID)
	}

	timer := monitoring.NewTimer()
	result, err := s.analyzer.Analyze(ctx, screenshot, text)
	if err != nil || !result.Success {
		s.metrics.RecordVisionCall("failure", timer.Elapsed())
		s.logger.Warn("vision analysis failed, falling back to selectors",
			zap.Error(err),
			zap.String("explanation", result.Explanation))
		return s.Resolve(text, appID)
	}
	s.metrics.RecordVisionCall("success", timer.Elapsed())

	return Resolution{
		Vision: &protocol.VisionHighlight{
			Elements:    result.ToPixels(vp),
			Explanation: result.Explanation,
		},
	}
}

// VisionEligible reports whether a vision query can be attempted at all.
// An empty screenshot is a protocol error the transport surfaces itself.
func (s *Service) VisionEligible(screenshot string) bool {
	return strings.TrimSpace(screenshot) != ""
}
