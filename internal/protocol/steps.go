package protocol

import (
	"github.com/bytedance/sonic"

	"github.com/guidle/guidle/backend/internal/intent"
	"github.com/guidle/guidle/backend/internal/vision"
)

// StepType discriminates renderer step variants on the wire.
type StepType string

const (
	StepHighlight       StepType = "HIGHLIGHT"
	StepPrompt          StepType = "PROMPT"
	StepTooltip         StepType = "TOOLTIP"
	StepWait            StepType = "WAIT"
	StepDone            StepType = "DONE"
	StepVisionHighlight StepType = "VISION_HIGHLIGHT"
)

// PromptAction is the interaction a prompt step asks the user to perform.
type PromptAction string

const (
	ActionClick  PromptAction = "click"
	ActionType   PromptAction = "type"
	ActionScroll PromptAction = "scroll"
)

// TooltipPosition anchors a tooltip relative to its element.
type TooltipPosition string

const (
	PositionTop    TooltipPosition = "top"
	PositionBottom TooltipPosition = "bottom"
	PositionLeft   TooltipPosition = "left"
	PositionRight  TooltipPosition = "right"
	PositionAuto   TooltipPosition = "auto"
)

// Step is the closed union of renderer-executable instructions. A step
// sequence is ordered; the order is the execution contract with the
// renderer.
type Step interface {
	Kind() StepType
	isStep()
}

// Highlight asks the renderer to highlight the first selector that
// resolves. Selectors are priority ordered; the renderer, not the server,
// decides which one ultimately matches the live page.
type Highlight struct {
	Selectors   []string    `json:"selectors"`
	Description string      `json:"description"`
	Intent      intent.Type `json:"intent"`
	Confidence  float64     `json:"confidence"`
}

// Prompt asks the user to perform an action.
type Prompt struct {
	Message string       `json:"message"`
	Action  PromptAction `json:"action"`
}

// Tooltip shows an explanatory message anchored to the highlighted element.
type Tooltip struct {
	Message  string          `json:"message"`
	Position TooltipPosition `json:"position"`
}

// Wait pauses execution for a duration or until a selector appears.
type Wait struct {
	Duration    int    `json:"duration,omitempty"` // milliseconds
	ForSelector string `json:"forSelector,omitempty"`
}

// Done marks the end of a step sequence.
type Done struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// VisionHighlight carries regions detected from a screenshot, in absolute
// pixel units.
type VisionHighlight struct {
	Elements    []vision.DetectedElement `json:"elements"`
	Explanation string                   `json:"explanation"`
}

func (Highlight) Kind() StepType       { return StepHighlight }
func (Prompt) Kind() StepType          { return StepPrompt }
func (Tooltip) Kind() StepType         { return StepTooltip }
func (Wait) Kind() StepType            { return StepWait }
func (Done) Kind() StepType            { return StepDone }
func (VisionHighlight) Kind() StepType { return StepVisionHighlight }

func (Highlight) isStep()       {}
func (Prompt) isStep()          {}
func (Tooltip) isStep()         {}
func (Wait) isStep()            {}
func (Done) isStep()            {}
func (VisionHighlight) isStep() {}

// MarshalJSON implementations inject the type discriminator alongside the
// variant fields. The local alias types strip the method so marshaling the
// embedded value does not recurse.

func (s Highlight) MarshalJSON() ([]byte, error) {
	type alias Highlight
	return sonic.Marshal(struct {
		Type StepType `json:"type"`
		alias
	}{StepHighlight, alias(s)})
}

func (s Prompt) MarshalJSON() ([]byte, error) {
	type alias Prompt
	return sonic.Marshal(struct {
		Type StepType `json:"type"`
		alias
	}{StepPrompt, alias(s)})
}

func (s Tooltip) MarshalJSON() ([]byte, error) {
	type alias Tooltip
	return sonic.Marshal(struct {
		Type StepType `json:"type"`
		alias
	}{StepTooltip, alias(s)})
}

func (s Wait) MarshalJSON() ([]byte, error) {
	type alias Wait
	return sonic.Marshal(struct {
		Type StepType `json:"type"`
		alias
	}{StepWait, alias(s)})
}

func (s Done) MarshalJSON() ([]byte, error) {
	type alias Done
	return sonic.Marshal(struct {
		Type StepType `json:"type"`
		alias
	}{StepDone, alias(s)})
}

func (s VisionHighlight) MarshalJSON() ([]byte, error) {
	type alias VisionHighlight
	return sonic.Marshal(struct {
		Type StepType `json:"type"`
		alias
	}{StepVisionHighlight, alias(s)})
}
