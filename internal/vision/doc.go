// Package vision detects UI elements in screenshots through an external
// multimodal model, used as a fallback when selector matching is
// unavailable or insufficient.
//
// The analyzer speaks the OpenAI-compatible chat completions API: it sends
// the screenshot as a data URL plus a structured instruction requesting
// strict JSON with percentage-based bounding boxes. Every failure mode
// (missing credential, transport error, malformed response, zero elements)
// resolves to an unsuccessful Result so callers degrade to the selector
// path instead of surfacing an error to the end user.
//
// Outbound calls carry a per-request timeout and run behind a circuit
// breaker; a tripped breaker behaves like any other analysis failure.
package vision
