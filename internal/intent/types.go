package intent

// Type is the classified purpose of a user utterance.
type Type string

const (
	Navigate Type = "NAVIGATE" // go to a page or section
	Locate   Type = "LOCATE"   // find and highlight an element
	Interact Type = "INTERACT" // click, type, toggle
	Explain  Type = "EXPLAIN"  // show a tooltip or explanation
	Unknown  Type = "UNKNOWN"
)

// ParsedIntent is the result of classifying one query. Created fresh per
// query, never persisted.
type ParsedIntent struct {
	Type       Type    `json:"type"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
	RawQuery   string  `json:"rawQuery"`
}
