package vision

// Viewport is the client page size in pixels, used to convert detected
// regions from image percentages to absolute coordinates.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the viewport has usable dimensions.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// DetectedElement is one region the model found in a screenshot.
// Coordinates are 0-100 percentages at detection time; ToPixels converts
// them to absolute pixel units before transmission.
type DetectedElement struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Action     string  `json:"action,omitempty"`
}

// ToPixels converts percentage coordinates to absolute pixels for the
// given viewport.
func (e DetectedElement) ToPixels(vp Viewport) DetectedElement {
	e.X = e.X / 100 * float64(vp.Width)
	e.Y = e.Y / 100 * float64(vp.Height)
	e.Width = e.Width / 100 * float64(vp.Width)
	e.Height = e.Height / 100 * float64(vp.Height)
	return e
}

// Result is the outcome of one screenshot analysis. Success is false for
// every failure mode: missing credential, transport failure, malformed
// response, or zero detected elements.
type Result struct {
	Elements    []DetectedElement `json:"elements"`
	Explanation string            `json:"explanation"`
	Success     bool              `json:"success"`
}

// ToPixels converts every element of the result for the given viewport.
func (r Result) ToPixels(vp Viewport) []DetectedElement {
	converted := make([]DetectedElement, len(r.Elements))
	for i, e := range r.Elements {
		converted[i] = e.ToPixels(vp)
	}
	return converted
}
