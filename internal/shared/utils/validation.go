// Package utils holds request validation shared by the HTTP and WebSocket
// surfaces.
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/guidle/guidle/backend/internal/catalog"
)

// Payload size limits (in bytes)
const (
	MaxMessageSize    = 16 * 1024 * 1024 // 16MB - WS frame, screenshots included
	MaxScreenshotSize = 12 * 1024 * 1024 // 12MB - base64 screenshot payload
	MaxSchemaSize     = 512 * 1024       // 512KB - registered schema payload
)

// String length limits
const (
	MaxQueryLength       = 1024
	MaxAppIDLength       = 128
	MaxPatternLength     = 256
	MaxSelectorLength    = 512
	MaxDescriptionLength = 1024
	MaxElementsPerSchema = 500
	MaxPatternsPerEntry  = 50
	MaxSelectorsPerEntry = 50
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateQuery checks free-text query constraints.
func ValidateQuery(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("query text is required")
	}
	if utf8.RuneCountInString(text) > MaxQueryLength {
		return fmt.Errorf("query exceeds %d characters", MaxQueryLength)
	}
	return nil
}

// ValidateAppID checks an optional app identifier. Empty is allowed; the
// matcher then skips the app tier.
func ValidateAppID(appID string) error {
	if appID == "" {
		return nil
	}
	if len(appID) > MaxAppIDLength {
		return fmt.Errorf("appId exceeds %d characters", MaxAppIDLength)
	}
	if !SafeIDPattern.MatchString(appID) {
		return fmt.Errorf("appId may only contain alphanumerics, hyphens, and underscores")
	}
	return nil
}

// ValidateScreenshot checks a base64 screenshot payload.
func ValidateScreenshot(screenshot string) error {
	if strings.TrimSpace(screenshot) == "" {
		return fmt.Errorf("screenshot is required")
	}
	if len(screenshot) > MaxScreenshotSize {
		return fmt.Errorf("screenshot exceeds %d bytes", MaxScreenshotSize)
	}
	return nil
}

// ValidateSchema checks a schema registration payload.
func ValidateSchema(schema *catalog.AppSchema) error {
	if schema == nil {
		return fmt.Errorf("schema is required")
	}
	if err := ValidateAppID(schema.AppID); err != nil {
		return err
	}
	if schema.AppID == "" {
		return fmt.Errorf("schema appId is required")
	}
	if len(schema.Elements) > MaxElementsPerSchema {
		return fmt.Errorf("schema exceeds %d elements", MaxElementsPerSchema)
	}

	for i, el := range schema.Elements {
		if len(el.Patterns) == 0 {
			return fmt.Errorf("element %d has no patterns", i)
		}
		if len(el.Patterns) > MaxPatternsPerEntry {
			return fmt.Errorf("element %d exceeds %d patterns", i, MaxPatternsPerEntry)
		}
		if len(el.Selectors) == 0 {
			return fmt.Errorf("element %d has no selectors", i)
		}
		if len(el.Selectors) > MaxSelectorsPerEntry {
			return fmt.Errorf("element %d exceeds %d selectors", i, MaxSelectorsPerEntry)
		}
		if len(el.Description) > MaxDescriptionLength {
			return fmt.Errorf("element %d description exceeds %d characters", i, MaxDescriptionLength)
		}
		for _, p := range el.Patterns {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("element %d has an empty pattern", i)
			}
			if len(p) > MaxPatternLength {
				return fmt.Errorf("element %d pattern exceeds %d characters", i, MaxPatternLength)
			}
		}
		for _, s := range el.Selectors {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("element %d has an empty selector", i)
			}
			if len(s) > MaxSelectorLength {
				return fmt.Errorf("element %d selector exceeds %d characters", i, MaxSelectorLength)
			}
		}
	}
	return nil
}
