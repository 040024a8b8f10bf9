// Package intent classifies free-text user queries into typed guidance intents.
//
// Classification is deterministic and pure: three ordered keyword sets
// (navigation, interaction, explanation) are scanned in priority order and
// the first containment match fixes the intent type. Queries with no keyword
// default to LOCATE so that bare element names like "settings" still resolve.
//
// The tie-break rules (set priority, then in-list order) are part of the wire
// compatibility contract with existing clients and must not be reordered.
package intent
