// Package catalog maps semantic UI pattern keywords to selector candidates.
//
// Two sources feed the matcher: a fixed built-in catalog of common UI
// patterns (settings, profile, navigation, forms, actions) that ships with
// the binary and is never mutated, and a process-wide registry of
// per-application schemas registered at runtime over the session protocol
// or seeded from disk at startup.
//
// The registry is safe for concurrent use: schema registration from one
// session may interleave with matching reads from others.
package catalog
