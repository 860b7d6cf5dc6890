// Package identity normalizes and validates player handles.
//
// A handle is an Instagram-style name like "@Alice_99". Two handles name the
// same player iff their canonical forms are equal: lowercase, with exactly
// one leading "@" marker.
package identity

import (
	"regexp"
	"strings"
)

// Marker is the prefix character of a canonical handle.
const Marker = "@"

// handlePattern matches the marker-stripped form of a valid handle.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// Normalize returns the canonical form of a raw handle: trimmed of
// whitespace, one leading marker stripped, lowercased, marker re-applied.
// Blank input normalizes to "". Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, Marker)
	s = strings.ToLower(s)
	if s == "" {
		return ""
	}
	return Marker + s
}

// IsValid reports whether the marker-stripped form of s is a well-formed
// handle: 1-30 characters from letters, digits, '.' and '_'.
func IsValid(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, Marker)
	return handlePattern.MatchString(s)
}
