// Package sanitize cleans caller-supplied strings before they reach
// validation or storage.
package sanitize

import (
	"html"
	"strings"
)

// String trims whitespace, escapes HTML entities and strips NUL bytes.
func String(v string) string {
	if v == "" {
		return v
	}
	s := html.EscapeString(strings.TrimSpace(v))
	return strings.ReplaceAll(s, "\x00", "")
}

// Email normalizes an email address: trimmed, lowercased, NUL bytes
// stripped. Uniqueness checks and lookups always go through this form.
func Email(v string) string {
	if v == "" {
		return v
	}
	s := strings.ToLower(strings.TrimSpace(v))
	return strings.ReplaceAll(s, "\x00", "")
}
