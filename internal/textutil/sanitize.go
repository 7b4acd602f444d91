package textutil

import (
	"path/filepath"
	"strings"
)

// SanitizeSegment makes name safe for use as a single path element. Path
// separators, colons and NUL become hyphens; surrounding whitespace and dots
// are dropped. An empty result yields fallback.
func SanitizeSegment(name, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '/', '\\', ':', 0:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), " .")
	if out == "" {
		return fallback
	}
	return out
}

// LeadingToken returns the filename stem up to the first space, else the
// first underscore, else the first hyphen.
func LeadingToken(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	for _, delim := range []string{" ", "_", "-"} {
		if i := strings.Index(stem, delim); i >= 0 {
			return stem[:i]
		}
	}
	return stem
}
