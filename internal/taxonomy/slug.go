package taxonomy

import (
	"regexp"
	"strings"
)

var (
	// Matches any non-alphanumeric run.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a display name to a canonical code.
// "Science Fiction" -> "science-fiction".
// "TypeScript" -> "typescript".
// "Sci-Fi/Fantasy" -> "sci-fi-fantasy".
// The code is the source of truth for taxonomy identity.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Replace non-alphanumeric runs with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	// Trim leading/trailing hyphens.
	s = strings.Trim(s, "-")

	return s
}
