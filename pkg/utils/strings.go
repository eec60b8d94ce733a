package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Slugify converts a display name into a URL-safe slug.
// e.g. "Men's Shirts" -> "mens-shirts", "Home  Decoration" -> "home-decoration"
// Slugify(Slugify(x)) == Slugify(x) for every x.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))

	// Whitespace becomes hyphens before stripping, so "skin care" keeps its word break
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")

	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
