package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title into a lowercase URL-safe slug:
// "Why Cabinet Refinishing Beats Replacement" -> "why-cabinet-refinishing-beats-replacement".
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// UniqueSlug appends a short random suffix so two posts with the same title
// never collide on slug.
func UniqueSlug(title string) string {
	base := Slugify(title)
	suffix := uuid.New().String()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
