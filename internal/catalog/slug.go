package catalog

import (
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparate = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lowercases the name, drops punctuation and joins words with single hyphens.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSeparate.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
