package textfilter

import (
	"regexp"
	"strings"
)

// Narrator output arrives in markdown with *asterisk* emphasis and
// loosely separated paragraphs. The chat surface renders _underscore_
// italics and wants one message per paragraph.
var (
	emphasis   = regexp.MustCompile(`\*+`)
	paragraphs = regexp.MustCompile(`\n+`)
)

// NormalizeHint cleans a narrator response for display: converts
// emphasis markers, trims whitespace and splits into paragraphs.
// Empty paragraphs are dropped.
func NormalizeHint(text string) []string {
	text = emphasis.ReplaceAllString(text, "_")

	parts := paragraphs.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
