// Package content holds the deterministic transforms applied to CMS post
// content and metadata before it is rendered: reading time, dates, HTML
// decoration, table of contents, excerpts and share links.
package content

import (
	"html"
	"math"
	"regexp"
	"strings"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 225

// DefaultExcerptLength is the excerpt cut-off used by card listings and meta
// descriptions.
const DefaultExcerptLength = 160

var reTag = regexp.MustCompile(`<[^>]*>?`)

// StripTags removes anything that looks like an HTML tag. Entities are left
// untouched.
func StripTags(s string) string {
	return reTag.ReplaceAllString(s, "")
}

// PlainText strips tags and decodes entities, for meta descriptions and
// other text-only contexts.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(StripTags(s)))
}

// ReadingTime estimates minutes needed to read htmlContent. The result is
// never below one minute.
func ReadingTime(htmlContent string) int {
	if htmlContent == "" {
		return 1
	}
	words := len(strings.Fields(StripTags(htmlContent)))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns the text of htmlContent cut to at most maxLength runes.
// Longer text is cut at the last space at or before maxLength (or hard cut
// when there is none) and gets a trailing ellipsis.
func Excerpt(htmlContent string, maxLength int) string {
	if htmlContent == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	text := StripTags(htmlContent)
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	cut := maxLength
	if bp := lastSpaceAtOrBefore(runes, maxLength); bp > 0 {
		cut = bp
	}
	return string(runes[:cut]) + "..."
}

func lastSpaceAtOrBefore(runes []rune, idx int) int {
	if idx >= len(runes) {
		idx = len(runes) - 1
	}
	for i := idx; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
