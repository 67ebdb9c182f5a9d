// utils/text.go
package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Icon glyphs and other decoration rendered next to a grade; letters, digits,
// whitespace, '+' and '-' are what a grade is made of.
var difficultyDecorationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s+\-]`)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// StripDecoration removes icon glyphs from a grade label and collapses whitespace.
func StripDecoration(s string) string {
	s = difficultyDecorationRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// NormalizeDifficulty strips decoration and lowercases a grade, so "🔥 6A+" becomes "6a+".
func NormalizeDifficulty(s string) string {
	return strings.ToLower(StripDecoration(s))
}

// CollapseSpace trims s and collapses inner runs of whitespace to single spaces.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// Truncate shortens s to max runes, appending "..." when something was cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
