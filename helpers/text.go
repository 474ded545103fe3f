package helpers

import (
	"regexp"
	"strings"
)

// Also covers Unicode spaces such as NBSP, which the target site puts
// between numbers and units.
var whitespaceRe = regexp.MustCompile(`[\s\p{Zs}]+`)

// CleanText collapses whitespace runs into single spaces and trims the ends
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + " …"
}
