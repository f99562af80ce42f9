package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizePlayerName lowercases a display name and capitalizes every word and
// hyphen-separated segment, so "jan-willem" becomes "Jan-Willem".
// Whitespace runs collapse to a single space. Returns "" for blank input.
func NormalizePlayerName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return ""
	}
	name = cases.Lower(language.Und).String(name)

	var b strings.Builder
	b.Grow(len(name))
	atStart := true
	for _, r := range name {
		if atStart && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		atStart = r == ' ' || r == '-'
	}
	return b.String()
}

// SameName reports whether two player or category names are equal ignoring case
// and surrounding whitespace.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
