// Package sanitize strips markup from scraped text and normalizes whitespace.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var tagPattern = regexp.MustCompile(`<[^<>]*>`)

// maxRounds bounds the decode and strip loop. Scraped text settles in one or
// two rounds.
const maxRounds = 8

// Clean folds to NFKC (full-width ASCII and ideographic spaces included),
// decodes HTML entities, removes anything shaped like a markup tag, drops
// control characters and collapses whitespace runs to a single space. The
// steps repeat until the text stops changing, so nested tags and
// double-encoded entities are removed too and Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return ""
	}
	for range maxRounds {
		next := round(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func round(s string) string {
	s = fold(html.UnescapeString(fold(s)))
	s = tagPattern.ReplaceAllString(s, " ")
	return Collapse(s)
}

// Collapse trims s and replaces every whitespace run with one ASCII space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fold(s string) string {
	t := transform.Chain(norm.NFKC, runes.Remove(runes.Predicate(isStrayControl)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// isStrayControl matches control and format runes that are not whitespace.
func isStrayControl(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}
