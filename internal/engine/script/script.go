// Package script converts Simplified Chinese text to Traditional Chinese.
package script

import (
	"strings"

	"github.com/crimson-sun/fairnorm/internal/engine/tables"
)

// Converter applies a phrase table first (longest match wins) and falls back to
// the per-character table. It holds no mutable state.
type Converter struct {
	phrases   map[string]string
	chars     map[rune]rune
	maxPhrase int
}

// New creates a Converter over the given mapping.
func New(s tables.Script) *Converter {
	return &Converter{phrases: s.Phrases, chars: s.Characters, maxPhrase: s.MaxPhrase}
}

// Convert returns the Traditional form of s. Mapped values never contain a
// mapped key, so Convert(Convert(s)) == Convert(s).
func (c *Converter) Convert(s string) string {
	if s == "" {
		return s
	}

	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(rs); {
		if n, repl, ok := c.matchPhrase(rs[i:]); ok {
			b.WriteString(repl)
			i += n
			continue
		}
		if t, ok := c.chars[rs[i]]; ok {
			b.WriteRune(t)
		} else {
			b.WriteRune(rs[i])
		}
		i++
	}
	return b.String()
}

// matchPhrase tries the longest phrase starting at rs[0].
func (c *Converter) matchPhrase(rs []rune) (int, string, bool) {
	for n := min(c.maxPhrase, len(rs)); n >= 2; n-- {
		if repl, ok := c.phrases[string(rs[:n])]; ok {
			return n, repl, true
		}
	}
	return 0, "", false
}
