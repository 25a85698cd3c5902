// Package district finds a Hong Kong district name inside address text.
package district

import (
	"regexp"
	"strings"

	"github.com/crimson-sun/fairnorm/internal/model"
)

type matcher struct {
	canonical string
	literals  []string       // Chinese spellings, matched as substrings
	english   *regexp.Regexp // nil when the district has no English spellings
}

// Extractor scans addresses for the 18 districts. It is immutable after New.
type Extractor struct {
	matchers []matcher
}

// New compiles the district table.
func New(districts []model.District) *Extractor {
	e := &Extractor{matchers: make([]matcher, 0, len(districts))}
	for _, d := range districts {
		m := matcher{canonical: d.Name, literals: append([]string{d.Name}, d.Aliases...)}
		if len(d.English) > 0 {
			alts := make([]string, len(d.English))
			for i, en := range d.English {
				alts[i] = strings.Join(strings.Fields(regexp.QuoteMeta(en)), `\s+`)
			}
			m.english = regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
		}
		e.matchers = append(e.matchers, m)
	}
	return e
}

// Extract returns the canonical Chinese name of the district mentioned
// earliest in address. When two spellings start at the same offset the longer
// one wins, so "九龍城區" beats a shorter overlapping name.
func (e *Extractor) Extract(address string) (string, bool) {
	if strings.TrimSpace(address) == "" {
		return "", false
	}
	bestAt, bestLen, best := -1, 0, ""
	consider := func(at, n int, canonical string) {
		if at < 0 {
			return
		}
		if bestAt < 0 || at < bestAt || (at == bestAt && n > bestLen) {
			bestAt, bestLen, best = at, n, canonical
		}
	}

	for _, m := range e.matchers {
		for _, lit := range m.literals {
			consider(strings.Index(address, lit), len(lit), m.canonical)
		}
		if m.english != nil {
			if loc := m.english.FindStringIndex(address); loc != nil {
				consider(loc[0], loc[1]-loc[0], m.canonical)
			}
		}
	}
	return best, bestAt >= 0
}

// Names returns the canonical district names in table order.
func (e *Extractor) Names() []string {
	names := make([]string, len(e.matchers))
	for i, m := range e.matchers {
		names[i] = m.canonical
	}
	return names
}
