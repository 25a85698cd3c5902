// Package venue maps free-text venue strings to canonical venue names.
package venue

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/crimson-sun/fairnorm/internal/engine/sanitize"
	"github.com/crimson-sun/fairnorm/internal/engine/tables"
)

// Result is the outcome of normalizing one venue string.
type Result struct {
	Venue   string
	Matched bool // an alias rule fired
}

// Normalizer applies the ordered alias rules. The cache only memoizes pure
// lookups and is safe for concurrent use.
type Normalizer struct {
	rules []tables.VenueRule
	cache *lru.Cache[string, Result]
}

// New creates a Normalizer. cacheSize <= 0 disables memoization.
func New(rules []tables.VenueRule, cacheSize int) (*Normalizer, error) {
	n := &Normalizer{rules: rules}
	if cacheSize > 0 {
		c, err := lru.New[string, Result](cacheSize)
		if err != nil {
			return nil, err
		}
		n.cache = c
	}
	return n, nil
}

// Normalize collapses whitespace and returns the canonical name of the first
// rule with a pattern found in the text. Unknown venues come back cleaned but
// otherwise unchanged.
func (n *Normalizer) Normalize(raw string) Result {
	s := sanitize.Collapse(raw)
	if s == "" {
		return Result{}
	}
	if n.cache != nil {
		if r, ok := n.cache.Get(s); ok {
			return r
		}
	}
	r := n.lookup(s)
	if n.cache != nil {
		n.cache.Add(s, r)
	}
	return r
}

func (n *Normalizer) lookup(s string) Result {
	for _, rule := range n.rules {
		for _, re := range rule.Patterns {
			if re.MatchString(s) {
				return Result{Venue: rule.Canonical, Matched: true}
			}
		}
	}
	return Result{Venue: s}
}
