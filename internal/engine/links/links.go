// Package links canonicalizes event website, registration and streaming URLs.
package links

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"

	"github.com/crimson-sun/fairnorm/internal/engine/sanitize"
	"github.com/crimson-sun/fairnorm/internal/model"
)

const flags = purell.FlagsSafe | purell.FlagRemoveDotSegments | purell.FlagRemoveFragment

// Normalize returns the canonical form of a URL: https:// is assumed when the
// scheme is missing, scheme and host are lower-cased and default ports are
// dropped. Text that does not look like a web URL yields ok=false.
func Normalize(raw string) (string, bool) {
	s := sanitize.Clean(raw)
	if s == "" || strings.ContainsAny(s, " \t") {
		return "", false
	}
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}
	out, err := purell.NormalizeURLString(s, flags)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(out)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return out, true
}

// Of normalizes the three links of a raw record. Invalid links are dropped.
func Of(r model.RawRecord) model.Links {
	var l model.Links
	l.Website, _ = Normalize(r.WebsiteLink)
	l.Register, _ = Normalize(r.RegisterLink)
	l.Virtual, _ = Normalize(r.VirtualLink)
	return l
}
