package output

import (
	"fmt"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// Verbosity controls which fields an output keeps.
type Verbosity int

const (
	// Minimal keeps identity, timing, place and language only.
	Minimal Verbosity = iota
	// Standard keeps every field.
	Standard
)

// ParseVerbosity maps "minimal" and "standard" to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "minimal":
		return Minimal, nil
	case "standard", "":
		return Standard, nil
	default:
		return Standard, fmt.Errorf("output: unknown verbosity %q", s)
	}
}

// FormatRecord returns a copy of the record with fields stripped according to
// verbosity. Stripped fields are omitted from JSON via omitempty.
func FormatRecord(r model.NormalizedRecord, verbosity Verbosity) model.NormalizedRecord {
	if verbosity == Minimal {
		r.Description = ""
		r.Address = ""
		r.Contact = model.Contact{}
		r.Links = model.Links{}
		r.Absent = nil
	}
	return r
}
