// Package identity derives the deterministic identifier of a normalized event.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// Namespace is the fixed UUID namespace identifiers are derived under. It must
// never change: stored identity ids depend on it.
var Namespace = uuid.NameSpaceDNS

const separator = "|"

// Fields are the identity-defining values of a record.
type Fields struct {
	EventName     string
	Start         *time.Time
	Venue         string
	OrganizerName string
}

// Of returns the identity fields of a normalized record.
func Of(r model.NormalizedRecord) Fields {
	return Fields{
		EventName:     r.EventName,
		Start:         r.StartDatetime,
		Venue:         r.Venue,
		OrganizerName: r.OrganizerName,
	}
}

// Key is the canonical pre-image: the four fields lower-cased, trimmed and
// joined with "|". An absent start is the empty string.
func (f Fields) Key() string {
	start := ""
	if f.Start != nil {
		start = FormatStart(*f.Start)
	}
	parts := []string{f.EventName, start, f.Venue, f.OrganizerName}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, separator)
}

// ID returns the identity id: a SHA-1 name-based UUID (version 5) whose name
// is the hex SHA-256 digest of Key.
func (f Fields) ID() string {
	sum := sha256.Sum256([]byte(f.Key()))
	return uuid.NewSHA1(Namespace, []byte(hex.EncodeToString(sum[:]))).String()
}

// Generate is shorthand for Of(r).ID().
func Generate(r model.NormalizedRecord) string {
	return Of(r).ID()
}

// FormatStart renders a start time the way it enters the identity: RFC 3339 in
// UTC+8, second precision.
func FormatStart(t time.Time) string {
	return t.In(model.HK).Format(time.RFC3339)
}
