// Package contact pulls an email address and a Hong Kong phone number out of
// free text. Matching is by shape only.
package contact

import (
	"regexp"

	"github.com/crimson-sun/fairnorm/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// The leading and trailing groups stand in for digit look-arounds so a
	// longer digit run is not read as a phone number.
	phonePattern = regexp.MustCompile(`(^|[^\d+])((?:\+852[\s-]?)?\d{4} ?\d{4})(\D|$)`)
)

// Extract scans each text in order and returns the first email and the first
// phone number found. Either may be empty.
func Extract(texts ...string) model.Contact {
	var c model.Contact
	for _, s := range texts {
		if c.Email == "" {
			c.Email = Email(s)
		}
		if c.Phone == "" {
			c.Phone = Phone(s)
		}
		if c.Email != "" && c.Phone != "" {
			break
		}
	}
	return c
}

// Email returns the first email-shaped substring of s.
func Email(s string) string {
	return emailPattern.FindString(s)
}

// Phone returns the first phone-shaped substring of s: an optional +852
// prefix and eight digits, optionally split 4+4 by one space.
func Phone(s string) string {
	m := phonePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[2]
}
