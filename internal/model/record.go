package model

import (
	"slices"
	"time"
)

// HK is the fixed UTC+8 zone every timestamp is expressed in. Hong Kong has
// no daylight saving, so a fixed zone avoids depending on tzdata.
var HK = time.FixedZone("HKT", 8*60*60)

// Language is the coarse language label of a record's text.
type Language string

const (
	LangZHHK    Language = "ZH-HK"
	LangEN      Language = "EN"
	LangBoth    Language = "BOTH"
	LangUnknown Language = "UNKNOWN"
)

// Field names a NormalizedRecord field that may come out absent.
type Field string

const (
	FieldStart     Field = "start_datetime"
	FieldEnd       Field = "end_datetime"
	FieldVenue     Field = "venue"
	FieldDistrict  Field = "district"
	FieldLanguage  Field = "language"
	FieldEmail     Field = "contact_email"
	FieldPhone     Field = "contact_phone"
	FieldOrganizer Field = "organizer_name"
)

// Contact holds at most one email and one phone number.
type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Links holds canonicalized URLs.
type Links struct {
	Website  string `json:"website_link,omitempty"`
	Register string `json:"registration_link,omitempty"`
	Virtual  string `json:"virtual_link,omitempty"`
}

// NormalizedRecord is the engine's output. It is never mutated in place: a
// corrected record is a new value with a re-derived IdentityID.
type NormalizedRecord struct {
	EventName     string     `json:"event_name"`
	StartDatetime *time.Time `json:"start_datetime,omitempty"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`
	Venue         string     `json:"venue"`
	District      string     `json:"district,omitempty"`
	Address       string     `json:"address,omitempty"`
	Language      Language   `json:"language"`
	Contact       Contact    `json:"contact"`
	OrganizerName string     `json:"organizer_name,omitempty"`
	Description   string     `json:"description,omitempty"`
	Links         Links      `json:"links"`
	Source        SourceMeta `json:"source"`
	IdentityID    string     `json:"identity_id"`

	// Absent lists the fields that could not be parsed or were missing.
	Absent []Field `json:"absent,omitempty"`
}

// Has reports whether f was produced (i.e. is not listed as absent).
func (r NormalizedRecord) Has(f Field) bool {
	return !slices.Contains(r.Absent, f)
}

// View projects the record onto the fields the duplicate detector compares.
func (r NormalizedRecord) View() ExistingRecordView {
	return ExistingRecordView{
		IdentityID:    r.IdentityID,
		EventName:     r.EventName,
		StartDatetime: r.StartDatetime,
		Venue:         r.Venue,
	}
}

// ExistingRecordView is the subset of a stored record needed for duplicate
// comparison.
type ExistingRecordView struct {
	IdentityID    string     `json:"identity_id"`
	EventName     string     `json:"event_name"`
	StartDatetime *time.Time `json:"start_datetime,omitempty"`
	Venue         string     `json:"venue"`
}
