package model

// SourceHint selects a source-specific parsing strategy. The zero value means
// no hint; only HintGovernment currently changes behavior.
type SourceHint string

const (
	HintNone       SourceHint = ""
	HintGovernment SourceHint = "government"
)

// SourceMeta describes the collaborator a record was scraped from.
type SourceMeta struct {
	ID       string `json:"source_id,omitempty"`
	Name     string `json:"source_name,omitempty"`
	Type     string `json:"source_type,omitempty"`     // GOVERNMENT, JOB_PORTAL, ...
	Priority string `json:"source_priority,omitempty"` // PRIMARY, SECONDARY
}

// RawRecord is the intermediate type produced by scrapers and consumed once by
// the engine. Date and time may arrive combined (StartRaw) or split
// (DateRaw/TimeRaw).
type RawRecord struct {
	EventName      string     `json:"event_name"`
	StartRaw       string     `json:"start_raw,omitempty"`
	EndRaw         string     `json:"end_raw,omitempty"`
	DateRaw        string     `json:"date_raw,omitempty"`
	TimeRaw        string     `json:"time_raw,omitempty"`
	VenueRaw       string     `json:"venue_raw,omitempty"`
	AddressRaw     string     `json:"address_raw,omitempty"`
	OrganizerName  string     `json:"organizer_name,omitempty"`
	DescriptionRaw string     `json:"description_raw,omitempty"`
	WebsiteLink    string     `json:"website_link,omitempty"`
	RegisterLink   string     `json:"registration_link,omitempty"`
	VirtualLink    string     `json:"virtual_link,omitempty"`
	Source         SourceMeta `json:"source"`
	SourceHint     SourceHint `json:"source_hint,omitempty"`
}
