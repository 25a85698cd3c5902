package fairnorm

import "github.com/crimson-sun/fairnorm/internal/model"

// RawRecord is a scraped, unnormalized job fair record.
type RawRecord = model.RawRecord

// Record is a normalized job fair record.
type Record = model.NormalizedRecord

// ExistingRecord is the subset of a stored record used for duplicate checks.
type ExistingRecord = model.ExistingRecordView

// SourceMeta describes where a record came from.
type SourceMeta = model.SourceMeta

// SourceHint selects a source-specific parsing strategy.
type SourceHint = model.SourceHint

// Language is the coarse language label of a record.
type Language = model.Language

// Field names a Record field that may be absent.
type Field = model.Field

const (
	HintNone       = model.HintNone
	HintGovernment = model.HintGovernment
)

const (
	LangZHHK    = model.LangZHHK
	LangEN      = model.LangEN
	LangBoth    = model.LangBoth
	LangUnknown = model.LangUnknown
)
