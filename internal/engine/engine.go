package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/fairnorm/internal/engine/classifier"
	"github.com/crimson-sun/fairnorm/internal/engine/contact"
	"github.com/crimson-sun/fairnorm/internal/engine/dedup"
	"github.com/crimson-sun/fairnorm/internal/engine/district"
	"github.com/crimson-sun/fairnorm/internal/engine/identity"
	"github.com/crimson-sun/fairnorm/internal/engine/links"
	"github.com/crimson-sun/fairnorm/internal/engine/sanitize"
	"github.com/crimson-sun/fairnorm/internal/engine/script"
	"github.com/crimson-sun/fairnorm/internal/engine/tables"
	"github.com/crimson-sun/fairnorm/internal/engine/temporal"
	"github.com/crimson-sun/fairnorm/internal/engine/venue"
	"github.com/crimson-sun/fairnorm/internal/model"
)

// Config holds the engine's tunables.
type Config struct {
	Dedup          dedup.Config
	VenueCacheSize int
	Logger         *slog.Logger // nil: slog.Default()
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{Dedup: dedup.DefaultConfig(), VenueCacheSize: 1024}
}

// Engine orchestrates sanitize → script → language → temporal → venue →
// district → contact, then derives the identity. Every component is built once
// over the shared immutable tables, so an Engine is safe for concurrent use.
type Engine struct {
	tables    *tables.Tables
	script    *script.Converter
	venues    *venue.Normalizer
	districts *district.Extractor
	detector  *dedup.Detector
	logger    *slog.Logger
}

// New creates an Engine over tbl.
func New(tbl *tables.Tables, cfg Config) (*Engine, error) {
	if err := cfg.Dedup.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	venues, err := venue.New(tbl.Venues(), cfg.VenueCacheSize)
	if err != nil {
		return nil, fmt.Errorf("engine: venue cache: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		tables:    tbl,
		script:    script.New(tbl.Script()),
		venues:    venues,
		districts: district.New(tbl.Districts()),
		detector:  dedup.New(cfg.Dedup),
		logger:    logger,
	}, nil
}

// Tables returns the reference tables the engine was built over.
func (e *Engine) Tables() *tables.Tables { return e.tables }

// Detector returns the engine's duplicate detector.
func (e *Engine) Detector() *dedup.Detector { return e.detector }

// Normalize turns a raw record into its canonical form. It never fails:
// anything that cannot be parsed is left empty and listed in Absent. An empty
// hint falls back to the record's own SourceHint.
func (e *Engine) Normalize(raw model.RawRecord, hint model.SourceHint) model.NormalizedRecord {
	if hint == model.HintNone {
		hint = raw.SourceHint
	}

	rec := model.NormalizedRecord{
		EventName:     e.script.Convert(sanitize.Clean(raw.EventName)),
		Description:   e.script.Convert(sanitize.Clean(raw.DescriptionRaw)),
		OrganizerName: e.script.Convert(sanitize.Clean(raw.OrganizerName)),
		Address:       sanitize.Clean(raw.AddressRaw),
		Source:        raw.Source,
	}
	var absent []model.Field

	rec.Language = classifier.Classify(rec.EventName + " " + rec.Description).Language
	if rec.Language == model.LangUnknown {
		absent = append(absent, model.FieldLanguage)
	}

	if start, ok := e.parseStart(raw, hint); ok {
		rec.StartDatetime = &start
	} else {
		absent = append(absent, model.FieldStart)
	}
	if end, ok := temporal.ParseEnd(raw.EndRaw, rec.StartDatetime, hint); ok {
		rec.EndDatetime = &end
	} else {
		absent = append(absent, model.FieldEnd)
	}

	rec.Venue = e.venues.Normalize(sanitize.Clean(raw.VenueRaw)).Venue
	if rec.Venue == "" {
		absent = append(absent, model.FieldVenue)
	}

	if d, ok := e.districts.Extract(rec.Address); ok {
		rec.District = d
	} else {
		absent = append(absent, model.FieldDistrict)
	}

	rec.Contact = contact.Extract(rec.Description, rec.Address)
	if rec.Contact.Email == "" {
		absent = append(absent, model.FieldEmail)
	}
	if rec.Contact.Phone == "" {
		absent = append(absent, model.FieldPhone)
	}
	if rec.OrganizerName == "" {
		absent = append(absent, model.FieldOrganizer)
	}

	rec.Links = links.Of(raw)
	rec.Absent = absent
	rec.IdentityID = identity.Generate(rec)

	if len(absent) > 0 {
		e.logger.Debug("normalized with absent fields",
			"event", rec.EventName, "source", rec.Source.ID, "absent", absent)
	}
	return rec
}

func (e *Engine) parseStart(raw model.RawRecord, hint model.SourceHint) (t time.Time, ok bool) {
	if raw.StartRaw != "" {
		return temporal.Parse(raw.StartRaw, hint)
	}
	return temporal.ParseParts(raw.DateRaw, raw.TimeRaw, hint)
}

// NormalizeBatch normalizes raws sequentially in input order.
func (e *Engine) NormalizeBatch(raws []model.RawRecord, hint model.SourceHint) []model.NormalizedRecord {
	out := make([]model.NormalizedRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, e.Normalize(raw, hint))
	}
	return out
}

// Identity derives the identity id of rec from its four identity fields.
func (e *Engine) Identity(rec model.NormalizedRecord) string {
	return identity.Generate(rec)
}

// CheckDuplicate checks rec against existing with the given name threshold.
// An exact identity match wins regardless of threshold.
func (e *Engine) CheckDuplicate(rec model.NormalizedRecord, existing []model.ExistingRecordView, threshold float64) dedup.Result {
	return e.detector.CheckWithThreshold(rec, existing, threshold)
}

// Renormalize feeds a normalized record's own fields back through Normalize.
// Canonical values come back unchanged.
func (e *Engine) Renormalize(rec model.NormalizedRecord) model.NormalizedRecord {
	raw := model.RawRecord{
		EventName:      rec.EventName,
		EndRaw:         formatTime(rec.EndDatetime),
		StartRaw:       formatTime(rec.StartDatetime),
		VenueRaw:       rec.Venue,
		AddressRaw:     rec.Address,
		OrganizerName:  rec.OrganizerName,
		DescriptionRaw: rec.Description,
		WebsiteLink:    rec.Links.Website,
		RegisterLink:   rec.Links.Register,
		VirtualLink:    rec.Links.Virtual,
		Source:         rec.Source,
	}
	return e.Normalize(raw, model.HintNone)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return identity.FormatStart(*t)
}
