package dedup

import (
	"fmt"
	"strings"
	"time"

	"github.com/crimson-sun/fairnorm/internal/engine/identity"
	"github.com/crimson-sun/fairnorm/internal/model"
)

// Kind says which test flagged a duplicate.
type Kind string

const (
	KindNone  Kind = ""
	KindExact Kind = "exact"
	KindFuzzy Kind = "fuzzy"
)

// Config controls the fuzzy fallback.
type Config struct {
	Threshold  float64 // minimum name match ratio (default 0.6)
	MaxDayDiff int     // date-proximity gate in calendar days (default 1)
	PrefixLen  int     // runes of the event name compared (default 10)
}

// MaxDayDiffLimit is the widest date-proximity gate accepted. Index.Check
// scans one bucket per day inside the gate.
const MaxDayDiffLimit = 366

// Validate rejects a gate outside [0, MaxDayDiffLimit].
func (c Config) Validate() error {
	if c.MaxDayDiff < 0 || c.MaxDayDiff > MaxDayDiffLimit {
		return fmt.Errorf("dedup: max day diff %d outside [0, %d]", c.MaxDayDiff, MaxDayDiffLimit)
	}
	return nil
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{Threshold: 0.6, MaxDayDiff: 1, PrefixLen: 10}
}

// Result is the outcome of checking one candidate.
type Result struct {
	Duplicate bool
	Match     *model.ExistingRecordView
	Kind      Kind
	Ratio     float64 // name match ratio of a fuzzy hit
}

// Detector decides duplicate status against a caller-supplied candidate set.
// It performs no I/O and holds no state beyond its config.
type Detector struct {
	cfg Config
}

// New creates a Detector with the given config.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config { return d.cfg }

// Check reports whether rec duplicates any of existing. rec's identity is
// recomputed from its fields. An identity match anywhere in existing wins over
// any fuzzy match; otherwise the first fuzzy hit in input order is returned.
func (d *Detector) Check(rec model.NormalizedRecord, existing []model.ExistingRecordView) Result {
	return NewIndex(existing).Check(d.cfg, rec)
}

// CheckWithThreshold is Check with a per-call threshold override.
func (d *Detector) CheckWithThreshold(rec model.NormalizedRecord, existing []model.ExistingRecordView, threshold float64) Result {
	cfg := d.cfg
	cfg.Threshold = threshold
	return NewIndex(existing).Check(cfg, rec)
}

// DeduplicateBatch filters records against existing and against the records
// it has already accepted from the same batch. It returns the unique records
// in input order and the result for every record flagged as a duplicate.
func (d *Detector) DeduplicateBatch(records []model.NormalizedRecord, existing []model.ExistingRecordView) ([]model.NormalizedRecord, []Result) {
	if len(records) == 0 {
		return nil, nil
	}
	return d.DeduplicateInto(NewIndex(existing), records)
}

// DeduplicateInto is DeduplicateBatch over a caller-owned index. Every unique
// record is added to idx, so an index kept across calls also catches
// duplicates split between batches.
func (d *Detector) DeduplicateInto(idx *Index, records []model.NormalizedRecord) ([]model.NormalizedRecord, []Result) {
	unique := make([]model.NormalizedRecord, 0, len(records))
	var dups []Result

	for _, r := range records {
		res := idx.Check(d.cfg, r)
		if res.Duplicate {
			dups = append(dups, res)
			continue
		}
		view := r.View()
		view.IdentityID = identity.Generate(r)
		idx.Add(view)
		unique = append(unique, r)
	}
	return unique, dups
}

// NameRatio is the positional match ratio of the first min(prefixLen, shorter)
// lower-cased runes of a and b. Two empty names score 0.
func NameRatio(a, b string, prefixLen int) float64 {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))
	n := min(prefixLen, len(ra), len(rb))
	if n <= 0 {
		return 0
	}
	same := 0
	for i := 0; i < n; i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(n)
}

// DayDiff returns the absolute difference in Hong Kong calendar days.
func DayDiff(a, b time.Time) int {
	diff := dayNumber(a) - dayNumber(b)
	if diff < 0 {
		return -diff
	}
	return diff
}

// dayNumber counts calendar days since the Unix epoch in UTC+8.
func dayNumber(t time.Time) int {
	y, m, d := t.In(model.HK).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
