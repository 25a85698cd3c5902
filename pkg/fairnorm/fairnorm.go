package fairnorm

import (
	"fmt"

	"github.com/crimson-sun/fairnorm/internal/engine"
	"github.com/crimson-sun/fairnorm/internal/engine/tables"
)

// Engine normalizes records and checks them for duplicates.
// Safe for concurrent use.
type Engine struct {
	engine *engine.Engine
}

// New creates an Engine, loading and compiling the reference tables.
// Invalid tables are the only error.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		tbl *tables.Tables
		err error
	)
	if o.tablesDir != "" {
		tbl, err = tables.LoadDir(o.tablesDir)
	} else {
		tbl, err = tables.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("fairnorm: %w", err)
	}

	eng, err := engine.New(tbl, o.cfg)
	if err != nil {
		return nil, fmt.Errorf("fairnorm: %w", err)
	}
	return &Engine{engine: eng}, nil
}

// Normalize turns a raw record into a Record. An empty hint falls back to
// raw.SourceHint.
func (e *Engine) Normalize(raw RawRecord, hint SourceHint) Record {
	return e.engine.Normalize(raw, hint)
}

// NormalizeBatch normalizes raws in order.
func (e *Engine) NormalizeBatch(raws []RawRecord, hint SourceHint) []Record {
	return e.engine.NormalizeBatch(raws, hint)
}

// Identity returns the deterministic identity id of r, derived from its event
// name, start, venue and organizer.
func (e *Engine) Identity(r Record) string {
	return e.engine.Identity(r)
}

// CheckDuplicate reports whether r duplicates one of existing and returns the
// matched record. A shared identity always matches; otherwise the first
// record starting within the day window whose name matches at or above
// threshold is returned.
func (e *Engine) CheckDuplicate(r Record, existing []ExistingRecord, threshold float64) (bool, *ExistingRecord) {
	res := e.engine.CheckDuplicate(r, existing, threshold)
	return res.Duplicate, res.Match
}

// Deduplicate drops records that duplicate existing or an earlier record in
// recs, using the configured threshold. Order is preserved.
func (e *Engine) Deduplicate(recs []Record, existing []ExistingRecord) []Record {
	unique, _ := e.engine.Detector().DeduplicateBatch(recs, existing)
	return unique
}

// Districts returns the canonical names of the 18 districts.
func (e *Engine) Districts() []string {
	ds := e.engine.Tables().Districts()
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return names
}
