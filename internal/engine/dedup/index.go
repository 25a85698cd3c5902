package dedup

import (
	"github.com/crimson-sun/fairnorm/internal/engine/identity"
	"github.com/crimson-sun/fairnorm/internal/model"
)

type entry struct {
	pos  int // insertion order, the fuzzy tie-break
	view model.ExistingRecordView
}

// Index buckets candidates by identity and by start day so a check only
// visits the days inside the proximity gate. Records without a start never
// match fuzzily and are only reachable by identity.
type Index struct {
	byID  map[string]entry
	byDay map[int][]entry
	n     int
}

// NewIndex builds an index over existing in input order.
func NewIndex(existing []model.ExistingRecordView) *Index {
	idx := &Index{
		byID:  make(map[string]entry, len(existing)),
		byDay: make(map[int][]entry),
	}
	for _, v := range existing {
		idx.Add(v)
	}
	return idx
}

// Add appends a candidate. The first record added for an identity keeps it.
func (idx *Index) Add(v model.ExistingRecordView) {
	e := entry{pos: idx.n, view: v}
	idx.n++
	if v.IdentityID != "" {
		if _, ok := idx.byID[v.IdentityID]; !ok {
			idx.byID[v.IdentityID] = e
		}
	}
	if v.StartDatetime != nil {
		day := dayNumber(*v.StartDatetime)
		idx.byDay[day] = append(idx.byDay[day], e)
	}
}

// Has reports whether a candidate with identity id was added.
func (idx *Index) Has(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

// Merge adds each of views whose identity is not yet indexed.
func (idx *Index) Merge(views []model.ExistingRecordView) {
	for _, v := range views {
		if v.IdentityID != "" && idx.Has(v.IdentityID) {
			continue
		}
		idx.Add(v)
	}
}

// Len returns the number of candidates added.
func (idx *Index) Len() int { return idx.n }

// Check runs the exact then fuzzy tests for rec.
func (idx *Index) Check(cfg Config, rec model.NormalizedRecord) Result {
	id := identity.Generate(rec)
	if e, ok := idx.byID[id]; ok {
		v := e.view
		return Result{Duplicate: true, Match: &v, Kind: KindExact, Ratio: 1}
	}

	if rec.StartDatetime == nil || cfg.MaxDayDiff < 0 {
		return Result{}
	}
	day := dayNumber(*rec.StartDatetime)

	var best *entry
	var bestRatio float64
	for d := day - cfg.MaxDayDiff; d <= day+cfg.MaxDayDiff; d++ {
		for i := range idx.byDay[d] {
			e := &idx.byDay[d][i]
			if best != nil && e.pos > best.pos {
				break
			}
			r := NameRatio(rec.EventName, e.view.EventName, cfg.PrefixLen)
			if r >= cfg.Threshold && r > 0 {
				best, bestRatio = e, r
				break
			}
		}
	}
	if best == nil {
		return Result{}
	}
	v := best.view
	return Result{Duplicate: true, Match: &v, Kind: KindFuzzy, Ratio: bestRatio}
}
