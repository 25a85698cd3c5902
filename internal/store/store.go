// Package store provides candidate sets for duplicate detection and persists
// accepted records. Storage owns the uniqueness guarantee: concurrent inserts
// of the same identity are resolved by the store, not by the detector.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// ErrUnknownProvider is returned by Open for an unregistered provider name.
var ErrUnknownProvider = errors.New("unknown store provider")

// Store is a candidate-set provider.
type Store interface {
	// Candidates returns existing records that share an identity with recs or
	// start within the window around their start times.
	Candidates(ctx context.Context, recs []model.NormalizedRecord, maxDayDiff int) ([]model.ExistingRecordView, error)

	// Insert stores recs, skipping identities already present. It returns
	// the number of rows actually inserted.
	Insert(ctx context.Context, recs []model.NormalizedRecord) (int, error)

	Close() error
}

// Config holds store connection settings.
type Config struct {
	Provider       string
	Path           string
	DSN            string
	ConnectTimeout time.Duration
}

// Constructor opens a Store.
type Constructor func(ctx context.Context, cfg Config) (Store, error)

var registry = map[string]Constructor{
	"none": func(context.Context, Config) (Store, error) { return Nop{}, nil },
}

// Register adds a store constructor under the given provider name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Open constructs the store named by cfg.Provider.
func Open(ctx context.Context, cfg Config) (Store, error) {
	ctor, ok := registry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	return ctor(ctx, cfg)
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Window is the start-time range a batch's candidates must fall in.
type Window struct {
	IDs      []string
	From, To time.Time
	HasRange bool
}

// WindowFor computes the identity list and the padded start range for recs.
// The range is widened by one extra day on each side so calendar-day
// comparisons in UTC+8 never miss a row near midnight.
func WindowFor(recs []model.NormalizedRecord, maxDayDiff int) Window {
	var w Window
	for _, r := range recs {
		if r.IdentityID != "" {
			w.IDs = append(w.IDs, r.IdentityID)
		}
		if r.StartDatetime == nil {
			continue
		}
		s := *r.StartDatetime
		if !w.HasRange || s.Before(w.From) {
			w.From = s
		}
		if !w.HasRange || s.After(w.To) {
			w.To = s
		}
		w.HasRange = true
	}
	if w.HasRange {
		pad := time.Duration(maxDayDiff+1) * 24 * time.Hour
		w.From = w.From.Add(-pad)
		w.To = w.To.Add(pad)
	}
	return w
}

// Contains reports whether v belongs to the window.
func (w Window) Contains(v model.ExistingRecordView) bool {
	for _, id := range w.IDs {
		if id == v.IdentityID {
			return true
		}
	}
	if !w.HasRange || v.StartDatetime == nil {
		return false
	}
	s := *v.StartDatetime
	return !s.Before(w.From) && !s.After(w.To)
}

// Nop is the "none" provider: no candidates, inserts are discarded.
type Nop struct{}

func (Nop) Candidates(context.Context, []model.NormalizedRecord, int) ([]model.ExistingRecordView, error) {
	return nil, nil
}

func (Nop) Insert(context.Context, []model.NormalizedRecord) (int, error) { return 0, nil }

func (Nop) Close() error { return nil }
