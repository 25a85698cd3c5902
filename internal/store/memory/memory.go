// Package memory implements an in-process store backed by an optional NDJSON
// file of existing records.
package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/store"
)

const maxLine = 4 << 20

func init() {
	store.Register("memory", func(_ context.Context, cfg store.Config) (store.Store, error) {
		s, err := Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Store keeps existing records in memory. When Path is set, inserted records
// are appended to it as NormalizedRecord lines.
type Store struct {
	mu   sync.RWMutex
	path string
	ids  map[string]struct{}
	recs []model.ExistingRecordView
}

// New returns an empty store seeded with recs.
func New(recs ...model.ExistingRecordView) *Store {
	s := &Store{ids: make(map[string]struct{})}
	for _, r := range recs {
		s.add(r)
	}
	return s
}

// Open loads existing records from path. A missing file yields an empty store
// that will create path on the first insert. An empty path disables persistence.
func Open(path string) (*Store, error) {
	s := New()
	s.path = path
	if path == "" {
		return s, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	defer f.Close()
	if err := s.load(f); err != nil {
		return nil, fmt.Errorf("memory store %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var v model.ExistingRecordView
		if err := json.Unmarshal(b, &v); err != nil {
			slog.Warn("skipping malformed stored record", "line", line, "error", err)
			continue
		}
		s.add(v)
	}
	return sc.Err()
}

func (s *Store) add(v model.ExistingRecordView) bool {
	if v.IdentityID != "" {
		if _, dup := s.ids[v.IdentityID]; dup {
			return false
		}
		s.ids[v.IdentityID] = struct{}{}
	}
	s.recs = append(s.recs, v)
	return true
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// Candidates returns stored records in insertion order that fall inside the
// window of recs.
func (s *Store) Candidates(_ context.Context, recs []model.NormalizedRecord, maxDayDiff int) ([]model.ExistingRecordView, error) {
	w := store.WindowFor(recs, maxDayDiff)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ExistingRecordView
	for _, v := range s.recs {
		if w.Contains(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Insert adds recs whose identity is not yet stored.
func (s *Store) Insert(_ context.Context, recs []model.NormalizedRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var added []model.NormalizedRecord
	for _, r := range recs {
		if s.add(r.View()) {
			added = append(added, r)
		}
	}
	if s.path == "" || len(added) == 0 {
		return len(added), nil
	}
	if err := appendLines(s.path, added); err != nil {
		return len(added), fmt.Errorf("memory store: %w", err)
	}
	return len(added), nil
}

func appendLines(path string, recs []model.NormalizedRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) Close() error { return nil }
