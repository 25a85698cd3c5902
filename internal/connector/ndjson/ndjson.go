// Package ndjson reads raw records encoded one JSON object per line.
package ndjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/crimson-sun/fairnorm/internal/connector"
	"github.com/crimson-sun/fairnorm/internal/model"
)

const maxLine = 4 * 1024 * 1024

func init() {
	connector.Register("ndjson", func() connector.Connector {
		return &Connector{}
	})
}

// Connector implements connector.Connector over newline-delimited JSON.
// Blank lines are skipped; malformed lines are logged and skipped.
type Connector struct{}

func (c *Connector) Stream(ctx context.Context, cfg connector.Config) (<-chan model.RawRecord, error) {
	r, closer, err := open(cfg)
	if err != nil {
		return nil, err
	}

	ch := make(chan model.RawRecord, 64)
	go func() {
		defer close(ch)
		defer closer()
		err := scan(r, cfg, func(rec model.RawRecord) bool {
			select {
			case ch <- rec:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			slog.Warn("stream read error", "connector", "ndjson", "error", err)
		}
	}()
	return ch, nil
}

func (c *Connector) Query(ctx context.Context, cfg connector.Config, params connector.QueryParams) ([]model.RawRecord, error) {
	r, closer, err := open(cfg)
	if err != nil {
		return nil, err
	}
	defer closer()

	var out []model.RawRecord
	err = scan(r, cfg, func(rec model.RawRecord) bool {
		if ctx.Err() != nil {
			return false
		}
		if params.Match(rec) {
			out = append(out, rec)
		}
		return params.Limit == 0 || len(out) < params.Limit
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func open(cfg connector.Config) (io.Reader, func(), error) {
	if cfg.Path == "" || cfg.Path == "-" {
		if cfg.Reader == nil {
			return nil, nil, fmt.Errorf("ndjson connector: no path or reader configured")
		}
		return cfg.Reader, func() {}, nil
	}
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("ndjson connector: open %s: %w", cfg.Path, err)
	}
	return f, func() { f.Close() }, nil
}

// scan decodes each line and hands it to emit until emit returns false.
func scan(r io.Reader, cfg connector.Config, emit func(model.RawRecord) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec model.RawRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			slog.Warn("skipping malformed record", "connector", "ndjson", "line", line, "error", err)
			continue
		}
		if rec.SourceHint == model.HintNone {
			rec.SourceHint = cfg.Hint
		}
		if !emit(rec) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("ndjson connector: read: %w", err)
	}
	return nil
}
