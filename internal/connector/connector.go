package connector

import (
	"context"
	"io"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// Connector defines the interface all raw record sources must implement.
type Connector interface {
	// Stream sends raw records as they are read. The channel is closed when
	// the source is exhausted or ctx is cancelled.
	Stream(ctx context.Context, cfg Config) (<-chan model.RawRecord, error)

	// Query reads a batch of records matching the given parameters.
	Query(ctx context.Context, cfg Config, params QueryParams) ([]model.RawRecord, error)
}

// Config holds source-specific settings.
type Config struct {
	Provider string
	Path     string    // file to read; empty means Reader
	Reader   io.Reader // used when Path is empty, typically stdin
	Hint     model.SourceHint
}

// QueryParams filters a batch read.
type QueryParams struct {
	SourceID string // only records from this source; empty for all
	Limit    int    // 0 for no limit
}

// Match reports whether r passes the filter.
func (p QueryParams) Match(r model.RawRecord) bool {
	return p.SourceID == "" || r.Source.ID == p.SourceID
}
