package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/fairnorm/internal/connector"
	"github.com/crimson-sun/fairnorm/internal/engine"
	"github.com/crimson-sun/fairnorm/internal/engine/dedup"
	"github.com/crimson-sun/fairnorm/internal/metrics"
	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/output"
	"github.com/crimson-sun/fairnorm/internal/store"
)

// Stats summarizes a run.
type Stats struct {
	Scraped    int
	Normalized int
	Exact      int
	Fuzzy      int
	Written    int
	Inserted   int
}

// Duplicates is the total number of records dropped as duplicates.
func (s Stats) Duplicates() int { return s.Exact + s.Fuzzy }

// Pipeline connects a connector, the engine, a candidate store and an output.
type Pipeline struct {
	connector connector.Connector
	engine    *engine.Engine
	output    output.Output
	store     store.Store
	metrics   *metrics.Metrics

	// seen holds every record accepted during this run plus the store
	// candidates fetched so far, so batches dedup against each other.
	seen *dedup.Index

	hint    model.SourceHint
	workers int
	write   bool

	window  time.Duration
	maxSize int

	stats Stats
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore sets the candidate store. When write is true, unique records are
// inserted into it after each batch. Without this option nothing outside the
// run is consulted; records accepted earlier in the run are always checked.
func WithStore(s store.Store, write bool) Option {
	return func(p *Pipeline) {
		p.store = s
		p.write = write
	}
}

// WithMetrics records run counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithWorkers bounds concurrent normalization.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithHint applies a source hint to every record.
func WithHint(h model.SourceHint) Option {
	return func(p *Pipeline) { p.hint = h }
}

// WithStreamBuffer sets how long Stream waits before flushing a batch and the
// batch size that forces an early flush (0 means unlimited).
func WithStreamBuffer(window time.Duration, maxSize int) Option {
	return func(p *Pipeline) {
		p.window = window
		p.maxSize = maxSize
	}
}

// New creates a Pipeline from the given components.
func New(conn connector.Connector, eng *engine.Engine, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		connector: conn,
		engine:    eng,
		output:    out,
		store:     store.Nop{},
		seen:      dedup.NewIndex(nil),
		workers:   4,
		window:    time.Second,
		maxSize:   500,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = metrics.New()
	}
	return p
}

// Stats returns the counters accumulated so far.
func (p *Pipeline) Stats() Stats { return p.stats }

// Metrics returns the pipeline's metrics.
func (p *Pipeline) Metrics() *metrics.Metrics { return p.metrics }

// Query reads one batch from the connector and processes it.
func (p *Pipeline) Query(ctx context.Context, cfg connector.Config, params connector.QueryParams) error {
	start := time.Now()
	raws, err := p.connector.Query(ctx, cfg, params)
	if err != nil {
		return fmt.Errorf("pipeline: query: %w", err)
	}
	if err := p.processBatch(ctx, raws); err != nil {
		return err
	}
	p.finish(start)
	return nil
}

// Stream processes records as they arrive, in buffered batches. It returns
// when the source is exhausted or ctx is cancelled; pending records are
// flushed either way.
func (p *Pipeline) Stream(ctx context.Context, cfg connector.Config) error {
	start := time.Now()
	ch, err := p.connector.Stream(ctx, cfg)
	if err != nil {
		return fmt.Errorf("pipeline: stream: %w", err)
	}

	buf := newStreamBuffer(p.processBatch, p.window, p.maxSize)
	for {
		select {
		case <-ctx.Done():
			if err := buf.flush(context.WithoutCancel(ctx)); err != nil {
				return err
			}
			p.finish(start)
			return ctx.Err()
		case raw, ok := <-ch:
			if !ok {
				if err := buf.flush(ctx); err != nil {
					return err
				}
				p.finish(start)
				return nil
			}
			if buf.add(raw) {
				if err := buf.flush(ctx); err != nil {
					return err
				}
			}
		case <-buf.flushCh():
			if err := buf.flush(ctx); err != nil {
				return err
			}
		}
	}
}

func (p *Pipeline) processBatch(ctx context.Context, raws []model.RawRecord) error {
	p.stats.Scraped += len(raws)
	p.metrics.Scraped.Add(float64(len(raws)))

	recs, err := p.normalize(ctx, raws)
	if err != nil {
		return err
	}
	for _, r := range recs {
		p.metrics.ObserveRecord(r)
	}
	p.stats.Normalized += len(recs)

	existing, err := p.store.Candidates(ctx, recs, p.engine.Detector().Config().MaxDayDiff)
	if err != nil {
		return fmt.Errorf("pipeline: candidates: %w", err)
	}

	p.seen.Merge(existing)
	unique, dups := p.engine.Detector().DeduplicateInto(p.seen, recs)
	for _, d := range dups {
		p.metrics.ObserveDuplicate(d)
		switch d.Kind {
		case dedup.KindExact:
			p.stats.Exact++
		case dedup.KindFuzzy:
			p.stats.Fuzzy++
		}
		slog.Debug("duplicate dropped",
			"kind", d.Kind,
			"ratio", d.Ratio,
			"match_id", d.Match.IdentityID,
			"match_name", d.Match.EventName,
		)
	}

	for _, r := range unique {
		if err := p.output.Write(ctx, r); err != nil {
			return fmt.Errorf("pipeline: output: %w", err)
		}
		p.stats.Written++
		p.metrics.Written.Inc()
	}

	if p.write {
		n, err := p.store.Insert(ctx, unique)
		if err != nil {
			return fmt.Errorf("pipeline: insert: %w", err)
		}
		p.stats.Inserted += n
		p.metrics.Inserted.Add(float64(n))
	}
	return nil
}

// normalize runs the engine over raws on a bounded worker pool. Output order
// matches input order.
func (p *Pipeline) normalize(ctx context.Context, raws []model.RawRecord) ([]model.NormalizedRecord, error) {
	out := make([]model.NormalizedRecord, len(raws))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, raw := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = p.engine.Normalize(raw, p.hint)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: normalize: %w", err)
	}
	return out, nil
}

func (p *Pipeline) finish(start time.Time) {
	p.metrics.ObserveDuration(time.Since(start))
	s := p.stats
	slog.Info("run complete",
		"scraped", s.Scraped,
		"normalized", s.Normalized,
		"duplicates", s.Duplicates(),
		"exact", s.Exact,
		"fuzzy", s.Fuzzy,
		"written", s.Written,
		"inserted", s.Inserted,
	)
}

// Close shuts down the output and the store.
func (p *Pipeline) Close() error {
	return errors.Join(p.output.Close(), p.store.Close())
}
