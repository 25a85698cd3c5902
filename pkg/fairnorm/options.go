package fairnorm

import "github.com/crimson-sun/fairnorm/internal/engine"

type options struct {
	cfg       engine.Config
	tablesDir string
}

// Option configures an Engine.
type Option func(*options)

// WithThreshold sets the default fuzzy name match threshold used by
// Deduplicate. Default: 0.6.
func WithThreshold(t float64) Option {
	return func(o *options) {
		o.cfg.Dedup.Threshold = t
	}
}

// WithMaxDayDiff sets how many calendar days apart two starts may be and
// still count as a fuzzy duplicate. Default: 1.
func WithMaxDayDiff(days int) Option {
	return func(o *options) {
		o.cfg.Dedup.MaxDayDiff = days
	}
}

// WithPrefixLen sets how many leading characters of event names are compared.
// Default: 10.
func WithPrefixLen(n int) Option {
	return func(o *options) {
		o.cfg.Dedup.PrefixLen = n
	}
}

// WithTablesDir loads venues.yaml, districts.yaml and s2t.yaml from dir
// instead of the built-in tables.
func WithTablesDir(dir string) Option {
	return func(o *options) {
		o.tablesDir = dir
	}
}

// WithVenueCacheSize sets how many venue lookups are memoized. Default: 1024.
func WithVenueCacheSize(n int) Option {
	return func(o *options) {
		o.cfg.VenueCacheSize = n
	}
}

func defaultOptions() options {
	return options{cfg: engine.DefaultConfig()}
}
