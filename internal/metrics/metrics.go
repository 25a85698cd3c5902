// Package metrics counts pipeline outcomes on a private Prometheus registry.
// A batch run has no scrape endpoint, so the registry is written out in the
// node-exporter textfile format at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crimson-sun/fairnorm/internal/engine/dedup"
	"github.com/crimson-sun/fairnorm/internal/model"
)

const namespace = "fairnorm"

// Metrics holds the run counters.
type Metrics struct {
	reg *prometheus.Registry

	Scraped    prometheus.Counter
	Normalized prometheus.Counter
	Absent     *prometheus.CounterVec
	Duplicates *prometheus.CounterVec
	Written    prometheus.Counter
	Inserted   prometheus.Counter
	Duration   prometheus.Gauge
}

// New registers a fresh set of collectors.
func New() *Metrics {
	m := &Metrics{reg: prometheus.NewRegistry()}
	m.Scraped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_scraped_total",
		Help:      "Raw records read from the connector.",
	})
	m.Normalized = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_normalized_total",
		Help:      "Records produced by the normalization engine.",
	})
	m.Absent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fields_absent_total",
		Help:      "Normalized records missing a field, by field.",
	}, []string{"field"})
	m.Duplicates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicates_total",
		Help:      "Records dropped as duplicates, by match kind.",
	}, []string{"kind"})
	m.Written = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_written_total",
		Help:      "Accepted records written to the output.",
	})
	m.Inserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_inserted_total",
		Help:      "Accepted records newly inserted into the store.",
	})
	m.Duration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run.",
	})
	m.reg.MustRegister(m.Scraped, m.Normalized, m.Absent, m.Duplicates, m.Written, m.Inserted, m.Duration)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveRecord counts one normalized record and its absent fields.
func (m *Metrics) ObserveRecord(rec model.NormalizedRecord) {
	m.Normalized.Inc()
	for _, f := range rec.Absent {
		m.Absent.WithLabelValues(string(f)).Inc()
	}
}

// ObserveDuplicate counts one duplicate hit.
func (m *Metrics) ObserveDuplicate(res dedup.Result) {
	if res.Duplicate {
		m.Duplicates.WithLabelValues(string(res.Kind)).Inc()
	}
}

// ObserveDuration records how long a run took.
func (m *Metrics) ObserveDuration(d time.Duration) {
	m.Duration.Set(d.Seconds())
}

// WriteTextfile writes the registry to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
