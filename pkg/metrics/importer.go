package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImporterMetrics records per-entity outcome counts for legacy import runs.
type ImporterMetrics struct {
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewImporterMetrics registers the importer metrics on the provided registerer.
func NewImporterMetrics(reg prometheus.Registerer) *ImporterMetrics {
	if reg == nil {
		return &ImporterMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Legacy rows processed, labeled by entity and outcome.",
	}, []string{"entity", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of import passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})
	reg.MustRegister(rows, duration)
	return &ImporterMetrics{
		rows:     rows,
		duration: duration,
	}
}

// IncRow counts one processed row for the entity with the given outcome
// (created, updated, staged, skipped, failed).
func (m *ImporterMetrics) IncRow(entity, outcome string) {
	m.AddRows(entity, outcome, 1)
}

// AddRows counts n processed rows at once, for callers that tally a whole
// pass before reporting.
func (m *ImporterMetrics) AddRows(entity, outcome string, n int) {
	if m == nil || m.rows == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(entity), normalizeLabel(outcome)).Add(float64(n))
}

// ObserveDuration records how long a full entity pass took.
func (m *ImporterMetrics) ObserveDuration(entity string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(entity)).Observe(duration.Seconds())
}
