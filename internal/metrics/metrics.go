// Package metrics defines the prometheus collectors recorded by the engine
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeSyntax   = "syntax_error"
	OutcomeSemantic = "semantic_error"
	OutcomeFailed   = "failed"
)

// Metrics holds query collectors
type Metrics struct {
	Queries      *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	ResultRows   prometheus.Histogram
	DatasetsRows *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insightq",
			Name:      "queries_total",
			Help:      "Queries processed, by surface syntax and outcome.",
		}, []string{"syntax", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "insightq",
			Name:      "query_duration_seconds",
			Help:      "Time spent translating and evaluating a query.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"syntax"}),
		ResultRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "insightq",
			Name:      "result_rows",
			Help:      "Rows returned per successful query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		DatasetsRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "insightq",
			Name:      "dataset_rows",
			Help:      "Rows held per loaded dataset.",
		}, []string{"id", "kind"}),
	}

	if reg != nil {
		reg.MustRegister(m.Queries, m.Duration, m.ResultRows, m.DatasetsRows)
	}
	return m
}

// Observe records one query
func (m *Metrics) Observe(syntax, outcome string, elapsed time.Duration, rows int) {
	m.Queries.WithLabelValues(syntax, outcome).Inc()
	m.Duration.WithLabelValues(syntax).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.ResultRows.Observe(float64(rows))
	}
}
