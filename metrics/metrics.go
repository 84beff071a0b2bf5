// Package metrics exposes Prometheus instruments for the calculation service.
//
// Instruments are registered on a caller-supplied registry so tests (and a
// second server in the same process) never collide on the default one.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/warp/juros-engine/calc"
)

const namespace = "juros"

// Metrics holds every instrument the service records.
type Metrics struct {
	Calculations       *prometheus.CounterVec
	Debts              *prometheus.CounterVec
	Extrapolations     *prometheus.CounterVec
	CoefficientLookups *prometheus.CounterVec
	Duration           *prometheus.HistogramVec
	TableEntries       *prometheus.GaugeVec
	Errors             *prometheus.CounterVec
}

// New registers the instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interest",
			Name:      "calculations_total",
			Help:      "Total interest calculations by category.",
		}, []string{"category"}),

		Debts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interest",
			Name:      "debts_total",
			Help:      "Total debts priced by category.",
		}, []string{"category"}),

		Extrapolations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interest",
			Name:      "extrapolated_segments_total",
			Help:      "Segments priced past the last published rate.",
		}, []string{"category"}),

		CoefficientLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "devaluation",
			Name:      "lookups_total",
			Help:      "Coefficient lookups by where the year fell (below, table, above).",
		}, []string{"range"}),

		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time spent in a calculation, excluding I/O.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"operation"}),

		TableEntries: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_entries",
			Help:      "Rows in each loaded reference table.",
		}, []string{"table"}),

		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Rejected or failed requests by error code.",
		}, []string{"code"}),
	}
}

// ObserveBatch records one priced batch.
func (m *Metrics) ObserveBatch(b calc.Batch, took time.Duration) {
	category := b.Category.String()
	m.Calculations.WithLabelValues(category).Inc()
	m.Debts.WithLabelValues(category).Add(float64(len(b.Results)))
	for _, r := range b.Results {
		for _, s := range r.Segments {
			if s.Extrapolated {
				m.Extrapolations.WithLabelValues(category).Inc()
			}
		}
	}
	m.Duration.WithLabelValues("interest").Observe(took.Seconds())
}

// ObserveLookup records one coefficient lookup against t.
func (m *Metrics) ObserveLookup(t calc.DevaluationTable, year int, took time.Duration) {
	where := "table"
	switch {
	case year < t.FirstYear:
		where = "below"
	case year > t.ReferenceYear:
		where = "above"
	}
	m.CoefficientLookups.WithLabelValues(where).Inc()
	m.Duration.WithLabelValues("devaluation").Observe(took.Seconds())
}

// SetTables publishes the size of the loaded tables.
func (m *Metrics) SetTables(e *calc.Engine, t calc.DevaluationTable) {
	for _, c := range calc.Categories {
		s, _ := e.Schedule(c)
		m.TableEntries.WithLabelValues("schedule:" + c.String()).Set(float64(len(s)))
	}
	m.TableEntries.WithLabelValues("devaluation").Set(float64(len(t.Ranges)))
}
