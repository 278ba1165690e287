package inventory

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

const outcomeRejected = "rejected"

// Metrics records sync pass outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
	catalogItems prometheus.Gauge
}

// NewMetrics creates the sync collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "sync_runs_total",
			Help:      "Inventory sync passes by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inventory",
			Name:      "sync_duration_seconds",
			Help:      "Wall time of inventory sync passes that acquired the sync guard.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		catalogItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "catalog_items",
			Help:      "Products written by the last successful catalog replace.",
		}),
	}
	reg.MustRegister(m.runs, m.duration, m.catalogItems)
	return m
}

func (m *Metrics) observeRejected(trigger models.SyncTrigger) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(trigger), outcomeRejected).Inc()
}

func (m *Metrics) observeFinished(trigger models.SyncTrigger, outcome models.SyncOutcome, count int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(trigger), string(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
	if outcome == models.SyncOutcomeSuccess {
		m.catalogItems.Set(float64(count))
	}
}
