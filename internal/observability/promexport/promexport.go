// Package promexport registers authzcore's Prometheus collectors: a
// decisions counter by resolved effect, an evaluation latency histogram,
// and a gauge tracking the indexed matcher's cache population.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors holds the metrics a running engine reports.
type Collectors struct {
	DecisionsTotal           *prometheus.CounterVec
	EvaluationDurationSecs   *prometheus.HistogramVec
	IndexedMatcherCacheSize  prometheus.Gauge
}

// New registers authzcore's collectors against registry.
func New(registry prometheus.Registerer) *Collectors {
	factory := promauto.With(registry)

	return &Collectors{
		DecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authzcore_decisions_total",
				Help: "Total number of authorization decisions by resolved effect",
			},
			[]string{"effect"},
		),
		EvaluationDurationSecs: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authzcore_evaluation_duration_seconds",
				Help:    "Duration of a single Evaluate call in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"matcher"},
		),
		IndexedMatcherCacheSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "authzcore_indexed_matcher_cache_size",
				Help: "Number of rules currently held in the indexed matcher's subject/resource buckets",
			},
		),
	}
}

// ObserveDecision records one resolved decision.
func (c *Collectors) ObserveDecision(effect string, matcherName string, seconds float64) {
	c.DecisionsTotal.WithLabelValues(effect).Inc()
	c.EvaluationDurationSecs.WithLabelValues(matcherName).Observe(seconds)
}

// SetIndexedCacheSize reports the indexed matcher's current candidate
// bucket population.
func (c *Collectors) SetIndexedCacheSize(size int) {
	c.IndexedMatcherCacheSize.Set(float64(size))
}
