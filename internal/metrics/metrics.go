package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics of the rescheduling job
type Metrics struct {
	registry *prometheus.Registry

	RescheduleRuns     prometheus.Counter
	FactsRescheduled   prometheus.Counter
	RescheduleErrors   *prometheus.CounterVec
	RescheduleDuration prometheus.Histogram
	PredictedQuality   prometheus.Histogram
	ReviewsImported    prometheus.Counter
}

// New creates the metrics on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RescheduleRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "genius_reschedule_runs_total",
			Help: "Total number of full rescheduling passes",
		}),
		FactsRescheduled: f.NewCounter(prometheus.CounterOpts{
			Name: "genius_facts_rescheduled_total",
			Help: "Total number of facts whose schedule was recomputed",
		}),
		RescheduleErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "genius_reschedule_errors_total",
			Help: "Total number of rescheduling failures",
		}, []string{"stage"}),
		RescheduleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "genius_reschedule_duration_seconds",
			Help:    "Duration of a full rescheduling pass",
			Buckets: prometheus.DefBuckets,
		}),
		PredictedQuality: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "genius_predicted_quality",
			Help:    "Predicted recall quality at rescheduling time",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		ReviewsImported: f.NewCounter(prometheus.CounterOpts{
			Name: "genius_reviews_imported_total",
			Help: "Total number of review records imported from files",
		}),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
