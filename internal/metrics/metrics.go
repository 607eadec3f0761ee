// Package metrics registers the service's Prometheus collectors on the
// default registry, which the metrics router exposes at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Report sources.
const (
	SourceStateless = "stateless"
	SourceSession   = "session"
	SourceEvent     = "event"
)

var (
	ReportsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compass",
		Name:      "reports_computed_total",
		Help:      "Reports built, by source.",
	}, []string{"source"})

	ReportBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "compass",
		Name:      "report_build_duration_seconds",
		Help:      "Time spent building a report, including loading responses.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"source"})

	ResponsesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "compass",
		Name:      "responses_saved_total",
		Help:      "Topic responses written to the store.",
	})

	DefinitionReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compass",
		Name:      "definition_reloads_total",
		Help:      "Definition reload attempts, by result.",
	}, []string{"result"})

	RefreshQueueDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "compass",
		Name:      "refresh_queue_dropped_total",
		Help:      "Report refresh requests dropped because the queue was full.",
	})
)
