package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics lives on its own registry so several servers (and tests) can
// coexist in one process.
type serverMetrics struct {
	registry         *prometheus.Registry
	historyRequests  *prometheus.CounterVec
	historyCompute   prometheus.Histogram
	historyPages     prometheus.Histogram
	buildsRecorded   *prometheus.CounterVec
	outcomesRecorded prometheus.Counter
	buildsPruned     prometheus.Counter
}

func newServerMetrics() *serverMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &serverMetrics{
		registry: reg,
		historyRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagehist_history_requests_total",
				Help: "Page history requests by outcome.",
			},
			[]string{"status"},
		),
		historyCompute: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagehist_history_compute_seconds",
			Help:    "Time spent aggregating and ranking a project's builds.",
			Buckets: prometheus.DefBuckets,
		}),
		historyPages: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagehist_history_pages",
			Help:    "Number of ranked pages per history response.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		buildsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagehist_builds_recorded_total",
				Help: "Builds recorded per project.",
			},
			[]string{"project"},
		),
		outcomesRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "pagehist_outcomes_recorded_total",
			Help: "Page outcomes recorded across all builds.",
		}),
		buildsPruned: f.NewCounter(prometheus.CounterOpts{
			Name: "pagehist_builds_pruned_total",
			Help: "Builds removed by history retention.",
		}),
	}
}
