package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ccmt_finder"

// Finder Prometheus metrics.
var (
	FilterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_requests_total",
			Help:      "Total number of filter pipeline runs",
		},
		[]string{"source", "quick_filter"}, // source: "query" / "session"
	)

	FilterResultRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_result_rows",
			Help:      "Rows returned by a filter pipeline run",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	TableRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows in the loaded dataset",
		},
	)

	TableLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_load_duration_seconds",
			Help:      "Dataset load and parse duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SessionOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_ops_total",
			Help:      "Session store operations",
		},
		[]string{"op", "result"}, // result: "ok" / "not_found" / "error"
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			FilterRequestsTotal,
			FilterResultRows,
			TableRows,
			TableLoadDuration,
			SessionOpsTotal,
		)
	})
}
