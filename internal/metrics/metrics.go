// Package metrics defines the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Completed exports by entity, variant and format.",
		},
		[]string{"entity", "variant", "format"},
	)

	ExportRows = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "export_rows",
			Help:    "Rows written per export.",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"entity", "variant"},
	)

	NormalizationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalization_failures_total",
			Help: "Invoices that failed normalization or totals checks.",
		},
		[]string{"variant", "kind"},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ExportsTotal,
		ExportRows,
		NormalizationFailures,
	)
}
