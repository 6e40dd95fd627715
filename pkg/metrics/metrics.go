package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	UpstreamFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fetches_total",
			Help: "Upstream fetches by source and outcome (ok, empty, skipped or an error code)",
		},
		[]string{"source", "outcome"},
	)
	UpstreamFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Upstream fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10},
		},
		[]string{"source"},
	)
	UpstreamRecordsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_records_returned",
			Help:    "Records returned per upstream query",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"source"},
	)
	SectorFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_sector_fallbacks_total",
			Help: "Searches that escalated from exact postcode to sector",
		},
	)
	ReconciledPropertiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciled_properties_total",
			Help: "Properties emitted by origin (matched, unmatched, certificate_only)",
		},
		[]string{"origin"},
	)
)

func Init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(UpstreamFetchesTotal)
	prometheus.MustRegister(UpstreamFetchDuration)
	prometheus.MustRegister(UpstreamRecordsReturned)
	prometheus.MustRegister(SectorFallbacksTotal)
	prometheus.MustRegister(ReconciledPropertiesTotal)
}
