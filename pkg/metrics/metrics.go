package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HTTPRequestsTotal counts dashboard API requests by route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total HTTP requests served by the dashboard API.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// UpstreamRequestsTotal counts calls to remote APIs by target and outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_upstream_requests_total",
			Help: "Total requests to upstream APIs (purchase, leaderboard, report, profile store).",
		},
		[]string{"api", "outcome"},
	)

	// MockFallbacksTotal counts wallet searches answered from generated
	// mock data because the purchase API was unreachable.
	MockFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_mock_fallbacks_total",
			Help: "Total wallet searches served from the mock data generator.",
		},
	)

	// SnapshotCacheHitsTotal counts wallet snapshot cache hits.
	SnapshotCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_snapshot_cache_hits_total",
			Help: "Total wallet searches served from the snapshot cache.",
		},
	)
)

// Outcome labels for UpstreamRequestsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// MustRegisterMetrics registers all dashboard collectors with the default
// registry. Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamRequestsTotal,
		MockFallbacksTotal,
		SnapshotCacheHitsTotal,
	)
}
