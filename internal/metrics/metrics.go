package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pool metrics
	PoolCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ally_pool_count",
			Help: "Number of pools in the last refreshed snapshot, per liquidity source",
		},
		[]string{"dex"},
	)

	SnapshotRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ally_snapshot_refreshes_total",
		Help: "Total number of background pool snapshot refreshes",
	})

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ally_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"route_type", "status"},
	)

	QuoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ally_quote_duration_seconds",
		Help:    "Quote request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	CandidatesConsidered = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ally_quote_candidates",
		Help:    "Number of priced route candidates per quote",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	// Adapter metrics
	AdapterFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ally_adapter_fetch_duration_seconds",
			Help:    "Pool fetch duration per liquidity source",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"dex"},
	)

	AdapterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ally_adapter_errors_total",
			Help: "Failed or timed-out pool fetches per liquidity source",
		},
		[]string{"dex"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ally_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ally_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
