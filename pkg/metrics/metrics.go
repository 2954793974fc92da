package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts records login attempts by result (success|failure).
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantportal_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// WarehouseQueries counts warehouse queries by kind and outcome.
	WarehouseQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantportal_warehouse_queries_total",
			Help: "Total number of warehouse queries",
		},
		[]string{"kind", "result"},
	)

	// PermissionExpansions counts admin grants expanded into per-experiment
	// entries, by outcome (expanded|fallback|skipped).
	PermissionExpansions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantportal_permission_expansions_total",
			Help: "Admin grant expansions by outcome",
		},
		[]string{"outcome"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plantportal_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
