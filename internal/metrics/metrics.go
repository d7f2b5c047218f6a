// Package metrics defines Prometheus metrics for bike-hunter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bike_hunter"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last liveness probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last readiness probe succeeded.",
	})
)

// Fetcher metrics.
var (
	FetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_requests_total",
		Help:      "Outbound marketplace calls by host and outcome.",
	}, []string{"host", "outcome"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of outbound marketplace calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"host"})

	BreakerFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "breaker_consecutive_failures",
		Help:      "Consecutive block signals seen per host.",
	}, []string{"host"})

	BreakerFreezesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "breaker_freezes_total",
		Help:      "Number of times a host circuit breaker froze.",
	}, []string{"host"})
)

// Pipeline metrics.
var (
	FilterRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "filter_rejections_total",
		Help:      "Items rejected by the pre-filters, by filter and rule.",
	}, []string{"filter", "rule"})

	EnrichmentFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_failures_total",
		Help:      "AI enrichment calls that failed and fell back to the parsed record.",
	})

	EnrichmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "enrichment_duration_seconds",
		Help:      "Duration of AI enrichment calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ArbiterConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "arbiter_conflicts_total",
		Help:      "Conflicts flagged by the arbiter, by field and severity.",
	}, []string{"field", "severity"})

	ValuationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuations_total",
		Help:      "FMV estimates by method and confidence.",
	}, []string{"method", "confidence"})

	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Terminal listing outcomes by stage and verdict.",
	}, []string{"stage", "verdict"})

	DiscountDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "discount_pct_distribution",
		Help:      "Distribution of computed discounts against FMV.",
		Buckets:   prometheus.LinearBuckets(-50, 10, 11), // -50, -40, ..., 50
	})
)

// Run metrics.
var (
	HuntRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hunt_runs_total",
		Help:      "Hunt runs by how they ended.",
	}, []string{"result"})

	HuntDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hunt_duration_seconds",
		Help:      "Duration of hunt runs in seconds.",
		Buckets:   prometheus.ExponentialBuckets(30, 2, 8),
	})

	ComparablesInsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comparables_inserted_total",
		Help:      "Comparables written to the market history corpus.",
	})

	HuntInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hunt_in_progress",
		Help:      "1 while a hunt run is executing.",
	})

	SchedulerNextHuntTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_hunt_timestamp",
		Help:      "Unix time of the next scheduled hunt run.",
	})
)

// Alert metrics.
var (
	AlertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_sent_total",
		Help:      "Alerts delivered by event kind.",
	}, []string{"kind"})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)
