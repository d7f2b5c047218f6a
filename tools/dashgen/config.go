package main

import "errors"

// KnownMetrics is the set of metric names exported by bike-hunter plus
// recording rule names referenced in dashboards and alerts. The _bucket
// series of every histogram are listed since queries select them directly.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"bike_hunter_http_request_duration_seconds_bucket": true,
	"bike_hunter_http_requests_total":                  true,

	// Health metrics.
	"bike_hunter_healthz_up": true,
	"bike_hunter_readyz_up":  true,

	// Fetch and breaker metrics.
	"bike_hunter_fetch_requests_total":          true,
	"bike_hunter_fetch_duration_seconds_bucket": true,
	"bike_hunter_breaker_consecutive_failures":  true,
	"bike_hunter_breaker_freezes_total":         true,

	// Pipeline metrics.
	"bike_hunter_filter_rejections_total":            true,
	"bike_hunter_enrichment_failures_total":          true,
	"bike_hunter_enrichment_duration_seconds_bucket": true,
	"bike_hunter_arbiter_conflicts_total":            true,
	"bike_hunter_valuations_total":                   true,
	"bike_hunter_decisions_total":                    true,
	"bike_hunter_discount_pct_distribution_bucket":   true,
	"bike_hunter_comparables_inserted_total":         true,

	// Run metrics.
	"bike_hunter_hunt_runs_total":               true,
	"bike_hunter_hunt_duration_seconds_bucket":  true,
	"bike_hunter_hunt_in_progress":              true,
	"bike_hunter_scheduler_next_hunt_timestamp": true,

	// Alert metrics.
	"bike_hunter_alerts_sent_total":           true,
	"bike_hunter_notification_failures_total": true,

	// Recording rules.
	"bike_hunter:http_requests:rate5m":       true,
	"bike_hunter:http_errors:rate5m":         true,
	"bike_hunter:fetch_requests:rate5m":      true,
	"bike_hunter:fetch_blocked:ratio5m":      true,
	"bike_hunter:enrichment_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
