package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchOutcomes returns a timeseries panel of fetches per second by host
// and outcome.
func FetchOutcomes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetches by Outcome").
		Description("Page and image fetches per second: ok, blocked, error, frozen").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`bike_hunter:fetch_requests:rate5m`, "{{host}} {{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FetchLatency returns a timeseries panel of p95 fetch latency per host.
func FetchLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetch Latency (p95)").
		Description("95th percentile fetch duration per host, retries included").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(Quantile(0.95, "bike_hunter_fetch_duration_seconds", "host"), "{{host}}", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// BreakerFailures returns a timeseries panel of consecutive block
// responses per host. The breaker freezes a host at its threshold.
func BreakerFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Breaker Failures").
		Description("Consecutive block responses counted by each host's circuit breaker").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`max(bike_hunter_breaker_consecutive_failures{job="`+Job+`"}) by (host)`, "{{host}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(3, 5)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// BreakerFreezes returns a stat panel of freezes in the last 24 hours.
func BreakerFreezes() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Freezes (24h)").
		Description("Times a host was frozen by its circuit breaker in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(increase(bike_hunter_breaker_freezes_total{job="`+Job+`"}[24h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
