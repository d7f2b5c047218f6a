package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FilterRejections returns a timeseries panel of listings dropped by the
// funnel and the kill switch, per rule.
func FilterRejections() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Filter Rejections").
		Description("Listings rejected per hour by filter and rule").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(increase(bike_hunter_filter_rejections_total{job="`+Job+`"}[1h])) by (filter, rule)`,
			"{{filter}}/{{rule}}", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// EnrichmentDuration returns a timeseries panel of vision enrichment
// latency percentiles.
func EnrichmentDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Enrichment Duration").
		Description("Vision model call duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(Quantile(0.50, "bike_hunter_enrichment_duration_seconds"), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, "bike_hunter_enrichment_duration_seconds"), "p95", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// EnrichmentFailures returns a timeseries panel of failed enrichments.
func EnrichmentFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Enrichment Failures").
		Description("Vision enrichment failures per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`bike_hunter:enrichment_failures:rate5m`, "failures/s", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ArbiterConflicts returns a timeseries panel of reconciliation conflicts
// per field and severity.
func ArbiterConflicts() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Arbiter Conflicts").
		Description("Parsed versus enriched disagreements per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(increase(bike_hunter_arbiter_conflicts_total{job="`+Job+`"}[1h])) by (field, severity)`,
			"{{field}} ({{severity}})", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("sum")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// Decisions returns a timeseries panel of final verdicts per hour.
func Decisions() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Decisions").
		Description("Outcomes per hour by stage and verdict").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(bike_hunter_decisions_total{job="`+Job+`"}[1h])) by (verdict)`,
			"{{verdict}}", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// Valuations returns a timeseries panel of FMV estimates by confidence.
func Valuations() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Valuations").
		Description("FMV estimates per hour by method and confidence").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(bike_hunter_valuations_total{job="`+Job+`"}[1h])) by (method, confidence)`,
			"{{method}} {{confidence}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("sum")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DiscountDistribution returns a bar gauge of asking price discounts
// against FMV across histogram buckets.
func DiscountDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Discount Distribution").
		Description("Asking price discount against FMV, in percent").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(bike_hunter_discount_pct_distribution_bucket{job="`+Job+`"}[24h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
