package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// HuntRuns returns a timeseries panel of finished runs per hour by result.
func HuntRuns() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Runs by Result").
		Description("Hunt runs per hour: completed, frozen, timed_out, canceled").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(bike_hunter_hunt_runs_total{job="`+Job+`"}[1h])) by (result)`,
			"{{result}}", "A",
		)).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// HuntDuration returns a timeseries panel of the p95 run duration.
func HuntDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Duration (p95)").
		Description("95th percentile hunt run duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(Quantile(0.95, "bike_hunter_hunt_duration_seconds"), "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NextHunt returns a stat panel counting down to the next scheduled run.
func NextHunt() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Hunt").
		Description("Time until the next scheduled hunt run").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(4).
		WithTarget(PromQuery(`bike_hunter_scheduler_next_hunt_timestamp{job="`+Job+`"} - time()`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// ComparablesGrowth returns a stat panel of comparables added in 24h.
func ComparablesGrowth() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Comparables (24h)").
		Description("Market comparables recorded in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(4).
		WithTarget(PromQuery(`increase(bike_hunter_comparables_inserted_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}
