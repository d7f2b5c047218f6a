package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

func upStat(title, description, metric string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(metric+`{job="`+Job+`"}`, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat returns a stat panel showing the liveness status.
func HealthzStat() *stat.PanelBuilder {
	return upStat("Healthz", "Liveness status (1 = ok, 0 = failing)", "bike_hunter_healthz_up")
}

// ReadyzStat returns a stat panel showing the readiness status.
func ReadyzStat() *stat.PanelBuilder {
	return upStat("Readyz", "Readiness status (1 = ready, 0 = not ready)", "bike_hunter_readyz_up")
}

// HuntInProgressStat shows whether a hunt run is executing right now.
func HuntInProgressStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Hunt Running").
		Description("1 while a hunt run is executing").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`bike_hunter_hunt_in_progress{job="`+Job+`"}`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea).
		TextMode(common.BigValueTextModeValue)
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - process_start_time_seconds{job="`+Job+`"}`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
