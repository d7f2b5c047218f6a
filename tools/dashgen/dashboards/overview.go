// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/bike-hunter/tools/dashgen/panels"
)

// UID is the stable identifier of the overview dashboard.
const UID = "bike-hunter-overview"

// BuildOverview constructs the bike-hunter overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Bike Hunter Overview").
		Uid(UID).
		Tags([]string{"bike-hunter"}).
		Refresh("1m").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.HuntInProgressStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Hunts").
		WithPanel(panels.HuntRuns()).
		WithPanel(panels.HuntDuration()).
		WithPanel(panels.NextHunt()).
		WithPanel(panels.ComparablesGrowth()))

	b.WithRow(dashboard.NewRowBuilder("Fetching").
		WithPanel(panels.FetchOutcomes()).
		WithPanel(panels.FetchLatency()).
		WithPanel(panels.BreakerFailures()).
		WithPanel(panels.BreakerFreezes()))

	b.WithRow(dashboard.NewRowBuilder("Pipeline").
		WithPanel(panels.FilterRejections()).
		WithPanel(panels.ArbiterConflicts()).
		WithPanel(panels.EnrichmentDuration()).
		WithPanel(panels.EnrichmentFailures()))

	b.WithRow(dashboard.NewRowBuilder("Decisions").
		WithPanel(panels.Decisions()).
		WithPanel(panels.Valuations()).
		WithPanel(panels.DiscountDistribution()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsRate()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
