package rules

func alert(name, expr, forDur, severity, summary, description string) Rule {
	return Rule{
		Alert: name,
		Expr:  expr,
		For:   forDur,
		Labels: map[string]string{
			"severity": severity,
		},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}

// AlertRules returns a PrometheusRule CR containing alert rules for
// bike-hunter operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:   "bike-hunter-alerts",
			Labels: ruleLabels(),
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "bike-hunter-alerts",
					Rules: []Rule{
						alert("BikeHunterDown",
							`absent(up{job="bike-hunter"})`, "2m", "critical",
							"Bike Hunter is down",
							"The bike-hunter job has been absent for more than 2 minutes."),
						alert("BikeHunterReadinessDown",
							`bike_hunter_readyz_up == 0`, "2m", "critical",
							"Bike Hunter readiness check is failing",
							"The readiness probe has been reporting not-ready for more than 2 minutes."),
						alert("BikeHunterHighErrorRate",
							`bike_hunter:http_errors:rate5m / bike_hunter:http_requests:rate5m > 0.05`, "5m", "warning",
							"High HTTP error rate on Bike Hunter",
							"More than 5% of API requests are returning 5xx errors over the last 5 minutes."),
						alert("BikeHunterHostFrozen",
							`increase(bike_hunter_breaker_freezes_total[10m]) > 0`, "0m", "critical",
							"A marketplace host was frozen by the circuit breaker",
							"Repeated block responses froze a host. Hunts stop until the freeze window passes."),
						alert("BikeHunterBlockedRatioHigh",
							`bike_hunter:fetch_blocked:ratio5m > 0.2`, "10m", "warning",
							"Marketplace is blocking fetches",
							"More than 20% of fetches to a host were answered with a block status for 10 minutes."),
						alert("BikeHunterNoSuccessfulRun",
							`increase(bike_hunter_hunt_runs_total{result="completed"}[6h]) == 0`, "30m", "warning",
							"No hunt run has completed in 6 hours",
							"Runs are failing, freezing or timing out. Check the run logs and breaker state."),
						alert("BikeHunterEnrichmentFailures",
							`bike_hunter:enrichment_failures:rate5m > 0.05`, "10m", "warning",
							"Vision enrichment failure rate is elevated",
							"Vision model calls are failing at more than 0.05/s for the last 10 minutes."),
						alert("BikeHunterNotificationFailures",
							`increase(bike_hunter_notification_failures_total[5m]) > 0`, "1m", "warning",
							"Notification delivery failures detected",
							"One or more Discord webhook deliveries have failed."),
					},
				},
			},
		},
	}
}
