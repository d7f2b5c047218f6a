package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:   "bike-hunter-recording-rules",
			Labels: ruleLabels(),
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "bike-hunter-recording",
					Rules: []Rule{
						{
							Record: "bike_hunter:http_requests:rate5m",
							Expr:   `sum(rate(bike_hunter_http_requests_total[5m]))`,
						},
						{
							Record: "bike_hunter:http_errors:rate5m",
							Expr:   `sum(rate(bike_hunter_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "bike_hunter:fetch_requests:rate5m",
							Expr:   `sum(rate(bike_hunter_fetch_requests_total[5m])) by (host, outcome)`,
						},
						{
							Record: "bike_hunter:fetch_blocked:ratio5m",
							Expr: `sum(rate(bike_hunter_fetch_requests_total{outcome="blocked"}[5m])) by (host)` +
								` / sum(rate(bike_hunter_fetch_requests_total[5m])) by (host)`,
						},
						{
							Record: "bike_hunter:enrichment_failures:rate5m",
							Expr:   `rate(bike_hunter_enrichment_failures_total[5m])`,
						},
					},
				},
			},
		},
	}
}

func ruleLabels() map[string]string {
	return map[string]string{
		"prometheus": "system-rules-prometheus",
	}
}
