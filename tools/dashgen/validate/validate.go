// Package validate checks generated dashboards and rules: every query must
// parse as PromQL and reference only known metrics.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/bike-hunter/tools/dashgen/rules"
)

const servicePrefix = "bike_hunter_"

// Result collects validation findings. Errors fail generation; warnings
// are reported.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether there were no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every panel query of dash.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		switch {
		case p.Panel != nil:
			checkPanel(&res, p.Panel, known)
		case p.RowPanel != nil:
			for i := range p.RowPanel.Panels {
				checkPanel(&res, &p.RowPanel.Panels[i], known)
			}
		}
	}
	return res
}

// Rules validates every expression of a rule CR. Recording rule names must
// themselves be known so that dashboards can reference them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Alert
			if rule.Record != "" {
				name = rule.Record
				if !known[rule.Record] {
					res.errorf("%s: recording rule name is not a known metric", rule.Record)
				}
			}
			checkExpr(&res, name, rule.Expr, known, false)
		}
	}
	return res
}

func checkPanel(res *Result, p *dashboard.Panel, known map[string]bool) {
	title := "untitled"
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.warnf("%s: panel has no queries", title)
		return
	}
	for _, t := range p.Targets {
		var expr string
		switch q := any(t).(type) {
		case *prometheus.Dataquery:
			expr = q.Expr
		case prometheus.Dataquery:
			expr = q.Expr
		default:
			res.errorf("%s: target is not a prometheus query", title)
			continue
		}
		checkExpr(res, title, expr, known, true)
	}
}

// checkExpr parses expr and checks the metric name of every selector.
// Dashboard queries on raw service metrics must pin the job label.
func checkExpr(res *Result, where, expr string, known map[string]bool, requireJob bool) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		name := metricName(vs)
		if !known[name] {
			res.errorf("%s: unknown metric %q", where, name)
		}
		if requireJob && strings.HasPrefix(name, servicePrefix) && !hasMatcher(vs, "job") {
			res.warnf("%s: %s selected without a job label", where, name)
		}
		return nil
	})
}

func metricName(vs *parser.VectorSelector) string {
	if vs.Name != "" {
		return vs.Name
	}
	for _, m := range vs.LabelMatchers {
		if m.Name == "__name__" {
			return m.Value
		}
	}
	return ""
}

func hasMatcher(vs *parser.VectorSelector, label string) bool {
	for _, m := range vs.LabelMatchers {
		if m.Name == label {
			return true
		}
	}
	return false
}
