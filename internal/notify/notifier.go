// Package notify defines the notification interface and implementations
// for alert delivery.
package notify

import (
	"context"
)

// EventKind identifies what an alert is about.
type EventKind string

// Event kinds.
const (
	KindHotness EventKind = "hotness_alert"
	KindJackpot EventKind = "jackpot_candidate"
)

// Event is a single alert about one listing.
type Event struct {
	Kind         EventKind
	Title        string
	URL          string
	ImageURL     string
	Brand        string
	Model        string
	Price        int
	FMV          *int
	DiscountPct  float64
	HotnessScore float64
	Margin       float64
	Reasons      []string
}

// Notifier delivers alerts. Callers treat delivery as fire-and-forget: an
// error is logged and counted, never propagated into the pipeline.
type Notifier interface {
	Notify(ctx context.Context, ev *Event) error
}
