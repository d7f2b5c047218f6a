package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded alerts. It is used
// when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Notify logs and discards ev.
func (n *NoOpNotifier) Notify(_ context.Context, ev *Event) error {
	n.log.Debug("notification discarded (no backend configured)",
		"kind", ev.Kind,
		"title", ev.Title,
		"url", ev.URL,
	)
	return nil
}
