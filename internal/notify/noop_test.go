package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoOpNotifier_Notify(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := n.Notify(context.Background(), &Event{
		Kind:  KindJackpot,
		Title: "Santa Cruz Nomad Carbon",
		URL:   "https://www.kleinanzeigen.de/s-anzeige/nomad/1",
	})
	require.NoError(t, err)
}

// compile-time interface checks.
var (
	_ Notifier = (*NoOpNotifier)(nil)
	_ Notifier = (*DiscordNotifier)(nil)
)
