package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
)

func testEvent(kind EventKind) Event {
	fmv := 3000
	return Event{
		Kind:         kind,
		Title:        "YT Capra Core 3 29 2021",
		URL:          "https://www.kleinanzeigen.de/s-anzeige/yt-capra/123",
		ImageURL:     "https://img.kleinanzeigen.de/api/v1/prod-ads/images/ab/cd.jpg",
		Brand:        "YT",
		Model:        "Capra Core 3",
		Price:        2000,
		FMV:          &fmv,
		DiscountPct:  33.3,
		HotnessScore: 3666.7,
		Margin:       0.5,
	}
}

func TestDiscordNotifier_Notify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		event      Event
		statusCode int
		wantErr    bool
		errMsg     string
		wantColor  int
		wantFields []string
	}{
		{
			name:       "hotness alert",
			event:      testEvent(KindHotness),
			statusCode: http.StatusNoContent,
			wantColor:  colorRed,
			wantFields: []string{"Price", "FMV", "Discount", "Hotness", "Margin", "Bike"},
		},
		{
			name: "jackpot without fmv",
			event: func() Event {
				ev := testEvent(KindJackpot)
				ev.FMV = nil
				ev.Reasons = []string{"premium brand santa cruz under 1500"}
				return ev
			}(),
			statusCode: http.StatusNoContent,
			wantColor:  colorPurple,
			wantFields: []string{"Price", "Bike"},
		},
		{
			name:       "discord returns 429 rate limited",
			event:      testEvent(KindHotness),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			event:      testEvent(KindHotness),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordNotifier(srv.URL)
			err := d.Notify(context.Background(), &tt.event)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)

			embed := received.Embeds[0]
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Contains(t, embed.Title, tt.event.Title)
			assert.Equal(t, tt.event.URL, embed.URL)
			require.NotNil(t, embed.Thumbnail)

			names := make([]string, 0, len(embed.Fields))
			for _, f := range embed.Fields {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.wantFields, names)
		})
	}
}

func TestDiscordNotifier_JackpotReasonsInDescription(t *testing.T) {
	t.Parallel()

	var received discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ev := testEvent(KindJackpot)
	ev.ImageURL = ""
	ev.Reasons = []string{"carbon frame under 800", "2 high-value components"}

	require.NoError(t, NewDiscordNotifier(srv.URL).Notify(context.Background(), &ev))
	require.Len(t, received.Embeds, 1)
	assert.Nil(t, received.Embeds[0].Thumbnail)
	assert.Equal(t, "carbon frame under 800\n2 high-value components", received.Embeds[0].Description)
}

func TestDiscordNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1") // nothing listening
	ev := testEvent(KindHotness)
	err := d.Notify(context.Background(), &ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("://not-a-valid-url")
	ev := testEvent(KindHotness)
	err := d.Notify(context.Background(), &ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, d.client)
}

func TestNotify_CountsDeliveredAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	counter := metrics.AlertsSentTotal.WithLabelValues(string(KindJackpot))
	before := ptestutil.ToFloat64(counter)

	ev := testEvent(KindJackpot)
	require.NoError(t, NewDiscordNotifier(srv.URL).Notify(context.Background(), &ev))

	assert.InDelta(t, before+1, ptestutil.ToFloat64(counter), 0.001)
}
