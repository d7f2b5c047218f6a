package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
)

const (
	colorRed    = 0xE74C3C // hotness
	colorPurple = 0x9B59B6 // jackpot
	colorGray   = 0x95A5A6
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Thumbnail   *discordThumbnail   `json:"thumbnail,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

// Notify sends ev as a single Discord embed.
func (d *DiscordNotifier) Notify(ctx context.Context, ev *Event) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(ev)},
	}
	if err := d.post(ctx, payload); err != nil {
		return err
	}
	metrics.AlertsSentTotal.WithLabelValues(string(ev.Kind)).Inc()
	return nil
}

func buildEmbed(ev *Event) discordEmbed {
	embed := discordEmbed{
		Title: fmt.Sprintf("%s: %s", kindLabel(ev.Kind), ev.Title),
		URL:   ev.URL,
		Color: kindColor(ev.Kind),
		Fields: []discordEmbedField{
			{Name: "Price", Value: fmt.Sprintf("%d €", ev.Price), Inline: true},
		},
	}

	if ev.FMV != nil {
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "FMV", Value: fmt.Sprintf("%d €", *ev.FMV), Inline: true},
			discordEmbedField{Name: "Discount", Value: fmt.Sprintf("%.1f%%", ev.DiscountPct), Inline: true},
		)
	}
	if ev.Kind == KindHotness {
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "Hotness", Value: fmt.Sprintf("%.0f", ev.HotnessScore), Inline: true},
			discordEmbedField{Name: "Margin", Value: fmt.Sprintf("%.0f%%", ev.Margin*100), Inline: true},
		)
	}
	if ev.Brand != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name: "Bike", Value: strings.TrimSpace(ev.Brand + " " + ev.Model), Inline: true,
		})
	}
	if len(ev.Reasons) > 0 {
		embed.Description = strings.Join(ev.Reasons, "\n")
	}
	if ev.ImageURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: ev.ImageURL}
	}

	return embed
}

func kindLabel(k EventKind) string {
	switch k {
	case KindHotness:
		return "Hot deal"
	case KindJackpot:
		return "Jackpot candidate"
	default:
		return "Alert"
	}
}

func kindColor(k EventKind) int {
	switch k {
	case KindHotness:
		return colorRed
	case KindJackpot:
		return colorPurple
	default:
		return colorGray
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
