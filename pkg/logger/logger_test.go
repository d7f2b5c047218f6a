package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warning alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "upper case", input: "DEBUG", want: slog.LevelDebug},
		{name: "padded", input: " error ", want: slog.LevelError},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "unknown defaults to info", input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	require.NotNil(t, logger.New("info", "text"))
}

func TestNewWithWriter_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger.NewWithWriter(&buf, "info", "text").Info("hunt run starting", "targets", 20)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "hunt run starting")
	assert.Contains(t, out, "service=bike-hunter")
	assert.Contains(t, out, "targets=20")
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger.NewWithWriter(&buf, "info", "JSON").Info("listing outcome", "stage", "persisted")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "listing outcome", rec["msg"])
	assert.Equal(t, "bike-hunter", rec["service"])
	assert.Equal(t, "persisted", rec["stage"])
}

func TestNewWithWriter_RedactsSecrets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "info", "text")
	l.Info("notifier configured",
		"webhook_url", "https://discord.com/api/webhooks/1/secret",
		"api_key", "sk-123",
		"Password", "hunter2",
		"url", "https://www.kleinanzeigen.de/s-anzeige/1",
	)

	out := buf.String()
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, "sk-123")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "webhook_url=[REDACTED]")
	assert.Contains(t, out, "url=https://www.kleinanzeigen.de/s-anzeige/1")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		level      string
		logFunc    func(*slog.Logger)
		wantOutput bool
	}{
		{
			name:       "debug message visible at debug level",
			level:      "debug",
			logFunc:    func(l *slog.Logger) { l.Debug("test") },
			wantOutput: true,
		},
		{
			name:       "debug message suppressed at info level",
			level:      "info",
			logFunc:    func(l *slog.Logger) { l.Debug("test") },
			wantOutput: false,
		},
		{
			name:       "warn message visible at warn level",
			level:      "warn",
			logFunc:    func(l *slog.Logger) { l.Warn("test") },
			wantOutput: true,
		},
		{
			name:       "info message suppressed at error level",
			level:      "error",
			logFunc:    func(l *slog.Logger) { l.Info("test") },
			wantOutput: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.logFunc(logger.NewWithWriter(&buf, tt.level, "text"))

			if tt.wantOutput {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
