package extract_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/pkg/extract"
)

func TestGeminiBackend_Name(t *testing.T) {
	t.Parallel()
	b := extract.NewGeminiBackend()
	assert.Equal(t, "gemini", b.Name())
}

func TestGeminiBackend_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		apiKey     string
		handler    http.HandlerFunc
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantUsage  int
	}{
		{
			name:   "successful generation",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{
					"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"brand\":\"YT\"}"}]}}],
					"usageMetadata": {"promptTokenCount": 900, "candidatesTokenCount": 30, "totalTokenCount": 930},
					"modelVersion": "gemini-2.5-flash"
				}`))
			},
			wantResp:  `{"brand":"YT"}`,
			wantUsage: 930,
		},
		{
			name:       "missing API key",
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			wantErr:    true,
			wantErrMsg: "GEMINI_API_KEY",
		},
		{
			name:   "server error",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "bad image", "status": "INVALID_ARGUMENT"}}`))
			},
			wantErr:    true,
			wantErrMsg: "calling gemini API",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := extract.NewGeminiBackend(
				extract.WithGeminiAPIKey(tt.apiKey),
				extract.WithGeminiEndpoint(srv.URL+"/"),
				extract.WithGeminiHTTPClient(srv.Client()),
			)

			resp, err := b.Generate(context.Background(), extract.GenerateRequest{
				Prompt:    "describe",
				SystemMsg: "appraiser",
				Format:    extract.FormatJSON,
				Images:    []extract.Image{{Data: []byte("jpeg"), MIMEType: "image/jpeg"}},
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			assert.Equal(t, tt.wantUsage, resp.Usage.TotalTokens)
		})
	}
}
