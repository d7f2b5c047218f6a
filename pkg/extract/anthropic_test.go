package extract_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/pkg/extract"
)

func TestAnthropicBackend_Name(t *testing.T) {
	t.Parallel()
	b := extract.NewAnthropicBackend()
	assert.Equal(t, "anthropic", b.Name())
}

func TestAnthropicBackend_Generate(t *testing.T) {
	t.Parallel()

	successResponse := `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"content": [{"type": "text", "text": "{\"brand\":\"Canyon\"}"}],
		"model": "claude-haiku-4-5",
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 1200, "output_tokens": 40}
	}`

	tests := []struct {
		name       string
		apiKey     string
		handler    http.HandlerFunc
		req        extract.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantUsage  int
	}{
		{
			name:   "successful generation with images",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/messages", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

				var body struct {
					System   []map[string]any `json:"system"`
					Messages []struct {
						Content []map[string]any `json:"content"`
					} `json:"messages"`
				}
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				if assert.Len(t, body.Messages, 1) && assert.Len(t, body.Messages[0].Content, 2) {
					assert.Equal(t, "image", body.Messages[0].Content[0]["type"])
					assert.Equal(t, "text", body.Messages[0].Content[1]["type"])
				}
				assert.Len(t, body.System, 1)

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(successResponse))
			},
			req: extract.GenerateRequest{
				Prompt:      "describe this bike",
				SystemMsg:   "you are a bike appraiser",
				Temperature: 0.1,
				MaxTokens:   512,
				Images:      []extract.Image{{Data: []byte{0x89, 0x50, 0x4e, 0x47}, MIMEType: "image/png"}},
			},
			wantResp:  `{"brand":"Canyon"}`,
			wantUsage: 1240,
		},
		{
			name:       "missing API key",
			apiKey:     "",
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "ANTHROPIC_API_KEY",
		},
		{
			name:   "rate limited 429",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"rate limit exceeded"}}`))
			},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "calling anthropic API",
		},
		{
			name:   "empty content array",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"msg_02","type":"message","role":"assistant","content":[],"model":"test","usage":{"input_tokens":1,"output_tokens":0}}`))
			},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := extract.NewAnthropicBackend(
				extract.WithAnthropicAPIKey(tt.apiKey),
				extract.WithAnthropicEndpoint(srv.URL+"/"),
				extract.WithAnthropicHTTPClient(srv.Client()),
				extract.WithAnthropicMaxRetries(0),
			)

			resp, err := b.Generate(context.Background(), tt.req)
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
