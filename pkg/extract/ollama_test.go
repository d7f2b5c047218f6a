package extract_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/pkg/extract"
)

func TestOllamaBackend_Name(t *testing.T) {
	t.Parallel()
	b := extract.NewOllamaBackend("http://localhost:11434", "qwen2.5vl")
	assert.Equal(t, "ollama", b.Name())
}

func TestOllamaBackend_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		req        extract.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantUsage  extract.TokenUsage
	}{
		{
			name: "successful generation",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"model":"qwen2.5vl","response":"A"}`))
			},
			req: extract.GenerateRequest{
				Prompt:      "grade this",
				Temperature: 0.1,
				MaxTokens:   50,
			},
			wantResp: "A",
		},
		{
			name: "images sent as base64",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					Images []string `json:"images"`
				}
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, []string{"aGk="}, body.Images)
				_, _ = w.Write([]byte(`{"model":"qwen2.5vl","response":"{}"}`))
			},
			req: extract.GenerateRequest{
				Prompt: "describe",
				Images: []extract.Image{{Data: []byte("hi"), MIMEType: "image/png"}},
			},
			wantResp: "{}",
		},
		{
			name: "json format passed through",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"model":"qwen2.5vl","response":"{\"key\":\"val\"}"}`))
			},
			req: extract.GenerateRequest{
				Prompt:      "extract",
				Format:      "json",
				Temperature: 0.1,
				MaxTokens:   512,
			},
			wantResp: `{"key":"val"}`,
		},
		{
			name: "sampling settings sent as options",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "10m", body["keep_alive"])
				assert.NotContains(t, body, "num_predict")
				assert.Equal(t, map[string]any{"temperature": 0.2, "num_predict": float64(300)}, body["options"])
				_, _ = w.Write([]byte(`{"model":"qwen2.5vl","response":"ok","prompt_eval_count":120,"eval_count":30}`))
			},
			req: extract.GenerateRequest{
				Prompt:      "grade",
				Temperature: 0.2,
				MaxTokens:   300,
			},
			wantResp:  "ok",
			wantUsage: extract.TokenUsage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150},
		},
		{
			name: "model not pulled",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"model 'qwen2.5vl' not found"}`))
			},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "ollama error (status 404): model 'qwen2.5vl' not found",
		},
		{
			name: "empty response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"model":"qwen2.5vl","response":"  "}`))
			},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "empty response",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`internal error`))
			},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "ollama error (status 500)",
		},
		{
			name: "invalid JSON response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`not json`))
			},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "parsing ollama",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
			req:        extract.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "calling ollama",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			clientTimeout := 5 * time.Second
			if tt.name == "timeout" {
				clientTimeout = 50 * time.Millisecond
			}

			backend := extract.NewOllamaBackend(
				srv.URL,
				"qwen2.5vl",
				extract.WithOllamaHTTPClient(&http.Client{Timeout: clientTimeout}),
				extract.WithOllamaKeepAlive("10m"),
			)

			resp, err := backend.Generate(context.Background(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			assert.Equal(t, "qwen2.5vl", resp.Model)
			assert.Equal(t, tt.wantUsage, resp.Usage)
		})
	}
}
