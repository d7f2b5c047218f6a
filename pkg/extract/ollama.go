package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ollamaGeneratePath = "/api/generate"
	// maxOllamaErrorBody caps how much of a failed reply ends up in errors
	// and logs.
	maxOllamaErrorBody = 512
)

// OllamaBackend talks to a local Ollama server. Describe and condition
// calls need a vision model such as llava or qwen2.5vl.
type OllamaBackend struct {
	endpoint  string
	model     string
	keepAlive string
	client    *http.Client
}

// OllamaOption configures the OllamaBackend.
type OllamaOption func(*OllamaBackend)

// WithOllamaHTTPClient overrides the default HTTP client.
func WithOllamaHTTPClient(c *http.Client) OllamaOption {
	return func(b *OllamaBackend) {
		b.client = c
	}
}

// WithOllamaKeepAlive sets how long the server keeps the model loaded
// between calls, e.g. "10m". Empty leaves the server default.
func WithOllamaKeepAlive(d string) OllamaOption {
	return func(b *OllamaBackend) {
		b.keepAlive = d
	}
}

// NewOllamaBackend returns a backend for the model served at endpoint.
func NewOllamaBackend(endpoint, model string, opts ...OllamaOption) *OllamaBackend {
	b := &OllamaBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*OllamaBackend) Name() string {
	return "ollama"
}

type ollamaRequest struct {
	Model     string         `json:"model"`
	Prompt    string         `json:"prompt"`
	System    string         `json:"system,omitempty"`
	Format    string         `json:"format,omitempty"`
	Stream    bool           `json:"stream"`
	Images    []string       `json:"images,omitempty"`
	KeepAlive string         `json:"keep_alive,omitempty"`
	Options   *ollamaOptions `json:"options,omitempty"`
}

// ollamaOptions holds sampling settings; Ollama ignores num_predict
// outside of this object.
type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Error           string `json:"error"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Generate sends one non-streaming generate call. Images go out as bare
// base64, which is what Ollama expects instead of data URLs.
func (b *OllamaBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	payload := ollamaRequest{
		Model:     b.model,
		Prompt:    req.Prompt,
		System:    req.SystemMsg,
		KeepAlive: b.keepAlive,
	}
	for _, img := range req.Images {
		payload.Images = append(payload.Images, img.Base64())
	}
	if req.Format == FormatJSON {
		payload.Format = FormatJSON
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		payload.Options = &ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.endpoint+ollamaGeneratePath, bytes.NewReader(body))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("reading ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return GenerateResponse{}, fmt.Errorf("ollama error (status %d): %s",
			resp.StatusCode, ollamaErrorText(raw))
	}

	var out ollamaResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing ollama response: %w", err)
	}
	if out.Error != "" {
		return GenerateResponse{}, fmt.Errorf("ollama error: %s", out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return GenerateResponse{}, errors.New("ollama returned an empty response")
	}

	return GenerateResponse{
		Content: out.Response,
		Model:   out.Model,
		Usage: TokenUsage{
			PromptTokens:     out.PromptEvalCount,
			CompletionTokens: out.EvalCount,
			TotalTokens:      out.PromptEvalCount + out.EvalCount,
		},
	}, nil
}

// ollamaErrorText prefers the server's {"error": "..."} message over the
// raw body.
func ollamaErrorText(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > maxOllamaErrorBody {
		s = s[:maxOllamaErrorBody] + "..."
	}
	return s
}
