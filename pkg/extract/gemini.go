package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiBackend implements LLMBackend using the Gemini API.
type GeminiBackend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// GeminiOption configures the GeminiBackend.
type GeminiOption func(*GeminiBackend)

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(b *GeminiBackend) {
		b.model = model
	}
}

// WithGeminiAPIKey overrides the API key (instead of reading from env).
func WithGeminiAPIKey(key string) GeminiOption {
	return func(b *GeminiBackend) {
		b.apiKey = key
	}
}

// WithGeminiEndpoint overrides the API base URL.
func WithGeminiEndpoint(url string) GeminiOption {
	return func(b *GeminiBackend) {
		b.endpoint = url
	}
}

// WithGeminiHTTPClient overrides the default HTTP client.
func WithGeminiHTTPClient(c *http.Client) GeminiOption {
	return func(b *GeminiBackend) {
		b.client = c
	}
}

// NewGeminiBackend creates a Gemini backend. The API key is read from the
// GEMINI_API_KEY environment variable if not provided via options.
func NewGeminiBackend(opts ...GeminiOption) *GeminiBackend {
	b := &GeminiBackend{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  defaultGeminiModel,
		client: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*GeminiBackend) Name() string {
	return "gemini"
}

// Generate calls GenerateContent with the prompt and any images.
func (b *GeminiBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if b.apiKey == "" {
		return GenerateResponse{}, errors.New("GEMINI_API_KEY is not set")
	}

	cc := &genai.ClientConfig{
		APIKey:     b.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: b.client,
	}
	if b.endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: b.endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("creating gemini client: %w", err)
	}

	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	config := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Format == FormatJSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.SystemMsg != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemMsg, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, b.model, []*genai.Content{
		{Role: genai.RoleUser, Parts: parts},
	}, config)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return GenerateResponse{}, errors.New("empty response from gemini")
	}

	out := GenerateResponse{Content: text, Model: resp.ModelVersion}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}
