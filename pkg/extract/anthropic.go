package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-haiku-4-5"

// AnthropicBackend implements LLMBackend using the Anthropic Messages API.
type AnthropicBackend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	retries  int
}

// AnthropicOption configures the AnthropicBackend.
type AnthropicOption func(*AnthropicBackend)

// WithAnthropicEndpoint overrides the default API base URL.
func WithAnthropicEndpoint(url string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.endpoint = url
	}
}

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.model = model
	}
}

// WithAnthropicAPIKey overrides the API key (instead of reading from env).
func WithAnthropicAPIKey(key string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.apiKey = key
	}
}

// WithAnthropicHTTPClient overrides the default HTTP client.
func WithAnthropicHTTPClient(c *http.Client) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.client = c
	}
}

// WithAnthropicMaxRetries sets how often the SDK retries a failed call.
func WithAnthropicMaxRetries(n int) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.retries = n
	}
}

// NewAnthropicBackend creates a new Anthropic Claude API backend.
// The API key is read from the ANTHROPIC_API_KEY environment variable
// if not provided via options.
func NewAnthropicBackend(opts ...AnthropicOption) *AnthropicBackend {
	b := &AnthropicBackend{
		apiKey:  os.Getenv("ANTHROPIC_API_KEY"),
		model:   defaultAnthropicModel,
		client:  &http.Client{Timeout: 90 * time.Second},
		retries: 2,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*AnthropicBackend) Name() string {
	return "anthropic"
}

// Generate calls the Anthropic Messages API with the prompt and any images.
func (b *AnthropicBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if b.apiKey == "" {
		return GenerateResponse{}, errors.New("ANTHROPIC_API_KEY is not set")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(b.apiKey),
		option.WithHTTPClient(b.client),
		option.WithMaxRetries(b.retries),
	}
	if b.endpoint != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(b.endpoint))
	}
	client := anthropic.NewClient(clientOpts...)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Images)+1)
	for _, img := range req.Images {
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MIMEType, img.Base64()))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(maxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.SystemMsg != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemMsg}}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling anthropic API: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return GenerateResponse{}, errors.New("empty response from anthropic")
	}

	in, out := int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens)
	return GenerateResponse{
		Content: text.String(),
		Model:   string(resp.Model),
		Usage: TokenUsage{
			PromptTokens:     in,
			CompletionTokens: out,
			TotalTokens:      in + out,
		},
	}, nil
}
