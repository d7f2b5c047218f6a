// Package extract turns a listing into structured records: a deterministic
// parse of its text and an AI vision-language description of its photos.
// AI backends are abstracted behind LLMBackend for testability.
package extract

import (
	"context"
	"encoding/base64"
)

// FormatJSON is the format string for requesting JSON mode from LLM backends.
const FormatJSON = "json"

// Image is an attachment sent alongside a prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Base64 returns the image data in standard base64 encoding.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// GenerateRequest defines the input for an LLM generation call.
type GenerateRequest struct {
	Prompt      string
	SystemMsg   string
	Format      string // FormatJSON for JSON mode
	Temperature float64
	MaxTokens   int
	Images      []Image
}

// TokenUsage tracks LLM token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// LLMBackend defines the interface for multimodal LLM generation.
type LLMBackend interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
