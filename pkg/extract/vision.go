package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// ErrNotTarget is returned when the vision model says the listing is not a
// complete bicycle. It is a terminal rejection, not a transient failure.
var ErrNotTarget = errors.New("listing is not a target product")

// ListingContext is the text shown to the vision model next to the images.
type ListingContext struct {
	Title       string
	Description string
	Price       int
	Facts       map[string]string
}

// describeResponse is the JSON contract of the describe prompt.
type describeResponse struct {
	IsBicycle       *bool   `json:"is_bicycle"       validate:"required"`
	RejectionReason *string `json:"rejection_reason"`
	Brand           *string `json:"brand"`
	Model           *string `json:"model"`
	Year            *int    `json:"year"             validate:"omitempty,min=1980,max=2100"`
	Material        *string `json:"material"         validate:"omitempty,oneof=carbon aluminum steel titanium other"`
	FrameSize       *string `json:"frame_size"       validate:"omitempty,max=16"`
	WheelSize       *string `json:"wheel_size"       validate:"omitempty,max=16"`
	Category        *string `json:"category"         validate:"omitempty,oneof=xc trail enduro dh emtb road gravel other"`
	Price           *int    `json:"price"            validate:"omitempty,min=0"`
	ConfidenceScore int     `json:"confidence_score" validate:"min=0,max=100"`
}

// VisionExtractor asks a multimodal model to describe a listing.
type VisionExtractor struct {
	backend     LLMBackend
	validate    *validator.Validate
	temperature float64
	maxTokens   int
}

// VisionOption configures the VisionExtractor.
type VisionOption func(*VisionExtractor)

// WithTemperature sets the LLM temperature.
func WithTemperature(t float64) VisionOption {
	return func(e *VisionExtractor) {
		e.temperature = t
	}
}

// WithMaxTokens sets the max tokens for LLM responses.
func WithMaxTokens(n int) VisionOption {
	return func(e *VisionExtractor) {
		e.maxTokens = n
	}
}

// NewVisionExtractor creates a new VisionExtractor.
func NewVisionExtractor(backend LLMBackend, opts ...VisionOption) *VisionExtractor {
	e := &VisionExtractor{
		backend:     backend,
		validate:    validator.New(),
		temperature: 0.1,
		maxTokens:   768,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Describe returns the model's description of the bike in images. It
// returns ErrNotTarget when the model rejects the listing.
func (e *VisionExtractor) Describe(
	ctx context.Context,
	images []Image,
	lc ListingContext,
) (*domain.EnrichedRecord, error) {
	prompt, err := RenderDescribePrompt(lc)
	if err != nil {
		return nil, err
	}

	resp, err := e.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   visionSystemMsg,
		Format:      FormatJSON,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
		Images:      images,
	})
	if err != nil {
		return nil, fmt.Errorf("calling %s for description: %w", e.backend.Name(), err)
	}

	var dr describeResponse
	if err := decodeJSON(resp.Content, &dr); err != nil {
		return nil, err
	}
	if err := e.validate.Struct(&dr); err != nil {
		return nil, fmt.Errorf("validating description: %w", err)
	}

	if !*dr.IsBicycle {
		reason := "no reason given"
		if dr.RejectionReason != nil && *dr.RejectionReason != "" {
			reason = *dr.RejectionReason
		}
		return nil, fmt.Errorf("%w: %s", ErrNotTarget, reason)
	}

	return &domain.EnrichedRecord{
		Brand:           deref(dr.Brand),
		Model:           deref(dr.Model),
		Year:            dr.Year,
		Material:        deref(dr.Material),
		FrameSize:       deref(dr.FrameSize),
		WheelSize:       deref(dr.WheelSize),
		Category:        domain.Category(deref(dr.Category)),
		Price:           dr.Price,
		ConfidenceScore: dr.ConfidenceScore,
	}, nil
}

// decodeJSON parses a model reply, tolerating Markdown code fences and
// chatter around the object.
func decodeJSON(content string, v any) error {
	s := strings.TrimSpace(content)
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("parsing LLM JSON response: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
