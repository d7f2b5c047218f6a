package extract

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// conditionResponse is the JSON contract of the condition prompt.
type conditionResponse struct {
	Score       float64  `json:"score"        validate:"min=0,max=10"`
	Grade       string   `json:"grade"        validate:"required,oneof=A B C D"`
	Penalty     float64  `json:"penalty"      validate:"min=0,max=1"`
	Reasons     []string `json:"reasons"`
	Defects     []string `json:"defects"`
	Positives   []string `json:"positives"`
	NeedsReview bool     `json:"needs_review"`
}

// ConditionScorer grades a bike's visual condition with a multimodal model.
type ConditionScorer struct {
	backend     LLMBackend
	validate    *validator.Validate
	temperature float64
	maxTokens   int
}

// NewConditionScorer creates a new ConditionScorer.
func NewConditionScorer(backend LLMBackend) *ConditionScorer {
	return &ConditionScorer{
		backend:     backend,
		validate:    validator.New(),
		temperature: 0.1,
		maxTokens:   512,
	}
}

// Score grades the bike in images.
func (s *ConditionScorer) Score(
	ctx context.Context,
	images []Image,
	description string,
	techSpecs map[string]string,
) (domain.ConditionReport, error) {
	prompt, err := RenderConditionPrompt(description, techSpecs)
	if err != nil {
		return domain.ConditionReport{}, err
	}

	resp, err := s.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   visionSystemMsg,
		Format:      FormatJSON,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Images:      images,
	})
	if err != nil {
		return domain.ConditionReport{}, fmt.Errorf("calling %s for condition: %w", s.backend.Name(), err)
	}

	var cr conditionResponse
	if err := decodeJSON(resp.Content, &cr); err != nil {
		return domain.ConditionReport{}, err
	}
	if err := s.validate.Struct(&cr); err != nil {
		return domain.ConditionReport{}, fmt.Errorf("validating condition: %w", err)
	}

	return domain.ConditionReport{
		Score:       cr.Score,
		Grade:       domain.ConditionGrade(cr.Grade),
		Penalty:     cr.Penalty,
		Reasons:     cr.Reasons,
		Defects:     cr.Defects,
		Positives:   cr.Positives,
		NeedsReview: cr.NeedsReview,
	}, nil
}
