package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/pkg/extract"
	extractMocks "github.com/donaldgifford/bike-hunter/pkg/extract/mocks"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

var testImages = []extract.Image{{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}}

func TestVisionExtractor_Describe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    *domain.EnrichedRecord
		wantErr error
		errSub  string
	}{
		{
			name: "bicycle",
			content: `{"is_bicycle": true, "rejection_reason": null, "brand": "Canyon",
				"model": "Spectral CF 8", "year": 2021, "material": "carbon", "frame_size": "L",
				"wheel_size": "29", "category": "trail", "price": 2400, "confidence_score": 85}`,
			want: &domain.EnrichedRecord{
				Brand:           "Canyon",
				Model:           "Spectral CF 8",
				Year:            intPtr(2021),
				Material:        "carbon",
				FrameSize:       "L",
				WheelSize:       "29",
				Category:        domain.CategoryTrail,
				Price:           intPtr(2400),
				ConfidenceScore: 85,
			},
		},
		{
			name:    "fenced json with nulls",
			content: "```json\n{\"is_bicycle\": true, \"brand\": \"Cube\", \"model\": null, \"confidence_score\": 40}\n```",
			want:    &domain.EnrichedRecord{Brand: "Cube", ConfidenceScore: 40},
		},
		{
			name:    "not a bicycle",
			content: `{"is_bicycle": false, "rejection_reason": "only a frame", "confidence_score": 90}`,
			wantErr: extract.ErrNotTarget,
			errSub:  "only a frame",
		},
		{
			name:    "missing is_bicycle",
			content: `{"brand": "Cube", "confidence_score": 40}`,
			errSub:  "validating description",
		},
		{
			name:    "unknown material",
			content: `{"is_bicycle": true, "material": "bamboo", "confidence_score": 40}`,
			errSub:  "validating description",
		},
		{
			name:    "not json",
			content: "I cannot help with that.",
			errSub:  "parsing LLM JSON response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := extractMocks.NewMockLLMBackend(t)
			backend.EXPECT().
				Generate(mock.Anything, mock.MatchedBy(func(req extract.GenerateRequest) bool {
					return req.Format == extract.FormatJSON && len(req.Images) == 1
				})).
				Return(extract.GenerateResponse{Content: tt.content}, nil).
				Once()

			v := extract.NewVisionExtractor(backend)
			got, err := v.Describe(context.Background(), testImages, extract.ListingContext{
				Title: "Canyon Spectral 29 CF 8",
				Price: 2400,
			})

			if tt.want == nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, err.Error(), tt.errSub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVisionExtractor_BackendError(t *testing.T) {
	t.Parallel()

	backend := extractMocks.NewMockLLMBackend(t)
	backend.EXPECT().Generate(mock.Anything, mock.Anything).
		Return(extract.GenerateResponse{}, errors.New("connection refused")).Once()
	backend.EXPECT().Name().Return("gemini").Once()

	_, err := extract.NewVisionExtractor(backend).Describe(context.Background(), testImages, extract.ListingContext{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, extract.ErrNotTarget)
	assert.Contains(t, err.Error(), "calling gemini for description")
}

func TestVisionExtractor_Options(t *testing.T) {
	t.Parallel()

	backend := extractMocks.NewMockLLMBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(req extract.GenerateRequest) bool {
			return req.Temperature == 0.4 && req.MaxTokens == 100
		})).
		Return(extract.GenerateResponse{Content: `{"is_bicycle": true, "confidence_score": 10}`}, nil).
		Once()

	v := extract.NewVisionExtractor(backend, extract.WithTemperature(0.4), extract.WithMaxTokens(100))
	rec, err := v.Describe(context.Background(), testImages, extract.ListingContext{})
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())
}
