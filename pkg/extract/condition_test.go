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

func TestConditionScorer_Score(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    domain.ConditionReport
		errSub  string
	}{
		{
			name: "graded",
			content: `{"score": 6.5, "grade": "C", "penalty": 0.3,
				"reasons": ["worn drivetrain"], "defects": ["scratched top tube"],
				"positives": ["new tires"], "needs_review": false}`,
			want: domain.ConditionReport{
				Score:     6.5,
				Grade:     domain.GradeC,
				Penalty:   0.3,
				Reasons:   []string{"worn drivetrain"},
				Defects:   []string{"scratched top tube"},
				Positives: []string{"new tires"},
			},
		},
		{
			name:    "grade out of range",
			content: `{"score": 6.5, "grade": "E", "penalty": 0.3}`,
			errSub:  "validating condition",
		},
		{
			name:    "penalty out of range",
			content: `{"score": 6.5, "grade": "A", "penalty": 1.5}`,
			errSub:  "validating condition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := extractMocks.NewMockLLMBackend(t)
			backend.EXPECT().
				Generate(mock.Anything, mock.MatchedBy(func(req extract.GenerateRequest) bool {
					return assert.ObjectsAreEqual(testImages, req.Images)
				})).
				Return(extract.GenerateResponse{Content: tt.content}, nil).
				Once()

			got, err := extract.NewConditionScorer(backend).
				Score(context.Background(), testImages, "Gebraucht", map[string]string{"Zustand": "Gut"})
			if tt.errSub != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConditionScorer_BackendError(t *testing.T) {
	t.Parallel()

	backend := extractMocks.NewMockLLMBackend(t)
	backend.EXPECT().Generate(mock.Anything, mock.Anything).
		Return(extract.GenerateResponse{}, errors.New("quota exceeded")).Once()
	backend.EXPECT().Name().Return("anthropic").Once()

	_, err := extract.NewConditionScorer(backend).Score(context.Background(), testImages, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling anthropic for condition")
}
