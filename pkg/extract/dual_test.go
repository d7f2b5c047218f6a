package extract_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	"github.com/donaldgifford/bike-hunter/pkg/extract"
	extractMocks "github.com/donaldgifford/bike-hunter/pkg/extract/mocks"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var dualListing = domain.RawListing{
	Title:       "Canyon Spectral 29 CF 8 2021",
	Description: "Carbon, Größe L",
	Price:       2400,
	Link:        "https://example.test/s-anzeige/1",
	Facts:       map[string]string{"Art": "Herren"},
}

func TestDualSource_Extract(t *testing.T) {
	t.Parallel()

	d := extractMocks.NewMockDescriber(t)
	d.EXPECT().
		Describe(mock.Anything, testImages, extract.ListingContext{
			Title:       dualListing.Title,
			Description: dualListing.Description,
			Price:       dualListing.Price,
			Facts:       dualListing.Facts,
		}).
		Return(&domain.EnrichedRecord{Brand: "Canyon", Model: "Spectral CF 8", ConfidenceScore: 80}, nil).
		Once()

	ds := extract.NewDualSource(newTestParser(), d, extract.WithDualSourceLogger(quietLogger()))
	parsed, enriched, err := ds.Extract(context.Background(), &dualListing, testImages)
	require.NoError(t, err)
	assert.Equal(t, "Canyon", parsed.Brand)
	assert.Equal(t, "Spectral CF 8", enriched.Model)
	assert.Equal(t, 80, enriched.ConfidenceScore)
}

func TestDualSource_NotTargetPropagates(t *testing.T) {
	t.Parallel()

	d := extractMocks.NewMockDescriber(t)
	d.EXPECT().Describe(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: frame only", extract.ErrNotTarget)).Once()

	ds := extract.NewDualSource(newTestParser(), d, extract.WithDualSourceLogger(quietLogger()))
	_, enriched, err := ds.Extract(context.Background(), &dualListing, testImages)
	require.ErrorIs(t, err, extract.ErrNotTarget)
	assert.True(t, enriched.IsEmpty())
}

func TestDualSource_TransientFailureFallsBack(t *testing.T) {
	before := ptestutil.ToFloat64(metrics.EnrichmentFailuresTotal)

	d := extractMocks.NewMockDescriber(t)
	d.EXPECT().Describe(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("503 from model")).Once()

	ds := extract.NewDualSource(newTestParser(), d, extract.WithDualSourceLogger(quietLogger()))
	parsed, enriched, err := ds.Extract(context.Background(), &dualListing, testImages)
	require.NoError(t, err)
	assert.Equal(t, "Canyon", parsed.Brand)
	assert.Equal(t, domain.EnrichedRecord{}, enriched)
	assert.InDelta(t, before+1, ptestutil.ToFloat64(metrics.EnrichmentFailuresTotal), 0.001)
}

func TestDualSource_NoImagesSkipsEnrichment(t *testing.T) {
	t.Parallel()

	d := extractMocks.NewMockDescriber(t)

	ds := extract.NewDualSource(newTestParser(), d)
	parsed, enriched, err := ds.Extract(context.Background(), &dualListing, nil)
	require.NoError(t, err)
	assert.Equal(t, "Canyon", parsed.Brand)
	assert.True(t, enriched.IsEmpty())
}
