package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Describer is the AI half of the dual-source extraction.
type Describer interface {
	Describe(ctx context.Context, images []Image, lc ListingContext) (*domain.EnrichedRecord, error)
}

// DualSource produces the two independent descriptions of a listing.
type DualSource struct {
	parser    *Parser
	describer Describer
	log       *slog.Logger
}

// DualSourceOption configures a DualSource.
type DualSourceOption func(*DualSource)

// WithDualSourceLogger sets the logger.
func WithDualSourceLogger(l *slog.Logger) DualSourceOption {
	return func(d *DualSource) {
		d.log = l
	}
}

// NewDualSource creates a DualSource. A nil describer disables enrichment.
func NewDualSource(parser *Parser, describer Describer, opts ...DualSourceOption) *DualSource {
	d := &DualSource{
		parser:    parser,
		describer: describer,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Extract returns the parsed and enriched records for a listing. Transient
// enrichment failures yield an empty EnrichedRecord; an AI rejection is
// returned as ErrNotTarget.
func (d *DualSource) Extract(
	ctx context.Context,
	l *domain.RawListing,
	images []Image,
) (domain.ParsedRecord, domain.EnrichedRecord, error) {
	parsed := d.parser.Parse(l)
	if d.describer == nil || len(images) == 0 {
		return parsed, domain.EnrichedRecord{}, nil
	}

	start := time.Now()
	enriched, err := d.describer.Describe(ctx, images, ListingContext{
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Facts:       l.Facts,
	})
	metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrNotTarget):
		return parsed, domain.EnrichedRecord{}, err
	case err != nil:
		metrics.EnrichmentFailuresTotal.Inc()
		d.log.Warn("enrichment failed, using parsed record only",
			"url", l.Link,
			"error", err,
		)
		return parsed, domain.EnrichedRecord{}, nil
	case enriched == nil:
		return parsed, domain.EnrichedRecord{}, nil
	}
	return parsed, *enriched, nil
}
