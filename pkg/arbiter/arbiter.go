// Package arbiter reconciles the parsed and AI-enriched descriptions of a
// listing into a single MergedRecord.
package arbiter

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Severity ranks a conflict.
type Severity string

// Severity constants. High severity blocks the merge; low severity lets it
// proceed but marks the result for review.
const (
	SeverityLow  Severity = "low"
	SeverityHigh Severity = "high"
)

// Field names used in conflicts.
const (
	FieldRequired  = "required"
	FieldYear      = "year"
	FieldMaterial  = "material"
	FieldFrameSize = "frame_size"
	FieldPrice     = "price"
)

// Conflict is one disagreement between the two sources.
type Conflict struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

// Result is the outcome of a reconciliation. Merged is nil unless Approved.
// NeedsReview is set by any conflict, blocking auto-publication even when
// the merge was approved.
type Result struct {
	Approved    bool                 `json:"approved"`
	NeedsReview bool                 `json:"needs_review"`
	Reasons     []string             `json:"reasons,omitempty"`
	Conflicts   []Conflict           `json:"conflicts,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
	Merged      *domain.MergedRecord `json:"merged,omitempty"`
}

// Config holds the conflict tolerances.
type Config struct {
	YearTolerance   int
	PriceTolerance  float64
	SizeToleranceCM float64
}

// DefaultConfig returns the default tolerances.
func DefaultConfig() Config {
	return Config{
		YearTolerance:   1,
		PriceTolerance:  0.20,
		SizeToleranceCM: 2,
	}
}

// Arbiter reconciles parsed and enriched records.
type Arbiter struct {
	cfg       Config
	materials *lexicon.Resolver
	log       *slog.Logger
}

// Option configures an Arbiter.
type Option func(*Arbiter)

// WithConfig overrides the tolerances.
func WithConfig(cfg Config) Option {
	return func(a *Arbiter) {
		a.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arbiter) {
		a.log = l
	}
}

// New creates an Arbiter using the material keywords of lex.
func New(lex *lexicon.Lexicon, opts ...Option) *Arbiter {
	table := make(lexicon.Table, len(lex.Materials))
	for m, words := range lex.Materials {
		table[string(m)] = words
	}
	a := &Arbiter{
		cfg:       DefaultConfig(),
		materials: lexicon.NewResolver(table),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reconcile checks the required fields of the merge and then every conflict
// rule. All rules run so that every reason is reported.
func (a *Arbiter) Reconcile(parsed domain.ParsedRecord, enriched domain.EnrichedRecord) Result {
	merged := a.Merge(parsed, enriched)
	var res Result

	if missing := missingFields(&merged); len(missing) > 0 {
		res.add(Conflict{
			Field:    FieldRequired,
			Severity: SeverityHigh,
			Reason:   "missing required fields: " + strings.Join(missing, ", "),
		})
	}

	if parsed.Year != nil && enriched.Year != nil {
		if d := absInt(*parsed.Year - *enriched.Year); d > a.cfg.YearTolerance {
			res.add(Conflict{
				Field:    FieldYear,
				Severity: SeverityLow,
				Reason:   fmt.Sprintf("year mismatch: parsed %d, enriched %d", *parsed.Year, *enriched.Year),
			})
		}
	}

	pm, em := a.NormalizeMaterial(parsed.FrameMaterial), a.NormalizeMaterial(enriched.Material)
	if pm != domain.MaterialUnknown && em != domain.MaterialUnknown && pm != em {
		res.add(Conflict{
			Field:    FieldMaterial,
			Severity: SeverityHigh,
			Reason:   fmt.Sprintf("material mismatch: parsed %s, enriched %s", pm, em),
		})
	}

	if parsed.FrameSize != "" && enriched.FrameSize != "" {
		compatible, comparable := SizesCompatible(parsed.FrameSize, enriched.FrameSize, a.cfg.SizeToleranceCM)
		switch {
		case !comparable:
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"frame sizes not comparable: parsed %s, enriched %s", parsed.FrameSize, enriched.FrameSize))
			a.log.Warn("frame sizes not comparable",
				"parsed", parsed.FrameSize,
				"enriched", enriched.FrameSize,
			)
		case !compatible:
			res.add(Conflict{
				Field:    FieldFrameSize,
				Severity: SeverityLow,
				Reason:   fmt.Sprintf("frame size mismatch: parsed %s, enriched %s", parsed.FrameSize, enriched.FrameSize),
			})
		}
	}

	if parsed.Price != nil && enriched.Price != nil {
		p, e := float64(*parsed.Price), float64(*enriched.Price)
		if avg := (p + e) / 2; avg > 0 && math.Abs(p-e)/avg > a.cfg.PriceTolerance {
			res.add(Conflict{
				Field:    FieldPrice,
				Severity: SeverityHigh,
				Reason:   fmt.Sprintf("price mismatch: parsed %d, enriched %d", *parsed.Price, *enriched.Price),
			})
		}
	}

	res.Approved = true
	res.NeedsReview = len(res.Conflicts) > 0
	for _, c := range res.Conflicts {
		metrics.ArbiterConflictsTotal.WithLabelValues(c.Field, string(c.Severity)).Inc()
		if c.Severity == SeverityHigh {
			res.Approved = false
		}
	}
	if res.Approved {
		res.Merged = &merged
	}
	return res
}

func (r *Result) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
	r.Reasons = append(r.Reasons, c.Reason)
}

// Merge combines the two records field by field. Enriched values win over
// parsed values whenever they are set.
func (a *Arbiter) Merge(parsed domain.ParsedRecord, enriched domain.EnrichedRecord) domain.MergedRecord {
	m := domain.MergedRecord{
		Title:           parsed.Title,
		Brand:           firstNonEmpty(enriched.Brand, parsed.Brand),
		Model:           firstNonEmpty(enriched.Model, parsed.Model),
		Year:            parsed.Year,
		FrameMaterial:   string(a.NormalizeMaterial(firstNonEmpty(enriched.Material, parsed.FrameMaterial))),
		FrameSize:       firstNonEmpty(enriched.FrameSize, parsed.FrameSize),
		WheelSize:       firstNonEmpty(enriched.WheelSize, parsed.WheelSize),
		Category:        parsed.Category,
		ConfidenceScore: enriched.ConfidenceScore,
	}
	if enriched.Year != nil {
		m.Year = enriched.Year
	}
	if enriched.Category != "" {
		m.Category = enriched.Category
	}
	switch {
	case enriched.Price != nil && *enriched.Price > 0:
		m.Price = *enriched.Price
	case parsed.Price != nil:
		m.Price = *parsed.Price
	}
	return m
}

// NormalizeMaterial maps free text to a known material. Text that names no
// known material becomes MaterialOther; empty text stays unknown.
func (a *Arbiter) NormalizeMaterial(s string) domain.Material {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.MaterialUnknown
	}
	if m, _, ok := a.materials.Resolve(s); ok {
		return domain.Material(m)
	}
	return domain.MaterialOther
}

// SizesCompatible compares two frame sizes. Identical sizes always match;
// two letter sizes must be equal and two numeric sizes may differ by up to
// toleranceCM. A letter size and a numeric size are not comparable.
func SizesCompatible(a, b string, toleranceCM float64) (compatible, comparable bool) {
	na, nb := normalizeSize(a), normalizeSize(b)
	if na == nb {
		return true, true
	}
	ca, aNumeric := sizeCM(na)
	cb, bNumeric := sizeCM(nb)
	switch {
	case aNumeric && bNumeric:
		return math.Abs(ca-cb) <= toleranceCM, true
	case !aNumeric && !bNumeric:
		return false, true
	default:
		return true, false
	}
}

func normalizeSize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, ",", ".")
}

// sizeCM converts a normalized numeric size to centimeters. Inch sizes
// are converted; bare numbers are taken as centimeters.
func sizeCM(s string) (float64, bool) {
	factor := 1.0
	switch {
	case strings.HasSuffix(s, "CM"):
		s = strings.TrimSuffix(s, "CM")
	case strings.HasSuffix(s, `"`):
		s, factor = strings.TrimSuffix(s, `"`), 2.54
	case strings.HasSuffix(s, "ZOLL"):
		s, factor = strings.TrimSuffix(s, "ZOLL"), 2.54
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * factor, true
}

func missingFields(m *domain.MergedRecord) []string {
	var missing []string
	if strings.TrimSpace(m.Brand) == "" {
		missing = append(missing, "brand")
	}
	if strings.TrimSpace(m.Model) == "" {
		missing = append(missing, "model")
	}
	if m.Price <= 0 {
		missing = append(missing, "price")
	}
	return missing
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
