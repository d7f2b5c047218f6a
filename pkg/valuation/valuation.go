// Package valuation estimates the fair market value of a bike from the
// comparables corpus.
package valuation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// ErrInsufficientData is returned when the corpus cannot support an
// estimate. It is an expected outcome, not a failure.
var ErrInsufficientData = errors.New("insufficient comparables")

// ComparablesSource reads the comparables corpus.
type ComparablesSource interface {
	FindComparables(ctx context.Context, q *domain.ComparableQuery) ([]domain.MarketComparable, error)
}

// Request describes the bike to value. Zero values mean unknown.
type Request struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          *int   `json:"year,omitempty"`
	FrameSize     string `json:"frame_size,omitempty"`
	FrameMaterial string `json:"frame_material,omitempty"`
	AskingPrice   int    `json:"asking_price,omitempty"`
}

// Config holds the estimation constants.
type Config struct {
	MinSamples         int
	MinNarrowed        int
	MinSurvivors       int
	RecentDays         int
	Limit              int
	AnnualDepreciation float64
	MaxAdjustYears     int
	FloorRatio         float64
	DepreciationSpan   int
}

// DefaultConfig returns the default estimation constants.
func DefaultConfig() Config {
	return Config{
		MinSamples:         5,
		MinNarrowed:        3,
		MinSurvivors:       3,
		RecentDays:         365,
		Limit:              300,
		AnnualDepreciation: 0.12,
		MaxAdjustYears:     6,
		FloorRatio:         0.8,
		DepreciationSpan:   3,
	}
}

// Estimator computes FMV estimates.
type Estimator struct {
	src     ComparablesSource
	lex     *lexicon.Lexicon
	cfg     Config
	log     *slog.Logger
	nowFunc func() time.Time
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithConfig overrides the estimation constants.
func WithConfig(cfg Config) Option {
	return func(e *Estimator) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) {
		e.log = l
	}
}

// WithNowFunc overrides the clock.
func WithNowFunc(fn func() time.Time) Option {
	return func(e *Estimator) {
		e.nowFunc = fn
	}
}

// NewEstimator creates an Estimator reading from src. The lexicon supplies
// the brand price ceilings.
func NewEstimator(src ComparablesSource, lex *lexicon.Lexicon, opts ...Option) *Estimator {
	e := &Estimator{
		src:     src,
		lex:     lex,
		cfg:     DefaultConfig(),
		log:     slog.Default(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type sample struct {
	price float64
	year  int // 0 when unknown
}

// Estimate returns the year-window estimate for req, or ErrInsufficientData.
func (e *Estimator) Estimate(ctx context.Context, req Request) (*domain.FMVResult, error) {
	samples, err := e.samples(ctx, req)
	if err != nil {
		return nil, err
	}

	prices := make([]float64, 0, len(samples))
	for _, s := range e.yearWindow(samples, req.Year) {
		prices = append(prices, e.adjust(s, req.Year))
	}

	survivors := FilterOutliers(prices)
	if len(survivors) < e.cfg.MinSurvivors {
		return nil, fmt.Errorf("%w: %d of %d prices survived outlier filter", ErrInsufficientData, len(survivors), len(prices))
	}

	res := &domain.FMVResult{
		FMV:        int(math.Round(Median(survivors))),
		Confidence: ConfidenceFor(len(survivors)),
		SampleSize: len(survivors),
		Method:     domain.MethodYearWindow,
	}
	e.floor(res, req.AskingPrice)
	e.record(res, req)
	return res, nil
}

// EstimateWithDepreciation values each year within the configured span of
// the target year separately and combines them weighted by sample size.
// Without any usable year it falls back to the brand ceiling decayed by
// age.
func (e *Estimator) EstimateWithDepreciation(ctx context.Context, req Request) (*domain.FMVResult, error) {
	if req.Year == nil {
		return e.Estimate(ctx, req)
	}
	target := *req.Year

	samples, err := e.samples(ctx, req)
	if err != nil && !errors.Is(err, ErrInsufficientData) {
		return nil, err
	}

	var weighted, total float64
	var used int
	for y := target - e.cfg.DepreciationSpan; y <= target+e.cfg.DepreciationSpan; y++ {
		var prices []float64
		for _, s := range samples {
			if s.year == y {
				prices = append(prices, s.price)
			}
		}
		if len(prices) < e.cfg.MinSurvivors {
			continue
		}
		survivors := FilterOutliers(prices)
		if len(survivors) < e.cfg.MinSurvivors {
			continue
		}
		fmv := math.Round(Median(survivors))
		adjusted := AdjustForYear(fmv, y, target, e.cfg.AnnualDepreciation, e.cfg.MaxAdjustYears)
		weighted += adjusted * float64(len(survivors))
		total += float64(len(survivors))
		used += len(survivors)
	}

	if total == 0 {
		return e.ceilingEstimate(req, target), nil
	}

	res := &domain.FMVResult{
		FMV:        int(math.Round(weighted / total)),
		Confidence: ConfidenceFor(used),
		SampleSize: used,
		Method:     domain.MethodDepreciation,
	}
	e.floor(res, req.AskingPrice)
	e.record(res, req)
	return res, nil
}

func (e *Estimator) ceilingEstimate(req Request, target int) *domain.FMVResult {
	age := max(0, e.nowFunc().Year()-target)
	ceiling := float64(e.lex.Ceiling(req.Brand))
	res := &domain.FMVResult{
		FMV:        int(math.Round(ceiling * math.Pow(1-e.cfg.AnnualDepreciation, float64(age)))),
		Confidence: domain.ConfidenceLow,
		Method:     domain.MethodBrandCeiling,
	}
	e.record(res, req)
	return res
}

// samples loads, narrows and year-backfills the comparables for req.
func (e *Estimator) samples(ctx context.Context, req Request) ([]sample, error) {
	if strings.TrimSpace(req.Brand) == "" {
		return nil, fmt.Errorf("%w: no brand", ErrInsufficientData)
	}

	var rows []domain.MarketComparable
	if patterns := ModelPatterns(req.Model); len(patterns) > 0 {
		var err error
		rows, err = e.find(ctx, req.Brand, patterns)
		if err != nil {
			return nil, err
		}
	}
	if len(rows) < e.cfg.MinSamples {
		var err error
		rows, err = e.find(ctx, req.Brand, nil)
		if err != nil {
			return nil, err
		}
	}
	if len(rows) < e.cfg.MinSamples {
		return nil, fmt.Errorf("%w: %d comparables for %s", ErrInsufficientData, len(rows), req.Brand)
	}

	rows = e.narrow(rows, req)

	out := make([]sample, 0, len(rows))
	for i := range rows {
		s := sample{price: float64(rows[i].PriceEUR)}
		switch {
		case rows[i].Year != nil:
			s.year = *rows[i].Year
		default:
			if y := YearFromTitle(rows[i].Title, e.nowFunc()); y != nil {
				s.year = *y
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (e *Estimator) find(ctx context.Context, brand string, patterns []string) ([]domain.MarketComparable, error) {
	rows, err := e.src.FindComparables(ctx, &domain.ComparableQuery{
		Brand:      brand,
		Patterns:   patterns,
		RecentDays: e.cfg.RecentDays,
		Limit:      e.cfg.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("finding comparables for %s: %w", brand, err)
	}
	return rows, nil
}

// narrow keeps rows of the requested size and material, but only when each
// narrowing leaves enough rows.
func (e *Estimator) narrow(rows []domain.MarketComparable, req Request) []domain.MarketComparable {
	if req.FrameSize != "" {
		bySize := filterRows(rows, func(c *domain.MarketComparable) bool {
			return c.FrameSize != "" && strings.EqualFold(c.FrameSize, req.FrameSize)
		})
		if len(bySize) >= e.cfg.MinNarrowed {
			rows = bySize
		}
	}
	if req.FrameMaterial != "" {
		want := strings.ToLower(req.FrameMaterial)
		byMaterial := filterRows(rows, func(c *domain.MarketComparable) bool {
			return strings.Contains(strings.ToLower(c.FrameMaterial), want)
		})
		if len(byMaterial) >= e.cfg.MinNarrowed {
			rows = byMaterial
		}
	}
	return rows
}

func filterRows(rows []domain.MarketComparable, keep func(*domain.MarketComparable) bool) []domain.MarketComparable {
	var out []domain.MarketComparable
	for i := range rows {
		if keep(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

// yearWindow picks the first satisfied tier: exact year (3+ rows), within
// one year (5+), within two years (5+), else everything.
func (e *Estimator) yearWindow(samples []sample, target *int) []sample {
	if target == nil {
		return samples
	}
	tiers := []struct {
		distance int
		min      int
	}{
		{0, e.cfg.MinNarrowed},
		{1, e.cfg.MinSamples},
		{2, e.cfg.MinSamples},
	}
	for _, tier := range tiers {
		var subset []sample
		for _, s := range samples {
			if s.year != 0 && absInt(s.year-*target) <= tier.distance {
				subset = append(subset, s)
			}
		}
		if len(subset) >= tier.min {
			return subset
		}
	}
	return samples
}

func (e *Estimator) adjust(s sample, target *int) float64 {
	if target == nil || s.year == 0 {
		return s.price
	}
	return AdjustForYear(s.price, s.year, *target, e.cfg.AnnualDepreciation, e.cfg.MaxAdjustYears)
}

// floor raises the estimate to FloorRatio of the asking price.
func (e *Estimator) floor(res *domain.FMVResult, asking int) {
	if asking <= 0 {
		return
	}
	if f := int(math.Round(e.cfg.FloorRatio * float64(asking))); res.FMV < f {
		res.FMV = f
		res.Floored = true
	}
}

func (e *Estimator) record(res *domain.FMVResult, req Request) {
	metrics.ValuationsTotal.WithLabelValues(string(res.Method), string(res.Confidence)).Inc()
	e.log.Debug("fmv estimated",
		"brand", req.Brand,
		"model", req.Model,
		"fmv", res.FMV,
		"confidence", res.Confidence,
		"samples", res.SampleSize,
		"method", res.Method,
		"floored", res.Floored,
	)
}

// ConfidenceFor maps a sample size to a confidence level.
func ConfidenceFor(samples int) domain.Confidence {
	switch {
	case samples >= 20:
		return domain.ConfidenceHigh
	case samples >= 10:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

var (
	nonModelChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	yearToken     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	trimTokens    = regexp.MustCompile(`(?:^|\s)(?:cf|al|sl|slx|s-works|expert|comp|pro|race|rc|factory|team|ultimate|select|r|rs|gx|sx|nx)(?:\s|$)`)
)

// SanitizeModel lowercases model and strips years and trim-level tokens.
func SanitizeModel(model string) string {
	s := lexicon.Fold(model)
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	s = nonModelChars.ReplaceAllString(s, " ")
	s = yearToken.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	// Adjacent trim tokens share a separator, so repeat until stable.
	for {
		next := trimTokens.ReplaceAllString(" "+s+" ", " ")
		next = strings.Join(strings.Fields(next), " ")
		if next == s {
			return s
		}
		s = next
	}
}

// ModelPatterns returns the substrings used to match a model against the
// corpus: the first two tokens, the first token and the whole sanitized
// model.
func ModelPatterns(model string) []string {
	cleaned := SanitizeModel(model)
	if cleaned == "" {
		return nil
	}
	tokens := strings.Fields(cleaned)

	var candidates []string
	if len(tokens) >= 2 {
		candidates = append(candidates, tokens[0]+" "+tokens[1])
	}
	candidates = append(candidates, tokens[0], cleaned)

	seen := make(map[string]bool, len(candidates))
	var patterns []string
	for _, c := range candidates {
		if len(c) < 2 || seen[c] {
			continue
		}
		seen[c] = true
		patterns = append(patterns, c)
	}
	return patterns
}

// YearFromTitle returns the first four-digit year in title within
// [1990, now+1].
func YearFromTitle(title string, now time.Time) *int {
	for _, m := range yearToken.FindAllString(title, -1) {
		y, err := strconv.Atoi(m)
		if err == nil && y >= 1990 && y <= now.Year()+1 {
			return &y
		}
	}
	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
