// Package decision turns a valued listing into a publish, hold or discard
// verdict with its supporting scores.
package decision

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// PriceRange is an exclusive price interval.
type PriceRange struct {
	Min int
	Max int
}

// Contains reports whether min < price < max.
func (r PriceRange) Contains(price int) bool {
	return price > r.Min && price < r.Max
}

// Config holds the decision thresholds.
type Config struct {
	PublishDiscount  float64
	HotnessThreshold float64
	HotnessMargin    float64
	SalvageRatio     float64
	MinHours         float64

	JackpotPremium    PriceRange
	JackpotComponents PriceRange
	JackpotCarbon     PriceRange
	MinComponentHits  int
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		PublishDiscount:   25,
		HotnessThreshold:  1000,
		HotnessMargin:     0.30,
		SalvageRatio:      0.65,
		MinHours:          0.5,
		JackpotPremium:    PriceRange{Min: 300, Max: 1500},
		JackpotComponents: PriceRange{Min: 300, Max: 1200},
		JackpotCarbon:     PriceRange{Min: 200, Max: 800},
		MinComponentHits:  2,
	}
}

// Engine makes decisions. It is stateless apart from its configuration.
type Engine struct {
	cfg        Config
	lex        *lexicon.Lexicon
	jackpot    *lexicon.Matcher
	components *lexicon.Matcher
	damage     *lexicon.Matcher
	kids       *lexicon.Matcher
	stolen     *lexicon.Matcher
	log        *slog.Logger
	nowFunc    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides the thresholds.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithNowFunc overrides the clock used for listing age.
func WithNowFunc(fn func() time.Time) Option {
	return func(e *Engine) {
		e.nowFunc = fn
	}
}

// New creates an Engine over the keyword tables in lex.
func New(lex *lexicon.Lexicon, opts ...Option) *Engine {
	e := &Engine{
		cfg:        DefaultConfig(),
		lex:        lex,
		jackpot:    lexicon.NewMatcher(lex.JackpotBrands),
		components: lexicon.NewMatcher(lex.HighValueComponents),
		damage:     lexicon.NewMatcher(lex.DamageWords),
		kids:       lexicon.NewMatcher(lex.KidsWords),
		stolen:     lexicon.NewMatcher(lex.StolenWords),
		log:        slog.Default(),
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide returns the decision for a merged record. A nil fmv routes the
// item through the jackpot heuristic and never publishes it.
func (e *Engine) Decide(
	merged *domain.MergedRecord,
	fmv *domain.FMVResult,
	cond domain.ConditionReport,
	l *domain.RawListing,
) domain.Decision {
	if fmv == nil || fmv.FMV <= 0 {
		return e.jackpotDecision(merged, l)
	}

	price := float64(merged.Price)
	value := float64(fmv.FMV)
	profit := value - price

	d := domain.Decision{
		Verdict:     domain.VerdictHold,
		Priority:    domain.PriorityNormal,
		DiscountPct: profit / value * 100,
	}
	if price > 0 {
		d.Margin = profit / price
	}
	metrics.DiscountDistribution.Observe(d.DiscountPct)

	switch {
	case d.DiscountPct >= e.cfg.PublishDiscount && fmv.Confidence != domain.ConfidenceLow:
		d.Verdict = domain.VerdictPublish
		d.IsActive = true
		d.Priority = domain.PriorityHigh
		d.Reasons = append(d.Reasons, fmt.Sprintf("%.1f%% below fmv %d", d.DiscountPct, fmv.FMV))
	case fmv.Confidence == domain.ConfidenceLow:
		d.Reasons = append(d.Reasons, fmt.Sprintf("low confidence fmv (%d samples)", fmv.SampleSize))
	default:
		d.Reasons = append(d.Reasons, fmt.Sprintf("discount %.1f%% below %.0f%%", d.DiscountPct, e.cfg.PublishDiscount))
	}

	if d.Margin > 0 {
		d.HotnessScore = e.Hotness(profit, l)
		if d.HotnessScore > e.cfg.HotnessThreshold && d.Margin >= e.cfg.HotnessMargin {
			d.Priority = d.Priority.AtLeast(domain.PriorityUltraHigh)
			d.HotnessAlert = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("hotness %.0f", d.HotnessScore))
		}
	}

	if cond.Grade == domain.GradeC || cond.Grade == domain.GradeD {
		d.SalvageValue = e.Salvage(l.Description)
		if d.SalvageValue > price {
			d.SalvageGem = true
			d.Priority = d.Priority.AtLeast(domain.PriorityHigh)
			d.Reasons = append(d.Reasons, fmt.Sprintf("salvage value %.0f above price", d.SalvageValue))
		}
	}

	e.log.Debug("decision made",
		"url", l.Link,
		"verdict", d.Verdict,
		"priority", d.Priority,
		"discount_pct", d.DiscountPct,
		"hotness", d.HotnessScore,
		"salvage", d.SalvageValue,
	)
	return d
}

// Hold turns a publish verdict into a hold. Priority and scores are kept.
func Hold(d *domain.Decision, reason string) {
	if d.Verdict == domain.VerdictPublish {
		d.Verdict = domain.VerdictHold
	}
	d.IsActive = false
	d.Reasons = append(d.Reasons, reason)
}

// Hotness rates how urgently a profitable listing should be acted on:
// profit * (views + 1) / (hours since publish + 0.5), with the age floored
// at MinHours.
func (e *Engine) Hotness(profit float64, l *domain.RawListing) float64 {
	hours := e.cfg.MinHours
	if l.PublishDate != nil {
		hours = math.Max(e.cfg.MinHours, e.nowFunc().Sub(*l.PublishDate).Hours())
	}
	return profit * float64(l.Views+1) / (hours + 0.5)
}

// Salvage sums the anchored component prices mentioned in description at
// SalvageRatio of their list value.
func (e *Engine) Salvage(description string) float64 {
	folded := lexicon.Fold(description)
	var total float64
	for _, component := range lexicon.SortedKeys(e.lex.ComponentAnchors) {
		if lexicon.ContainsTerm(folded, lexicon.Fold(component)) {
			total += e.lex.ComponentAnchors[component] * e.cfg.SalvageRatio
		}
	}
	return total
}

// Jackpot reports whether an item without an FMV deserves manual review,
// with the reason for either answer.
func (e *Engine) Jackpot(merged *domain.MergedRecord, l *domain.RawListing) (bool, string) {
	title := lexicon.Fold(l.Title)
	desc := lexicon.Fold(l.Description)
	text := title + "\n" + desc
	price := merged.Price

	if w, ok := e.damage.MatchFolded(desc); ok {
		return false, "damage mentioned: " + w
	}
	if w, ok := e.kids.MatchFolded(text); ok {
		return false, "kids bike: " + w
	}
	if w, ok := e.stolen.MatchFolded(desc); ok {
		return false, "stolen signal: " + w
	}

	if w, ok := e.jackpot.MatchFolded(title + "\n" + lexicon.Fold(merged.Brand)); ok && e.cfg.JackpotPremium.Contains(price) {
		return true, fmt.Sprintf("premium brand %s under %d", w, e.cfg.JackpotPremium.Max)
	}
	if hits := e.components.Count(text); hits >= e.cfg.MinComponentHits && e.cfg.JackpotComponents.Contains(price) {
		return true, fmt.Sprintf("%d high-value components under %d", hits, e.cfg.JackpotComponents.Max)
	}
	if lexicon.ContainsTerm(text, "carbon") && e.cfg.JackpotCarbon.Contains(price) {
		return true, fmt.Sprintf("carbon under %d", e.cfg.JackpotCarbon.Max)
	}
	return false, "no fmv and no jackpot signal"
}

func (e *Engine) jackpotDecision(merged *domain.MergedRecord, l *domain.RawListing) domain.Decision {
	hit, reason := e.Jackpot(merged, l)
	d := domain.Decision{
		Verdict:  domain.VerdictDiscard,
		Priority: domain.PriorityNormal,
		Reasons:  []string{reason},
	}
	if hit {
		d.Verdict = domain.VerdictHold
		d.Jackpot = true
	}
	e.log.Debug("no fmv, jackpot check",
		"url", l.Link,
		"hit", hit,
		"reason", reason,
		"title", strings.TrimSpace(l.Title),
	)
	return d
}
