package filter

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Funnel rule names.
const (
	RuleStopWord    = "component_stop_word"
	RulePriceRange  = "price_out_of_range"
	RuleShortTitle  = "title_too_short"
	RulePartsListed = "parts_listing"
)

// FunnelConfig holds the funnel thresholds.
type FunnelConfig struct {
	MinPrice       int
	MaxPrice       int
	MinTitleLength int
}

// DefaultFunnelConfig returns the production thresholds.
func DefaultFunnelConfig() FunnelConfig {
	return FunnelConfig{
		MinPrice:       500,
		MaxPrice:       8000,
		MinTitleLength: 20,
	}
}

// Funnel drops search result cards that are obviously not complete bikes
// in the hunted price range, before any detail page is fetched.
type Funnel struct {
	cfg       FunnelConfig
	stopWords *lexicon.Matcher
	parts     *lexicon.Matcher
	bike      *lexicon.Matcher
	sizeWords []string
	log       *slog.Logger
}

// FunnelOption configures a Funnel.
type FunnelOption func(*Funnel)

// WithFunnelConfig overrides the default thresholds.
func WithFunnelConfig(cfg FunnelConfig) FunnelOption {
	return func(f *Funnel) {
		f.cfg = cfg
	}
}

// WithFunnelLogger sets a custom logger.
func WithFunnelLogger(l *slog.Logger) FunnelOption {
	return func(f *Funnel) {
		f.log = l
	}
}

// NewFunnel builds a funnel from the lexicon tables.
func NewFunnel(lex *lexicon.Lexicon, opts ...FunnelOption) *Funnel {
	f := &Funnel{
		cfg:       DefaultFunnelConfig(),
		stopWords: lexicon.NewCompoundMatcher(lex.StopWords, lex.WholeStopWords),
		parts:     lexicon.NewMatcher(lex.PartsWords),
		bike:      lexicon.NewCompoundMatcher(lex.BikeWords, nil),
		sizeWords: foldAll(lex.FrameSizeWords),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Check evaluates one search result card. Stop words and the bike
// exemption match inside German compounds ("Carbonrahmen", "Mountainbike");
// the parts patterns need whole words.
func (f *Funnel) Check(item *domain.SearchItem) Verdict {
	title := lexicon.Fold(item.Title)

	if term, ok := f.stopWords.MatchFolded(f.stripSizeWords(title)); ok {
		return kill(RuleStopWord, "title contains component stop word %q", term)
	}

	if item.Price < f.cfg.MinPrice || item.Price > f.cfg.MaxPrice {
		return kill(RulePriceRange, "price %d outside [%d, %d]",
			item.Price, f.cfg.MinPrice, f.cfg.MaxPrice)
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(item.Title)); n < f.cfg.MinTitleLength {
		return kill(RuleShortTitle, "title has %d chars, need %d", n, f.cfg.MinTitleLength)
	}

	if term, ok := f.parts.MatchFolded(title); ok {
		if _, isBike := f.bike.MatchFolded(title); !isBike {
			return kill(RulePartsListed, "generic parts pattern %q", term)
		}
	}

	return pass()
}

// stripSizeWords blanks out "Rahmengröße L" style size labels, which
// would otherwise hit the "rahmen" stop word.
func (f *Funnel) stripSizeWords(folded string) string {
	for _, w := range f.sizeWords {
		folded = strings.ReplaceAll(folded, w, " ")
	}
	return folded
}

func foldAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = lexicon.Fold(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Apply returns the items that pass the funnel, preserving order.
func (f *Funnel) Apply(items []domain.SearchItem) []domain.SearchItem {
	out := make([]domain.SearchItem, 0, len(items))
	for i := range items {
		v := f.Check(&items[i])
		if v.Kill {
			f.log.Debug("funnel dropped item",
				"title", items[i].Title,
				"rule", v.Rule,
				"reason", v.Reason,
			)
			continue
		}
		out = append(out, items[i])
	}
	f.log.Info("funnel applied", "in", len(items), "out", len(out))
	return out
}
