// Package filter implements the cheap, local pre-filters that run before any
// detail page parsing or AI call: the single-item kill switch and the batch
// funnel applied to search results.
package filter

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Kill switch rule names, reported in verdicts.
const (
	RuleWanted      = "wanted_post"
	RulePriceFloor  = "price_floor"
	RuleBlocklist   = "not_target_category"
	RuleNoImages    = "no_images"
	RuleDescription = "description_too_short"
	RuleScam        = "scam_new_account"
)

// Verdict is the outcome of a filter check. A killed item is not an error,
// it simply produces nothing downstream.
type Verdict struct {
	Kill   bool
	Rule   string
	Reason string
}

func pass() Verdict { return Verdict{} }

func kill(rule, format string, args ...any) Verdict {
	return Verdict{Kill: true, Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// KillSwitchConfig holds the kill switch thresholds.
type KillSwitchConfig struct {
	MinPrice         int
	MinDescription   int
	ScamPriceCeiling int
}

// DefaultKillSwitchConfig returns the production thresholds.
func DefaultKillSwitchConfig() KillSwitchConfig {
	return KillSwitchConfig{
		MinPrice:         50,
		MinDescription:   30,
		ScamPriceCeiling: 800,
	}
}

// KillSwitch rejects single listings before they are parsed.
type KillSwitch struct {
	cfg       KillSwitchConfig
	wanted    *lexicon.Matcher
	blocklist *lexicon.Matcher
	premium   *lexicon.Matcher
	nowFunc   func() time.Time
	log       *slog.Logger
}

// KillSwitchOption configures a KillSwitch.
type KillSwitchOption func(*KillSwitch)

// WithKillSwitchConfig overrides the default thresholds.
func WithKillSwitchConfig(cfg KillSwitchConfig) KillSwitchOption {
	return func(k *KillSwitch) {
		k.cfg = cfg
	}
}

// WithKillSwitchNowFunc overrides the clock for testing.
func WithKillSwitchNowFunc(f func() time.Time) KillSwitchOption {
	return func(k *KillSwitch) {
		k.nowFunc = f
	}
}

// WithKillSwitchLogger sets a custom logger.
func WithKillSwitchLogger(l *slog.Logger) KillSwitchOption {
	return func(k *KillSwitch) {
		k.log = l
	}
}

// NewKillSwitch builds a kill switch from the lexicon tables.
func NewKillSwitch(lex *lexicon.Lexicon, opts ...KillSwitchOption) *KillSwitch {
	k := &KillSwitch{
		cfg:       DefaultKillSwitchConfig(),
		wanted:    lexicon.NewMatcher(lex.Wanted),
		blocklist: lexicon.NewMatcher(lex.Blocklist),
		premium:   lexicon.NewMatcher(lex.PremiumBrands),
		nowFunc:   time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Evaluate checks a listing against every kill rule in order and returns the
// first one that fires.
func (k *KillSwitch) Evaluate(l *domain.RawListing) Verdict {
	title := lexicon.Fold(l.Title)

	if term, ok := k.wanted.MatchFolded(title); ok {
		return kill(RuleWanted, "title signals a wanted post (%q)", term)
	}

	if l.Price < k.cfg.MinPrice {
		return kill(RulePriceFloor, "price %d below floor %d", l.Price, k.cfg.MinPrice)
	}

	if term, ok := k.blocklist.MatchFolded(title); ok {
		return kill(RuleBlocklist, "blocklisted term %q", term)
	}

	if len(l.Images) == 0 {
		return kill(RuleNoImages, "listing has no images")
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(l.Description)); n < k.cfg.MinDescription {
		return kill(RuleDescription, "description has %d chars, need %d", n, k.cfg.MinDescription)
	}

	if k.looksLikeScam(l, title) {
		return kill(RuleScam, "account created today selling premium brand for %d", l.Price)
	}

	return pass()
}

func (k *KillSwitch) looksLikeScam(l *domain.RawListing, foldedTitle string) bool {
	if l.SellerMemberSince == nil || l.Price >= k.cfg.ScamPriceCeiling {
		return false
	}
	if !sameDay(*l.SellerMemberSince, k.nowFunc()) {
		return false
	}
	_, premium := k.premium.MatchFolded(foldedTitle)
	return premium
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
