// Package engine is the ingestion orchestrator: it turns hunt targets into
// persisted catalog records, comparables and alerts.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/bike-hunter/internal/fetch"
	"github.com/donaldgifford/bike-hunter/internal/imagestore"
	"github.com/donaldgifford/bike-hunter/internal/notify"
	"github.com/donaldgifford/bike-hunter/internal/store"
	"github.com/donaldgifford/bike-hunter/pkg/arbiter"
	"github.com/donaldgifford/bike-hunter/pkg/decision"
	"github.com/donaldgifford/bike-hunter/pkg/extract"
	"github.com/donaldgifford/bike-hunter/pkg/filter"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
	"github.com/donaldgifford/bike-hunter/pkg/valuation"
)

// ErrHuntInProgress is returned by RunHunt while another run is executing.
var ErrHuntInProgress = errors.New("hunt already in progress")

// Marketplace is the source website: search pages and detail pages.
type Marketplace interface {
	Search(ctx context.Context, t *domain.Target, page int) ([]domain.SearchItem, error)
	Detail(ctx context.Context, link string) (*domain.RawListing, error)
}

// Extractor produces the parsed and enriched records of a listing.
type Extractor interface {
	Extract(ctx context.Context, l *domain.RawListing, images []extract.Image) (domain.ParsedRecord, domain.EnrichedRecord, error)
}

// ConditionScorer grades a bike's visual condition.
type ConditionScorer interface {
	Score(ctx context.Context, images []extract.Image, description string, techSpecs map[string]string) (domain.ConditionReport, error)
}

// Valuator estimates fair market value.
type Valuator interface {
	Estimate(ctx context.Context, req valuation.Request) (*domain.FMVResult, error)
}

// ImageFetcher downloads listing images.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// SeenCache remembers processed listing URLs across runs.
type SeenCache interface {
	Seen(url string) (bool, error)
	Mark(url string) error
}

// Config holds the run-level knobs.
type Config struct {
	TargetsPerRun  int
	PagesPerTarget int
	Workers        int
	MaxRuntime     time.Duration
	ItemDelay      time.Duration
	TargetDelay    time.Duration
	// DelayJitter is added on top of each delay, uniformly in [0, DelayJitter).
	DelayJitter time.Duration
	MaxImages   int
	// ItemTimeout bounds a single listing once it has started.
	ItemTimeout time.Duration
}

// DefaultConfig returns the production run settings.
func DefaultConfig() Config {
	return Config{
		TargetsPerRun:  20,
		PagesPerTarget: 1,
		Workers:        1,
		MaxRuntime:     45 * time.Minute,
		ItemDelay:      4 * time.Second,
		TargetDelay:    20 * time.Second,
		DelayJitter:    3 * time.Second,
		MaxImages:      6,
		ItemTimeout:    3 * time.Minute,
	}
}

// Deps are the collaborators of the Engine. Condition, Renderer, Images,
// Seen and Notifier are optional.
type Deps struct {
	Store       store.Store
	Marketplace Marketplace
	Extractor   Extractor
	Valuator    Valuator
	KillSwitch  *filter.KillSwitch
	Funnel      *filter.Funnel
	Arbiter     *arbiter.Arbiter
	Decider     *decision.Engine
	Strategy    *Strategy

	Condition    ConditionScorer
	Renderer     fetch.Renderer
	ImageFetcher ImageFetcher
	Images       imagestore.Store
	Seen         SeenCache
	Notifier     notify.Notifier
}

// Engine orchestrates hunt runs.
type Engine struct {
	Deps
	cfg     Config
	log     *slog.Logger
	running atomic.Bool

	nowFunc    func() time.Time
	sleepFunc  func(ctx context.Context, d time.Duration) error
	jitterFunc func(max time.Duration) time.Duration
	newRunID   func() string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithConfig overrides the run settings.
func WithConfig(cfg Config) EngineOption {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithNowFunc overrides the clock.
func WithNowFunc(fn func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = fn
	}
}

// WithSleepFunc overrides how politeness delays are waited out.
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) EngineOption {
	return func(e *Engine) {
		e.sleepFunc = fn
	}
}

// WithJitterFunc overrides the random delay jitter.
func WithJitterFunc(fn func(max time.Duration) time.Duration) EngineOption {
	return func(e *Engine) {
		e.jitterFunc = fn
	}
}

// WithRunIDFunc overrides run ID generation.
func WithRunIDFunc(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newRunID = fn
	}
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(deps Deps, opts ...EngineOption) *Engine {
	eng := &Engine{
		Deps:       deps,
		cfg:        DefaultConfig(),
		log:        slog.Default(),
		nowFunc:    time.Now,
		sleepFunc:  sleepContext,
		jitterFunc: randomJitter,
		newRunID:   newRunID,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.cfg.Workers <= 0 {
		eng.cfg.Workers = 1
	}
	if eng.cfg.PagesPerTarget <= 0 {
		eng.cfg.PagesPerTarget = 1
	}
	return eng
}

// Config returns the active run settings.
func (eng *Engine) Config() Config {
	return eng.cfg
}

// Running reports whether a hunt run is executing.
func (eng *Engine) Running() bool {
	return eng.running.Load()
}
