package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/donaldgifford/bike-hunter/internal/config"
	"github.com/donaldgifford/bike-hunter/internal/engine"
	"github.com/donaldgifford/bike-hunter/internal/fetch"
	"github.com/donaldgifford/bike-hunter/internal/imagestore"
	"github.com/donaldgifford/bike-hunter/internal/marketplace"
	"github.com/donaldgifford/bike-hunter/internal/notify"
	"github.com/donaldgifford/bike-hunter/internal/seen"
	"github.com/donaldgifford/bike-hunter/internal/store"
	"github.com/donaldgifford/bike-hunter/pkg/arbiter"
	"github.com/donaldgifford/bike-hunter/pkg/decision"
	"github.com/donaldgifford/bike-hunter/pkg/extract"
	"github.com/donaldgifford/bike-hunter/pkg/filter"
	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
	"github.com/donaldgifford/bike-hunter/pkg/valuation"
)

// app holds the long-lived collaborators built from the config.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	lex       *lexicon.Lexicon
	store     *store.PostgresStore
	seen      *seen.Cache
	registry  *fetch.Registry
	renderer  *fetch.ChromeRenderer
	estimator *valuation.Estimator
	engine    *engine.Engine
}

// newStoreApp opens only the database and the estimator.
func newStoreApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	lex := lexicon.Default()
	return &app{
		cfg:       cfg,
		log:       log,
		lex:       lex,
		store:     st,
		estimator: newEstimator(st, lex, cfg, log),
	}, nil
}

// newApp builds the full hunting pipeline.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	a, err := newStoreApp(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a.seen, err = seen.Open(cfg.Seen.Path, seen.WithTTL(cfg.Seen.TTL), seen.WithLogger(log))
	if err != nil {
		a.close()
		return nil, err
	}

	a.registry = fetch.NewRegistry(fetch.Config{
		BaseDelay:    cfg.Fetcher.BaseDelay,
		MaxAttempts:  cfg.Fetcher.MaxAttempts,
		FreezeWindow: cfg.Fetcher.FreezeWindow,
		MaxJitter:    cfg.Fetcher.Jitter,
		MinInterval:  cfg.Fetcher.MinInterval,
		UserAgent:    cfg.Fetcher.UserAgent,
	},
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Fetcher.Timeout}),
		fetch.WithLogger(log),
	)

	deps := engine.Deps{
		Store:        a.store,
		Marketplace:  marketplace.NewSource(a.registry, marketplace.WithBaseURL(cfg.Marketplace.BaseURL), marketplace.WithLogger(log)),
		Valuator:     methodValuator(a.estimator, cfg.Valuation.Method),
		KillSwitch:   newKillSwitch(a.lex, cfg, log),
		Funnel:       newFunnel(a.lex, cfg, log),
		Arbiter:      arbiter.New(a.lex, arbiter.WithLogger(log)),
		Decider:      newDecider(a.lex, cfg, log),
		Strategy:     engine.NewStrategy(a.lex, cfg.Hunt.QuotaPerTarget),
		ImageFetcher: a.registry,
		Seen:         a.seen,
		Notifier:     newNotifier(cfg, log),
	}

	backend := newBackend(&cfg.LLM)
	vision := extract.NewVisionExtractor(backend,
		extract.WithTemperature(cfg.LLM.Temperature),
		extract.WithMaxTokens(cfg.LLM.MaxTokens),
	)
	deps.Extractor = extract.NewDualSource(extract.NewParser(a.lex), vision, extract.WithDualSourceLogger(log))
	if cfg.LLM.ConditionScoring {
		deps.Condition = extract.NewConditionScorer(backend)
	}

	if cfg.Fetcher.Renderer.Enabled {
		a.renderer = fetch.NewChromeRenderer(fetch.RenderConfig{
			ExecPath:  cfg.Fetcher.Renderer.ExecPath,
			UserAgent: cfg.Fetcher.UserAgent,
			Timeout:   cfg.Fetcher.Renderer.Timeout,
			Shots:     cfg.Fetcher.Renderer.Shots,
		}, a.registry, log)
		deps.Renderer = a.renderer
	}

	if cfg.Images.Dir != "" {
		images, err := imagestore.NewLocalStore(cfg.Images.Dir, cfg.Images.BaseURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("opening image store: %w", err)
		}
		deps.Images = images
	}

	a.engine = engine.NewEngine(deps,
		engine.WithLogger(log),
		engine.WithConfig(engine.Config{
			TargetsPerRun:  cfg.Hunt.TargetsPerRun,
			PagesPerTarget: cfg.Hunt.PagesPerTarget,
			Workers:        cfg.Hunt.Workers,
			MaxRuntime:     cfg.Hunt.MaxRuntime,
			ItemDelay:      cfg.Hunt.ItemDelay,
			TargetDelay:    cfg.Hunt.TargetDelay,
			DelayJitter:    cfg.Hunt.Jitter,
			MaxImages:      cfg.Hunt.MaxImages,
			ItemTimeout:    cfg.Hunt.ItemTimeout,
		}),
	)
	return a, nil
}

func (a *app) close() {
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.seen != nil {
		if err := a.seen.Close(); err != nil {
			a.log.Warn("closing seen cache", "error", err)
		}
	}
	if a.store != nil {
		a.store.Close()
	}
}

func newEstimator(st *store.PostgresStore, lex *lexicon.Lexicon, cfg *config.Config, log *slog.Logger) *valuation.Estimator {
	vc := valuation.DefaultConfig()
	vc.MinSamples = cfg.Valuation.MinSamples
	vc.RecentDays = cfg.Valuation.RecentDays
	vc.AnnualDepreciation = cfg.Valuation.AnnualDepreciation
	vc.FloorRatio = cfg.Valuation.FloorRatio
	return valuation.NewEstimator(st, lex, valuation.WithConfig(vc), valuation.WithLogger(log))
}

func newKillSwitch(lex *lexicon.Lexicon, cfg *config.Config, log *slog.Logger) *filter.KillSwitch {
	return filter.NewKillSwitch(lex,
		filter.WithKillSwitchConfig(filter.KillSwitchConfig{
			MinPrice:         cfg.Filters.MinPrice,
			MinDescription:   cfg.Filters.MinDescription,
			ScamPriceCeiling: cfg.Filters.ScamPriceCeiling,
		}),
		filter.WithKillSwitchLogger(log),
	)
}

func newFunnel(lex *lexicon.Lexicon, cfg *config.Config, log *slog.Logger) *filter.Funnel {
	return filter.NewFunnel(lex,
		filter.WithFunnelConfig(filter.FunnelConfig{
			MinPrice:       cfg.Filters.FunnelMinPrice,
			MaxPrice:       cfg.Filters.FunnelMaxPrice,
			MinTitleLength: cfg.Filters.MinTitleLength,
		}),
		filter.WithFunnelLogger(log),
	)
}

func newDecider(lex *lexicon.Lexicon, cfg *config.Config, log *slog.Logger) *decision.Engine {
	dc := decision.DefaultConfig()
	dc.PublishDiscount = cfg.Decision.PublishDiscount
	dc.HotnessThreshold = cfg.Decision.HotnessThreshold
	dc.HotnessMargin = cfg.Decision.HotnessMargin
	dc.SalvageRatio = cfg.Decision.SalvageRatio
	return decision.New(lex, decision.WithConfig(dc), decision.WithLogger(log))
}

func newNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Notifications.Discord.Enabled {
		return notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}

// newBackend selects the vision model backend named in the config.
func newBackend(cfg *config.LLMConfig) extract.LLMBackend {
	client := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Backend {
	case "anthropic":
		opts := []extract.AnthropicOption{extract.WithAnthropicHTTPClient(client)}
		if cfg.Anthropic.Model != "" {
			opts = append(opts, extract.WithAnthropicModel(cfg.Anthropic.Model))
		}
		return extract.NewAnthropicBackend(opts...)
	case "ollama":
		return extract.NewOllamaBackend(cfg.Ollama.Endpoint, cfg.Ollama.Model,
			extract.WithOllamaHTTPClient(client),
			extract.WithOllamaKeepAlive(cfg.Ollama.KeepAlive),
		)
	case "openai_compat":
		return extract.NewOpenAICompatBackend(cfg.OpenAICompat.Endpoint, cfg.OpenAICompat.Model,
			extract.WithOpenAICompatHTTPClient(client))
	default:
		opts := []extract.GeminiOption{extract.WithGeminiHTTPClient(client)}
		if cfg.Gemini.Model != "" {
			opts = append(opts, extract.WithGeminiModel(cfg.Gemini.Model))
		}
		if cfg.Gemini.Endpoint != "" {
			opts = append(opts, extract.WithGeminiEndpoint(cfg.Gemini.Endpoint))
		}
		return extract.NewGeminiBackend(opts...)
	}
}

// depreciationValuator routes the pipeline's estimates to the
// depreciation-weighted method.
type depreciationValuator struct {
	*valuation.Estimator
}

func (d depreciationValuator) Estimate(ctx context.Context, req valuation.Request) (*domain.FMVResult, error) {
	return d.EstimateWithDepreciation(ctx, req)
}

func methodValuator(e *valuation.Estimator, method string) engine.Valuator {
	if method == "depreciation" {
		return depreciationValuator{e}
	}
	return e
}
