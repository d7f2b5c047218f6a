// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Fetcher       FetcherConfig       `yaml:"fetcher"`
	Marketplace   MarketplaceConfig   `yaml:"marketplace"`
	Filters       FiltersConfig       `yaml:"filters"`
	LLM           LLMConfig           `yaml:"llm"`
	Valuation     ValuationConfig     `yaml:"valuation"`
	Decision      DecisionConfig      `yaml:"decision"`
	Hunt          HuntConfig          `yaml:"hunt"`
	Seen          SeenConfig          `yaml:"seen"`
	Images        ImagesConfig        `yaml:"images"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"          validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"      validate:"required"`
	Port     int    `yaml:"port"      validate:"min=1,max=65535"`
	Name     string `yaml:"name"      validate:"required"`
	User     string `yaml:"user"      validate:"required"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"   validate:"oneof=disable allow prefer require verify-ca verify-full"`
	PoolSize int    `yaml:"pool_size" validate:"min=1"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// FetcherConfig defines the polite fetcher and its circuit breaker.
type FetcherConfig struct {
	BaseDelay    time.Duration  `yaml:"base_delay"`
	MaxAttempts  int            `yaml:"max_attempts"  validate:"min=1"`
	FreezeWindow time.Duration  `yaml:"freeze_window"`
	MinInterval  time.Duration  `yaml:"min_interval"`
	Jitter       time.Duration  `yaml:"jitter"`
	Timeout      time.Duration  `yaml:"timeout"`
	UserAgent    string         `yaml:"user_agent"`
	Renderer     RendererConfig `yaml:"renderer"`
}

// RendererConfig defines the headless browser used for screenshots.
type RendererConfig struct {
	Enabled  bool          `yaml:"enabled"`
	ExecPath string        `yaml:"exec_path"`
	Shots    int           `yaml:"shots"     validate:"min=0,max=10"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MarketplaceConfig defines the source website.
type MarketplaceConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

// FiltersConfig defines the pre-filter thresholds.
type FiltersConfig struct {
	MinPrice         int `yaml:"min_price"          validate:"min=0"`
	MinDescription   int `yaml:"min_description"    validate:"min=0"`
	ScamPriceCeiling int `yaml:"scam_price_ceiling" validate:"min=0"`
	FunnelMinPrice   int `yaml:"funnel_min_price"   validate:"min=0"`
	FunnelMaxPrice   int `yaml:"funnel_max_price"   validate:"min=1"`
	MinTitleLength   int `yaml:"min_title_length"   validate:"min=0"`
}

// LLMConfig defines the vision model backend.
type LLMConfig struct {
	Backend string `yaml:"backend" validate:"oneof=gemini anthropic ollama openai_compat"`
	// ConditionScoring enables the visual condition grade.
	ConditionScoring bool               `yaml:"condition_scoring"`
	Gemini           GeminiConfig       `yaml:"gemini"`
	Anthropic        AnthropicConfig    `yaml:"anthropic"`
	Ollama           OllamaConfig       `yaml:"ollama"`
	OpenAICompat     OpenAICompatConfig `yaml:"openai_compat"`
	Temperature      float64            `yaml:"temperature"       validate:"min=0,max=2"`
	MaxTokens        int                `yaml:"max_tokens"        validate:"min=1"`
	Timeout          time.Duration      `yaml:"timeout"`
}

// GeminiConfig defines Gemini API settings. The key comes from GEMINI_API_KEY.
type GeminiConfig struct {
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// AnthropicConfig defines Anthropic API settings.
type AnthropicConfig struct {
	Model string `yaml:"model"`
}

// OllamaConfig defines Ollama-specific settings.
type OllamaConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	KeepAlive string `yaml:"keep_alive"`
}

// OpenAICompatConfig defines OpenAI-compatible endpoint settings.
type OpenAICompatConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// ValuationConfig defines the FMV estimator.
type ValuationConfig struct {
	Method             string  `yaml:"method"              validate:"oneof=window depreciation"`
	MinSamples         int     `yaml:"min_samples"         validate:"min=1"`
	RecentDays         int     `yaml:"recent_days"         validate:"min=1"`
	AnnualDepreciation float64 `yaml:"annual_depreciation" validate:"min=0,max=1"`
	FloorRatio         float64 `yaml:"floor_ratio"         validate:"min=0,max=1"`
}

// DecisionConfig defines the publish and alert thresholds.
type DecisionConfig struct {
	PublishDiscount  float64 `yaml:"publish_discount"  validate:"min=0,max=100"`
	HotnessThreshold float64 `yaml:"hotness_threshold" validate:"min=0"`
	HotnessMargin    float64 `yaml:"hotness_margin"    validate:"min=0"`
	SalvageRatio     float64 `yaml:"salvage_ratio"     validate:"min=0,max=1"`
}

// HuntConfig defines a single hunt run.
type HuntConfig struct {
	TargetsPerRun  int           `yaml:"targets_per_run"  validate:"min=1"`
	PagesPerTarget int           `yaml:"pages_per_target" validate:"min=1"`
	QuotaPerTarget int           `yaml:"quota_per_target" validate:"min=1"`
	Workers        int           `yaml:"workers"          validate:"min=1,max=16"`
	MaxRuntime     time.Duration `yaml:"max_runtime"`
	ItemDelay      time.Duration `yaml:"item_delay"`
	TargetDelay    time.Duration `yaml:"target_delay"`
	Jitter         time.Duration `yaml:"jitter"`
	ItemTimeout    time.Duration `yaml:"item_timeout"`
	MaxImages      int           `yaml:"max_images"       validate:"min=0,max=20"`
}

// SeenConfig defines the dedup cache. An empty path keeps it in memory.
type SeenConfig struct {
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// ImagesConfig defines local image storage. An empty dir disables it.
type ImagesConfig struct {
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	HuntInterval        time.Duration `yaml:"hunt_interval"`
	MaintenanceInterval time.Duration `yaml:"maintenance_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"  validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyFetcherDefaults(&cfg.Fetcher)
	applyMarketplaceDefaults(&cfg.Marketplace)
	applyFiltersDefaults(&cfg.Filters)
	applyLLMDefaults(&cfg.LLM)
	applyValuationDefaults(&cfg.Valuation)
	applyDecisionDefaults(&cfg.Decision)
	applyHuntDefaults(&cfg.Hunt)
	applySeenDefaults(&cfg.Seen)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyFetcherDefaults(f *FetcherConfig) {
	if f.BaseDelay == 0 {
		f.BaseDelay = 2 * time.Second
	}
	if f.MaxAttempts == 0 {
		f.MaxAttempts = 5
	}
	if f.FreezeWindow == 0 {
		f.FreezeWindow = time.Hour
	}
	if f.MinInterval == 0 {
		f.MinInterval = 3 * time.Second
	}
	if f.Jitter == 0 {
		f.Jitter = time.Second
	}
	if f.Timeout == 0 {
		f.Timeout = 30 * time.Second
	}
	if f.UserAgent == "" {
		f.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	}
	if f.Renderer.Shots == 0 {
		f.Renderer.Shots = 2
	}
	if f.Renderer.Timeout == 0 {
		f.Renderer.Timeout = 45 * time.Second
	}
}

func applyMarketplaceDefaults(m *MarketplaceConfig) {
	if m.BaseURL == "" {
		m.BaseURL = "https://www.kleinanzeigen.de"
	}
}

func applyFiltersDefaults(f *FiltersConfig) {
	if f.MinPrice == 0 {
		f.MinPrice = 50
	}
	if f.MinDescription == 0 {
		f.MinDescription = 30
	}
	if f.ScamPriceCeiling == 0 {
		f.ScamPriceCeiling = 800
	}
	if f.FunnelMinPrice == 0 {
		f.FunnelMinPrice = 500
	}
	if f.FunnelMaxPrice == 0 {
		f.FunnelMaxPrice = 8000
	}
	if f.MinTitleLength == 0 {
		f.MinTitleLength = 20
	}
}

func applyLLMDefaults(l *LLMConfig) {
	if l.Backend == "" {
		l.Backend = "gemini"
	}
	if l.Temperature == 0 {
		l.Temperature = 0.1
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 768
	}
	if l.Timeout == 0 {
		l.Timeout = 90 * time.Second
	}
}

func applyValuationDefaults(v *ValuationConfig) {
	if v.Method == "" {
		v.Method = "window"
	}
	if v.MinSamples == 0 {
		v.MinSamples = 5
	}
	if v.RecentDays == 0 {
		v.RecentDays = 365
	}
	if v.AnnualDepreciation == 0 {
		v.AnnualDepreciation = 0.12
	}
	if v.FloorRatio == 0 {
		v.FloorRatio = 0.8
	}
}

func applyDecisionDefaults(d *DecisionConfig) {
	if d.PublishDiscount == 0 {
		d.PublishDiscount = 25
	}
	if d.HotnessThreshold == 0 {
		d.HotnessThreshold = 1000
	}
	if d.HotnessMargin == 0 {
		d.HotnessMargin = 0.30
	}
	if d.SalvageRatio == 0 {
		d.SalvageRatio = 0.65
	}
}

func applyHuntDefaults(h *HuntConfig) {
	if h.TargetsPerRun == 0 {
		h.TargetsPerRun = 20
	}
	if h.PagesPerTarget == 0 {
		h.PagesPerTarget = 1
	}
	if h.QuotaPerTarget == 0 {
		h.QuotaPerTarget = 5
	}
	if h.Workers == 0 {
		h.Workers = 1
	}
	if h.MaxRuntime == 0 {
		h.MaxRuntime = 45 * time.Minute
	}
	if h.ItemDelay == 0 {
		h.ItemDelay = 4 * time.Second
	}
	if h.TargetDelay == 0 {
		h.TargetDelay = 20 * time.Second
	}
	if h.Jitter == 0 {
		h.Jitter = 3 * time.Second
	}
	if h.ItemTimeout == 0 {
		h.ItemTimeout = 3 * time.Minute
	}
	if h.MaxImages == 0 {
		h.MaxImages = 6
	}
}

func applySeenDefaults(s *SeenConfig) {
	if s.TTL == 0 {
		s.TTL = 7 * 24 * time.Hour
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.HuntInterval == 0 {
		s.HuntInterval = 6 * time.Hour
	}
	if s.MaintenanceInterval == 0 {
		s.MaintenanceInterval = time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// newValidator reports fields by their YAML path.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validate(cfg *Config) error {
	var errs []error

	if err := newValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}

	if cfg.Filters.FunnelMinPrice >= cfg.Filters.FunnelMaxPrice {
		errs = append(errs, fmt.Errorf(
			"filters.funnel_min_price (%d) must be below filters.funnel_max_price (%d)",
			cfg.Filters.FunnelMinPrice, cfg.Filters.FunnelMaxPrice))
	}

	switch cfg.LLM.Backend {
	case "ollama":
		if cfg.LLM.Ollama.Endpoint == "" {
			errs = append(errs, errors.New("llm.ollama.endpoint is required when backend is ollama"))
		}
	case "openai_compat":
		if cfg.LLM.OpenAICompat.Endpoint == "" {
			errs = append(errs, errors.New("llm.openai_compat.endpoint is required when backend is openai_compat"))
		}
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("notifications.discord.webhook_url is required when discord is enabled"))
	}

	if cfg.Images.Dir != "" && cfg.Images.BaseURL == "" {
		errs = append(errs, errors.New("images.base_url is required when images.dir is set"))
	}

	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	// Namespace is "Config.section.field".
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s (got %q)",
			path, strings.ReplaceAll(fe.Param(), " ", ", "), fmt.Sprint(fe.Value()))
	case "url":
		return fmt.Errorf("%s must be a valid URL (got %q)", path, fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Errorf("%s must be at least %s (got %v)", path, fe.Param(), fe.Value())
	case "max":
		return fmt.Errorf("%s must be at most %s (got %v)", path, fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%s failed %s validation", path, fe.Tag())
	}
}
