// Package fetch implements the polite, circuit-broken transport used for
// every call to the marketplace. A Fetcher guards exactly one host: it
// serializes calls, paces them, backs off on block signals and freezes
// after repeated blocks.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

const (
	defaultBaseDelay    = 2 * time.Second
	defaultMaxAttempts  = 5
	defaultFreezeWindow = time.Hour
	defaultMaxJitter    = time.Second
	defaultMaxBodyBytes = 8 << 20
	maxBackoffExponent  = 16
)

// defaultBlockMarkers are lowercase body fragments of block and captcha
// pages.
var defaultBlockMarkers = []string{
	"captcha-delivery",
	"verify you are human",
	"access denied",
	"zugriff verweigert",
	"ungewöhnlich viele anfragen",
	"unusual traffic",
	"are you a robot",
}

// Config holds the breaker thresholds. Zero values take the defaults.
type Config struct {
	BaseDelay    time.Duration
	MaxAttempts  int
	FreezeWindow time.Duration
	MaxJitter    time.Duration
	// MinInterval is the minimum spacing between two calls to the host.
	MinInterval time.Duration
	UserAgent   string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.BaseDelay <= 0 {
		out.BaseDelay = defaultBaseDelay
	}
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = defaultMaxAttempts
	}
	if out.FreezeWindow <= 0 {
		out.FreezeWindow = defaultFreezeWindow
	}
	if out.MaxJitter <= 0 {
		out.MaxJitter = defaultMaxJitter
	}
	return out
}

// Fetcher is the per-host polite fetcher. All methods are safe for
// concurrent use; concurrent callers queue behind the single in-flight slot.
type Fetcher struct {
	host   string
	cfg    Config
	client *http.Client
	log    *slog.Logger

	// slot is held for the duration of a call and its backoff sleep.
	slot    chan struct{}
	limiter *rate.Limiter

	mu          sync.Mutex
	failures    int
	frozenUntil time.Time

	blockMarkers []string
	nowFunc      func() time.Time
	sleepFunc    func(ctx context.Context, d time.Duration) error
	jitterFunc   func(max time.Duration) time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.log = l
	}
}

// WithNowFunc overrides the clock for testing.
func WithNowFunc(fn func() time.Time) Option {
	return func(f *Fetcher) {
		f.nowFunc = fn
	}
}

// WithSleepFunc overrides how backoff delays are waited out.
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) {
		f.sleepFunc = fn
	}
}

// WithJitterFunc overrides the jitter source.
func WithJitterFunc(fn func(max time.Duration) time.Duration) Option {
	return func(f *Fetcher) {
		f.jitterFunc = fn
	}
}

// WithBlockMarkers replaces the body fragments treated as block pages.
func WithBlockMarkers(markers []string) Option {
	return func(f *Fetcher) {
		f.blockMarkers = markers
	}
}

// New creates a Fetcher for host.
func New(host string, cfg Config, opts ...Option) *Fetcher {
	cfg = cfg.withDefaults()

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	f := &Fetcher{
		host:         host,
		cfg:          cfg,
		client:       &http.Client{Timeout: 30 * time.Second},
		log:          slog.Default(),
		slot:         make(chan struct{}, 1),
		limiter:      rate.NewLimiter(limit, 1),
		blockMarkers: defaultBlockMarkers,
		nowFunc:      time.Now,
		sleepFunc:    sleepContext,
		jitterFunc:   randomJitter,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Host returns the host this fetcher guards.
func (f *Fetcher) Host() string {
	return f.host
}

// State returns a snapshot of the breaker.
func (f *Fetcher) State() domain.BreakerState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.BreakerState{
		Host:                f.host,
		ConsecutiveFailures: f.failures,
		FrozenUntil:         f.frozenUntil,
	}
}

// Do runs op under the breaker. op must report block signals with an error
// matching ErrBlocked; any other error passes through untouched.
func (f *Fetcher) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if err := f.checkFrozen(); err != nil {
		return err
	}

	select {
	case f.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-f.slot }()

	// Another caller may have tripped the breaker while we queued.
	if err := f.checkFrozen(); err != nil {
		return err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for politeness interval: %w", err)
	}

	start := f.nowFunc()
	err := op(ctx)
	metrics.FetchDuration.WithLabelValues(f.host).Observe(f.nowFunc().Sub(start).Seconds())

	switch {
	case err == nil:
		f.recordSuccess()
		metrics.FetchRequestsTotal.WithLabelValues(f.host, "ok").Inc()
		return nil
	case errors.Is(err, ErrBlocked):
		metrics.FetchRequestsTotal.WithLabelValues(f.host, "blocked").Inc()
		return f.recordBlock(ctx, err)
	default:
		metrics.FetchRequestsTotal.WithLabelValues(f.host, "error").Inc()
		return err
	}
}

// Fetch GETs url and returns the body.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := f.Do(ctx, func(ctx context.Context) error {
		b, err := f.get(ctx, url)
		body = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, defaultMaxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &BlockedError{URL: url, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	if marker, ok := f.LooksBlocked(body); ok {
		return nil, &BlockedError{URL: url, StatusCode: resp.StatusCode, Reason: "block page: " + marker}
	}

	return body, nil
}

// LooksBlocked reports whether body is a block or captcha page.
func (f *Fetcher) LooksBlocked(body []byte) (string, bool) {
	lower := bytes.ToLower(body)
	for _, m := range f.blockMarkers {
		if bytes.Contains(lower, []byte(strings.ToLower(m))) {
			return m, true
		}
	}
	return "", false
}

func (f *Fetcher) checkFrozen() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.frozenUntil.IsZero() && f.nowFunc().Before(f.frozenUntil) {
		metrics.FetchRequestsTotal.WithLabelValues(f.host, "frozen").Inc()
		return &FrozenError{Host: f.host, Until: f.frozenUntil}
	}
	return nil
}

func (f *Fetcher) recordSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = 0
	f.frozenUntil = time.Time{}
	metrics.BreakerFailures.WithLabelValues(f.host).Set(0)
}

// recordBlock counts the block and either freezes the breaker or sleeps
// through the backoff before handing the error back. After a freeze window
// elapses the counter is kept, so one more block refreezes immediately.
func (f *Fetcher) recordBlock(ctx context.Context, blockErr error) error {
	f.mu.Lock()
	f.failures++
	failures := f.failures
	metrics.BreakerFailures.WithLabelValues(f.host).Set(float64(failures))

	if failures >= f.cfg.MaxAttempts {
		f.frozenUntil = f.nowFunc().Add(f.cfg.FreezeWindow)
		until := f.frozenUntil
		f.mu.Unlock()

		metrics.BreakerFreezesTotal.WithLabelValues(f.host).Inc()
		f.log.Error("circuit breaker frozen",
			"host", f.host,
			"consecutive_failures", failures,
			"frozen_until", until,
		)
		return blockErr
	}
	f.mu.Unlock()

	delay := f.backoff(failures)
	f.log.Warn("block signal, backing off",
		"host", f.host,
		"consecutive_failures", failures,
		"delay", delay,
		"error", blockErr,
	)
	if err := f.sleepFunc(ctx, delay); err != nil {
		return errors.Join(blockErr, err)
	}
	return blockErr
}

func (f *Fetcher) backoff(failures int) time.Duration {
	exp := min(failures, maxBackoffExponent)
	return f.cfg.BaseDelay*time.Duration(1<<exp) + f.jitterFunc(f.cfg.MaxJitter)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(maxJitter) + 1))
}
