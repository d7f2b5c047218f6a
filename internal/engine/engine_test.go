package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/engine/mocks"
	notifyMocks "github.com/donaldgifford/bike-hunter/internal/notify/mocks"
	"github.com/donaldgifford/bike-hunter/internal/seen"
	storeMocks "github.com/donaldgifford/bike-hunter/internal/store/mocks"
	"github.com/donaldgifford/bike-hunter/pkg/arbiter"
	"github.com/donaldgifford/bike-hunter/pkg/decision"
	"github.com/donaldgifford/bike-hunter/pkg/filter"
	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClock is a settable clock safe for use from worker goroutines.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// harness bundles an Engine with the mocks behind it.
type harness struct {
	eng       *Engine
	store     *storeMocks.MockStore
	market    *mocks.MockMarketplace
	extractor *mocks.MockExtractor
	valuator  *mocks.MockValuator
	notifier  *notifyMocks.MockNotifier
	seen      *seen.Cache
	clock     *fakeClock

	mu     sync.Mutex
	sleeps []time.Duration
}

func (h *harness) sleepCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sleeps)
}

func newHarness(t *testing.T, lex *lexicon.Lexicon, cfg Config, configure ...func(*Deps)) *harness {
	t.Helper()

	cache, err := seen.Open("", seen.WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	h := &harness{
		store:     storeMocks.NewMockStore(t),
		market:    mocks.NewMockMarketplace(t),
		extractor: mocks.NewMockExtractor(t),
		valuator:  mocks.NewMockValuator(t),
		notifier:  notifyMocks.NewMockNotifier(t),
		seen:      cache,
		clock:     newFakeClock(),
	}

	deps := Deps{
		Store:       h.store,
		Marketplace: h.market,
		Extractor:   h.extractor,
		Valuator:    h.valuator,
		KillSwitch:  filter.NewKillSwitch(lex, filter.WithKillSwitchLogger(quietLogger())),
		Funnel:      filter.NewFunnel(lex, filter.WithFunnelLogger(quietLogger())),
		Arbiter:     arbiter.New(lex, arbiter.WithLogger(quietLogger())),
		Decider:     decision.New(lex, decision.WithLogger(quietLogger()), decision.WithNowFunc(h.clock.Now)),
		Strategy:    NewStrategy(lex, 0),
		Seen:        cache,
		Notifier:    h.notifier,
	}
	for _, fn := range configure {
		fn(&deps)
	}

	h.eng = NewEngine(deps,
		WithLogger(quietLogger()),
		WithConfig(cfg),
		WithNowFunc(h.clock.Now),
		WithJitterFunc(func(time.Duration) time.Duration { return 0 }),
		WithSleepFunc(func(ctx context.Context, d time.Duration) error {
			h.mu.Lock()
			h.sleeps = append(h.sleeps, d)
			h.mu.Unlock()
			return ctx.Err()
		}),
		WithRunIDFunc(func() string { return "run-1" }),
	)
	return h
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	eng := NewEngine(Deps{})
	cfg := eng.Config()

	assert.Equal(t, 20, cfg.TargetsPerRun)
	assert.Equal(t, 1, cfg.PagesPerTarget)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 45*time.Minute, cfg.MaxRuntime)
	assert.Equal(t, 6, cfg.MaxImages)
	assert.NotNil(t, eng.log)
	assert.NotNil(t, eng.nowFunc)
	assert.NotNil(t, eng.sleepFunc)
	assert.NotEmpty(t, eng.newRunID())
}

func TestNewEngine_WithOptions(t *testing.T) {
	t.Parallel()

	l := quietLogger()
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(Deps{},
		WithLogger(l),
		WithConfig(Config{TargetsPerRun: 3, Workers: 0, PagesPerTarget: -1}),
		WithNowFunc(func() time.Time { return fixed }),
		WithRunIDFunc(func() string { return "fixed" }),
	)

	assert.Same(t, l, eng.log)
	assert.Equal(t, 3, eng.Config().TargetsPerRun)
	assert.Equal(t, 1, eng.Config().Workers, "workers floor at one")
	assert.Equal(t, 1, eng.Config().PagesPerTarget, "pages floor at one")
	assert.Equal(t, fixed, eng.nowFunc())
	assert.Equal(t, "fixed", eng.newRunID())
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	require.NoError(t, sleepContext(context.Background(), 0))
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestRandomJitter(t *testing.T) {
	t.Parallel()

	assert.Zero(t, randomJitter(0))
	for range 50 {
		j := randomJitter(time.Second)
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.Less(t, j, time.Second)
	}
}
