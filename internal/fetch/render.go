package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 1600
	defaultRenderTimeout  = 45 * time.Second
	defaultSettleDelay    = 1500 * time.Millisecond
)

// Rendered is a listing page as seen by a headless browser.
type Rendered struct {
	HTML        string
	Screenshots [][]byte
}

// Renderer captures a listing page visually.
type Renderer interface {
	Render(ctx context.Context, url string) (*Rendered, error)
	Close()
}

// RenderConfig configures the headless browser.
type RenderConfig struct {
	ExecPath       string
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Timeout        time.Duration
	SettleDelay    time.Duration
	// Shots is how many viewport-high screenshots to capture, scrolling
	// between each.
	Shots int
}

// ChromeRenderer renders pages with headless Chrome. Every render goes
// through the host's breaker in the registry, so browser traffic counts
// against the same politeness budget as plain fetches.
type ChromeRenderer struct {
	cfg      RenderConfig
	registry *Registry
	log      *slog.Logger

	once        sync.Once
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancelBrows context.CancelFunc
}

// NewChromeRenderer creates a renderer. The browser starts on first use.
func NewChromeRenderer(cfg RenderConfig, registry *Registry, log *slog.Logger) *ChromeRenderer {
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = defaultViewportWidth
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = defaultViewportHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRenderTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.Shots <= 0 {
		cfg.Shots = 2
	}
	if log == nil {
		log = slog.Default()
	}
	return &ChromeRenderer{cfg: cfg, registry: registry, log: log}
}

func (r *ChromeRenderer) start() {
	r.once.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(r.cfg.ViewportWidth, r.cfg.ViewportHeight),
		)
		if r.cfg.UserAgent != "" {
			opts = append(opts, chromedp.UserAgent(r.cfg.UserAgent))
		}
		if r.cfg.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(r.cfg.ExecPath))
		}

		r.allocCtx, r.cancelAlloc = chromedp.NewExecAllocator(context.Background(), opts...)
		r.browserCtx, r.cancelBrows = chromedp.NewContext(r.allocCtx,
			chromedp.WithLogf(func(string, ...any) {}),
		)
	})
}

// Render loads url in a fresh tab and captures its HTML and screenshots.
// A block page is reported as a BlockedError so the breaker sees it.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (*Rendered, error) {
	f, err := r.registry.For(url)
	if err != nil {
		return nil, err
	}

	var out *Rendered
	err = f.Do(ctx, func(ctx context.Context) error {
		res, err := r.render(ctx, url)
		if err != nil {
			return err
		}
		if marker, blocked := f.LooksBlocked([]byte(res.HTML)); blocked {
			return &BlockedError{URL: url, Reason: "rendered block page: " + marker}
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ChromeRenderer) render(ctx context.Context, url string) (*Rendered, error) {
	r.start()

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.cfg.Timeout)
	defer cancelTimeout()

	// Tie the tab to the caller's lifetime.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	res := &Rendered{}
	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(r.cfg.ViewportWidth), int64(r.cfg.ViewportHeight)),
		chromedp.Navigate(url),
		chromedp.Sleep(r.cfg.SettleDelay),
		chromedp.OuterHTML("html", &res.HTML, chromedp.ByQuery),
	}
	shots := make([][]byte, r.cfg.Shots)
	for i := range shots {
		if i > 0 {
			actions = append(actions,
				chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil),
				chromedp.Sleep(r.cfg.SettleDelay/2),
			)
		}
		actions = append(actions, chromedp.CaptureScreenshot(&shots[i]))
	}

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("rendering page: %w", err)}
	}

	for _, s := range shots {
		if len(s) > 0 {
			res.Screenshots = append(res.Screenshots, s)
		}
	}
	r.log.Debug("page rendered", "url", url, "screenshots", len(res.Screenshots))
	return res, nil
}

// Close shuts the browser down.
func (r *ChromeRenderer) Close() {
	if r.cancelBrows != nil {
		r.cancelBrows()
	}
	if r.cancelAlloc != nil {
		r.cancelAlloc()
	}
}
