package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Registry hands out one shared Fetcher per host. Every worker in the
// process must obtain its fetcher here so that block signals from any of
// them count against the same breaker.
type Registry struct {
	cfg  Config
	opts []Option

	mu       sync.Mutex
	fetchers map[string]*Fetcher
}

// NewRegistry creates a registry whose fetchers share cfg and opts.
func NewRegistry(cfg Config, opts ...Option) *Registry {
	return &Registry{
		cfg:      cfg,
		opts:     opts,
		fetchers: make(map[string]*Fetcher),
	}
}

// For returns the fetcher for the host of rawURL, creating it on first use.
func (r *Registry) For(rawURL string) (*Fetcher, error) {
	host, err := HostOf(rawURL)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fetchers[host]
	if !ok {
		f = New(host, r.cfg, r.opts...)
		r.fetchers[host] = f
	}
	return f, nil
}

// Fetch fetches rawURL through the fetcher for its host.
func (r *Registry) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	f, err := r.For(rawURL)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, rawURL)
}

// States returns a snapshot of every breaker, ordered by host.
func (r *Registry) States() []domain.BreakerState {
	r.mu.Lock()
	hosts := make([]string, 0, len(r.fetchers))
	for h := range r.fetchers {
		hosts = append(hosts, h)
	}
	r.mu.Unlock()

	sort.Strings(hosts)
	states := make([]domain.BreakerState, 0, len(hosts))
	for _, h := range hosts {
		r.mu.Lock()
		f := r.fetchers[h]
		r.mu.Unlock()
		states = append(states, f.State())
	}
	return states
}

// HostOf extracts the lowercase host of rawURL.
func HostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	return strings.ToLower(u.Hostname()), nil
}
