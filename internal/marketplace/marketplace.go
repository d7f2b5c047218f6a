// Package marketplace adapts the classifieds site's search and detail pages
// into domain records. All network traffic goes through a Fetcher so the
// host's breaker sees every call.
package marketplace

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

const (
	// DefaultBaseURL is the production marketplace.
	DefaultBaseURL = "https://www.kleinanzeigen.de"

	bikeCategoryPath = "/s-fahrraeder"
	bikeCategoryCode = "k0c217"
)

// Fetcher retrieves a page body. *fetch.Registry satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Source reads listings from the marketplace.
type Source struct {
	baseURL string
	fetcher Fetcher
	log     *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithBaseURL points the source at a different host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *Source) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		s.log = l
	}
}

// NewSource creates a Source backed by fetcher.
func NewSource(fetcher Fetcher, opts ...Option) *Source {
	s := &Source{
		baseURL: DefaultBaseURL,
		fetcher: fetcher,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9\s-]`)

// SearchURL builds the category search URL for a target. Pages are
// 1-based; page 1 carries no page segment.
func (s *Source) SearchURL(t *domain.Target, page int) string {
	var b strings.Builder
	b.WriteString(s.baseURL)
	b.WriteString(bikeCategoryPath)

	if t.MinPrice > 0 || t.MaxPrice > 0 {
		b.WriteString("/preis:")
		if t.MinPrice > 0 {
			b.WriteString(strconv.Itoa(t.MinPrice))
		}
		b.WriteString(":")
		if t.MaxPrice > 0 {
			b.WriteString(strconv.Itoa(t.MaxPrice))
		}
	}
	if page > 1 {
		fmt.Fprintf(&b, "/seite:%d", page)
	}

	if slug := Slug(t.Query()); slug != "" {
		b.WriteString("/")
		b.WriteString(slug)
	}
	b.WriteString("/")
	b.WriteString(bikeCategoryCode)
	return b.String()
}

// Slug turns a free-text query into a URL path segment.
func Slug(q string) string {
	q = slugStripRe.ReplaceAllString(lexicon.Fold(q), "")
	return strings.Join(strings.Fields(q), "-")
}

// Search returns the item cards on one search result page.
func (s *Source) Search(ctx context.Context, t *domain.Target, page int) ([]domain.SearchItem, error) {
	u := s.SearchURL(t, page)
	body, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching search page %q: %w", u, err)
	}

	items, err := ParseSearchResults(body, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing search page %q: %w", u, err)
	}

	s.log.Debug("search page parsed", "target", t.Query(), "page", page, "items", len(items))
	return items, nil
}

// Detail fetches and parses a single listing page.
func (s *Source) Detail(ctx context.Context, link string) (*domain.RawListing, error) {
	body, err := s.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetching listing %q: %w", link, err)
	}

	listing, err := ParseDetailPage(body, link)
	if err != nil {
		return nil, fmt.Errorf("parsing listing %q: %w", link, err)
	}
	return listing, nil
}

// absolute resolves href against base.
func absolute(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
