// Package seen remembers listing URLs that were already processed so a
// later run can skip them before fetching the detail page.
package seen

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	keyPrefix  = "seen:"
	defaultTTL = 7 * 24 * time.Hour
)

// Cache is a TTL set of URLs backed by badger.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long a URL stays marked.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// Open opens a cache stored in dir. An empty dir keeps everything in memory.
func Open(dir string, opts ...Option) (*Cache, error) {
	bopts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("opening seen cache: %w", err)
	}
	return New(db, opts...), nil
}

// New wraps an already opened badger database.
func New(db *badger.DB, opts ...Option) *Cache {
	c := &Cache{
		db:     db,
		ttl:    defaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Seen reports whether url was marked within the TTL.
func (c *Cache) Seen(url string) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key(url))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("looking up %s: %w", url, err)
	}
}

// Mark records url as seen for the configured TTL.
func (c *Cache) Mark(url string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key(url), []byte(time.Now().UTC().Format(time.RFC3339))).WithTTL(c.ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("marking %s: %w", url, err)
	}
	return nil
}

// Forget removes url so the next run processes it again.
func (c *Cache) Forget(url string) error {
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(url))
	}); err != nil {
		return fmt.Errorf("forgetting %s: %w", url, err)
	}
	return nil
}

// Compact reclaims value log space left by expired entries.
func (c *Cache) Compact() error {
	err := c.db.RunValueLogGC(0.5)
	switch {
	case err == nil:
		c.logger.Debug("seen cache value log rewritten")
		return nil
	case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
		return nil
	default:
		return fmt.Errorf("compacting seen cache: %w", err)
	}
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		c.logger.Warn("closing seen cache", "error", err)
		return err
	}
	return nil
}

func key(url string) []byte {
	return []byte(keyPrefix + url)
}
