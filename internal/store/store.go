// Package store defines the datastore abstraction for bike-hunter.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// BikeQuery defines optional filters for catalog queries.
type BikeQuery struct {
	Brand      *string
	Category   *string
	Priority   *string
	ActiveOnly bool
	NeedsAudit *bool
	Limit      int // default 50
	Offset     int
	OrderBy    string // "hotness", "price", "created_at"
}

// Store defines all data access operations for bike-hunter.
type Store interface {
	// Comparables
	InsertComparable(ctx context.Context, c *domain.MarketComparable) (bool, error)
	FindComparables(ctx context.Context, q *domain.ComparableQuery) ([]domain.MarketComparable, error)
	CountComparables(ctx context.Context) (int, error)

	// Catalog
	UpsertBike(ctx context.Context, b *domain.Bike) error
	GetBikeByURL(ctx context.Context, url string) (*domain.Bike, error)
	ListBikes(ctx context.Context, q *BikeQuery) ([]domain.Bike, int, error)

	// Manual review
	SaveManualReview(ctx context.Context, r *domain.ManualReview) error
	ListManualReviews(ctx context.Context, limit int) ([]domain.ManualReview, error)

	// Audit
	RecordOutcome(ctx context.Context, o *domain.Outcome) error

	// Health
	Ping(ctx context.Context) error
}
