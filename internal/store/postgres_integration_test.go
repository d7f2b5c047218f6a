//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/bike-hunter/internal/store"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bikehunter_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func intPtr(v int) *int { return &v }

func testComparable(url string, price int) *domain.MarketComparable {
	return &domain.MarketComparable{
		Brand:     "YT",
		Model:     "Capra Core 3",
		Title:     "YT Capra Core 3 29 2021",
		PriceEUR:  price,
		Year:      intPtr(2021),
		ScrapedAt: time.Now().Truncate(time.Microsecond),
		SourceURL: url,
	}
}

func testBike() *domain.Bike {
	fmv := 3000
	return &domain.Bike{
		OriginalURL:      "https://www.kleinanzeigen.de/s-anzeige/yt-capra/123-217-1",
		Title:            "YT Capra Core 3 29 2021",
		Brand:            "YT",
		Model:            "Capra Core 3",
		Price:            2100,
		Category:         domain.CategoryEnduro,
		Year:             intPtr(2021),
		FrameMaterial:    "carbon",
		FrameSize:        "L",
		IsActive:         true,
		Priority:         domain.PriorityHigh,
		FMV:              &fmv,
		FMVConfidence:    domain.ConfidenceHigh,
		ConditionGrade:   domain.GradeB,
		ConditionReasons: []string{"light scratches"},
		Images:           []string{"/images/a.jpg", "/images/b.jpg"},
		MainImage:        "/images/a.jpg",
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_Migrate_Idempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_InsertComparable_OncePerURL(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	inserted, err := s.InsertComparable(ctx, testComparable("https://example.test/1", 2000))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.InsertComparable(ctx, testComparable("https://example.test/1", 2500))
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := s.CountComparables(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPostgresStore_FindComparables(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	for i, url := range []string{"https://example.test/a", "https://example.test/b"} {
		_, err := s.InsertComparable(ctx, testComparable(url, 2000+i*100))
		require.NoError(t, err)
	}
	other := testComparable("https://example.test/c", 1500)
	other.Model, other.Title = "Jeffsy", "YT Jeffsy 27"
	_, err := s.InsertComparable(ctx, other)
	require.NoError(t, err)
	free := testComparable("https://example.test/d", 0)
	_, err = s.InsertComparable(ctx, free)
	require.NoError(t, err)

	comps, err := s.FindComparables(ctx, &domain.ComparableQuery{
		Brand: "yt", Patterns: []string{"capra"}, RecentDays: 365,
	})
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, "https://example.test/b", comps[0].SourceURL)

	all, err := s.FindComparables(ctx, &domain.ComparableQuery{Brand: "YT"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPostgresStore_UpsertBike(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	b := testBike()
	require.NoError(t, s.UpsertBike(ctx, b))
	assert.NotZero(t, b.ID)
	firstID := b.ID

	b.Price = 1900
	b.Images = []string{"/images/c.jpg"}
	require.NoError(t, s.UpsertBike(ctx, b))
	assert.Equal(t, firstID, b.ID)

	got, err := s.GetBikeByURL(ctx, b.OriginalURL)
	require.NoError(t, err)
	assert.Equal(t, 1900, got.Price)
	assert.Equal(t, []string{"/images/c.jpg"}, got.Images)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	require.NotNil(t, got.FMV)
	assert.Equal(t, 3000, *got.FMV)

	bikes, total, err := s.ListBikes(ctx, &store.BikeQuery{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, bikes, 1)
}

func TestPostgresStore_GetBikeByURL_NotFound(t *testing.T) {
	s := setupPostgres(t)
	_, err := s.GetBikeByURL(context.Background(), "https://example.test/missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_ManualReviews(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	r := &domain.ManualReview{
		URL:     "https://example.test/r",
		Kind:    domain.ReviewConflict,
		Title:   "Canyon Spectral",
		Price:   900,
		Reasons: []string{"material mismatch: carbon vs aluminum"},
	}
	require.NoError(t, s.SaveManualReview(ctx, r))
	r.Reasons = []string{"price mismatch"}
	require.NoError(t, s.SaveManualReview(ctx, r))

	reviews, err := s.ListManualReviews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, []string{"price mismatch"}, reviews[0].Reasons)
	assert.Equal(t, domain.ReviewConflict, reviews[0].Kind)
}

func TestPostgresStore_RecordOutcome(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.RecordOutcome(context.Background(), &domain.Outcome{
		RunID:   "run-1",
		URL:     "https://example.test/o",
		Stage:   domain.StagePreFiltered,
		Verdict: domain.VerdictDiscard,
		Reason:  "blocklisted term",
		At:      time.Now(),
	}))
}
