package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling. The
// pool size comes from pool_max_conns in connString when present.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if !strings.Contains(connString, "pool_max_conns") {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// --- Comparables ---

// InsertComparable appends c to the corpus. It reports false when a row with
// the same source URL already exists.
func (s *PostgresStore) InsertComparable(ctx context.Context, c *domain.MarketComparable) (bool, error) {
	args := pgx.NamedArgs{
		"brand":          c.Brand,
		"model":          c.Model,
		"title":          c.Title,
		"price_eur":      c.PriceEUR,
		"year":           c.Year,
		"frame_size":     c.FrameSize,
		"frame_material": c.FrameMaterial,
		"scraped_at":     c.ScrapedAt,
		"source_url":     c.SourceURL,
	}

	err := s.pool.QueryRow(ctx, queryInsertComparable, args).Scan(&c.ID)
	if err != nil {
		// ON CONFLICT DO NOTHING returns no rows.
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("inserting comparable: %w", err)
	}
	return true, nil
}

// FindComparables returns corpus rows matching q, newest first.
func (s *PostgresStore) FindComparables(
	ctx context.Context,
	q *domain.ComparableQuery,
) ([]domain.MarketComparable, error) {
	sql, args := ComparablesSQL(q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying comparables: %w", err)
	}
	defer rows.Close()

	var comps []domain.MarketComparable
	for rows.Next() {
		var c domain.MarketComparable
		if err := rows.Scan(
			&c.ID, &c.Brand, &c.Model, &c.Title, &c.PriceEUR, &c.Year,
			&c.FrameSize, &c.FrameMaterial, &c.ScrapedAt, &c.SourceURL,
		); err != nil {
			return nil, fmt.Errorf("scanning comparable: %w", err)
		}
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// CountComparables returns the size of the corpus.
func (s *PostgresStore) CountComparables(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountComparables).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting comparables: %w", err)
	}
	return n, nil
}

// --- Catalog ---

// UpsertBike inserts or updates a bike by original URL and replaces its
// image list in the same transaction.
func (s *PostgresStore) UpsertBike(ctx context.Context, b *domain.Bike) error {
	args := pgx.NamedArgs{
		"original_url":        b.OriginalURL,
		"title":               b.Title,
		"brand":               b.Brand,
		"model":               b.Model,
		"price":               b.Price,
		"category":            string(b.Category),
		"description":         b.Description,
		"year":                b.Year,
		"frame_material":      b.FrameMaterial,
		"frame_size":          b.FrameSize,
		"wheel_size":          b.WheelSize,
		"location":            b.Location,
		"negotiable":          b.Negotiable,
		"seller_name":         b.SellerName,
		"seller_type":         string(b.SellerType),
		"seller_member_since": b.SellerMemberSince,
		"is_active":           b.IsActive,
		"priority":            string(priorityOrNormal(b.Priority)),
		"fmv":                 b.FMV,
		"fmv_confidence":      string(b.FMVConfidence),
		"condition_score":     b.ConditionScore,
		"condition_grade":     string(b.ConditionGrade),
		"condition_penalty":   b.ConditionPenalty,
		"condition_reasons":   nonNil(b.ConditionReasons),
		"condition_defects":   nonNil(b.ConditionDefects),
		"condition_positives": nonNil(b.ConditionPositive),
		"needs_audit":         b.NeedsAudit,
		"hotness_score":       b.HotnessScore,
		"salvage_value":       b.SalvageValue,
		"salvage_gem":         b.SalvageGem,
		"views":               b.Views,
		"publish_date":        b.PublishDate,
		"confidence_score":    b.ConfidenceScore,
		"main_image":          b.MainImage,
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, queryUpsertBike, args).Scan(
			&b.ID, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return fmt.Errorf("upserting bike: %w", err)
		}

		if _, err := tx.Exec(ctx, queryDeleteBikeImages, b.ID); err != nil {
			return fmt.Errorf("clearing bike images: %w", err)
		}
		for i, url := range b.Images {
			if _, err := tx.Exec(ctx, queryInsertBikeImage, b.ID, i, url); err != nil {
				return fmt.Errorf("inserting bike image %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetBikeByURL returns the bike stored under url with its images.
func (s *PostgresStore) GetBikeByURL(ctx context.Context, url string) (*domain.Bike, error) {
	b, err := scanBike(s.pool.QueryRow(ctx, queryGetBikeByURL, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bike %s: %w", url, ErrNotFound)
		}
		return nil, fmt.Errorf("getting bike by url: %w", err)
	}

	rows, err := s.pool.Query(ctx, queryListBikeImages, b.ID)
	if err != nil {
		return nil, fmt.Errorf("querying bike images: %w", err)
	}
	images, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting bike images: %w", err)
	}
	b.Images = images
	return b, nil
}

// ListBikes returns catalog rows matching q and the total match count.
func (s *PostgresStore) ListBikes(ctx context.Context, q *BikeQuery) ([]domain.Bike, int, error) {
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting bikes: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying bikes: %w", err)
	}
	defer rows.Close()

	var bikes []domain.Bike
	for rows.Next() {
		b, err := scanBike(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning bike: %w", err)
		}
		bikes = append(bikes, *b)
	}
	return bikes, total, rows.Err()
}

// --- Manual review ---

// SaveManualReview queues r for a human, replacing any earlier entry for the
// same URL.
func (s *PostgresStore) SaveManualReview(ctx context.Context, r *domain.ManualReview) error {
	args := pgx.NamedArgs{
		"url":     r.URL,
		"kind":    string(r.Kind),
		"title":   r.Title,
		"brand":   r.Brand,
		"model":   r.Model,
		"price":   r.Price,
		"reasons": nonNil(r.Reasons),
	}
	if err := s.pool.QueryRow(ctx, querySaveManualReview, args).Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("saving manual review: %w", err)
	}
	return nil
}

// ListManualReviews returns the newest pending reviews.
func (s *PostgresStore) ListManualReviews(ctx context.Context, limit int) ([]domain.ManualReview, error) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	rows, err := s.pool.Query(ctx, queryListManualReviews, limit)
	if err != nil {
		return nil, fmt.Errorf("querying manual reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.ManualReview
	for rows.Next() {
		var r domain.ManualReview
		var kind string
		if err := rows.Scan(
			&r.ID, &r.URL, &kind, &r.Title, &r.Brand, &r.Model, &r.Price, &r.Reasons, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning manual review: %w", err)
		}
		r.Kind = domain.ReviewKind(kind)
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// --- Audit ---

// RecordOutcome appends a terminal outcome to the audit log.
func (s *PostgresStore) RecordOutcome(ctx context.Context, o *domain.Outcome) error {
	args := pgx.NamedArgs{
		"run_id":  o.RunID,
		"url":     o.URL,
		"stage":   string(o.Stage),
		"verdict": string(o.Verdict),
		"reason":  o.Reason,
		"at":      o.At,
	}
	if _, err := s.pool.Exec(ctx, queryRecordOutcome, args); err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// --- Scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanBike(row scannable) (*domain.Bike, error) {
	var b domain.Bike
	var category, sellerType, priority, fmvConfidence, grade string

	err := row.Scan(
		&b.ID, &b.OriginalURL, &b.Title, &b.Brand, &b.Model, &b.Price,
		&category, &b.Description, &b.Year,
		&b.FrameMaterial, &b.FrameSize, &b.WheelSize,
		&b.Location, &b.Negotiable,
		&b.SellerName, &sellerType, &b.SellerMemberSince,
		&b.IsActive, &priority, &b.FMV, &fmvConfidence,
		&b.ConditionScore, &grade, &b.ConditionPenalty,
		&b.ConditionReasons, &b.ConditionDefects, &b.ConditionPositive,
		&b.NeedsAudit, &b.HotnessScore, &b.SalvageValue, &b.SalvageGem,
		&b.Views, &b.PublishDate, &b.ConfidenceScore, &b.MainImage,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Category = domain.Category(category)
	b.SellerType = domain.SellerType(sellerType)
	b.Priority = domain.Priority(priority)
	b.FMVConfidence = domain.Confidence(fmvConfidence)
	b.ConditionGrade = domain.ConditionGrade(grade)
	return &b, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func priorityOrNormal(p domain.Priority) domain.Priority {
	if p == "" {
		return domain.PriorityNormal
	}
	return p
}
