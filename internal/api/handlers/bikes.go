package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/bike-hunter/internal/store"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// CatalogReader reads the bike catalog and the manual review queue.
type CatalogReader interface {
	ListBikes(ctx context.Context, q *store.BikeQuery) ([]domain.Bike, int, error)
	GetBikeByURL(ctx context.Context, url string) (*domain.Bike, error)
	ListManualReviews(ctx context.Context, limit int) ([]domain.ManualReview, error)
}

// CatalogHandler handles catalog and review queue queries.
type CatalogHandler struct {
	store CatalogReader
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(s CatalogReader) *CatalogHandler {
	return &CatalogHandler{store: s}
}

// --- Input/Output types ---

// ListBikesInput filters the catalog.
type ListBikesInput struct {
	Brand      string `query:"brand"       doc:"Filter by brand"`
	Category   string `query:"category"    doc:"Filter by category"             enum:"xc,trail,enduro,dh,emtb,road,gravel,other,"`
	Priority   string `query:"priority"    doc:"Filter by priority"             enum:"normal,high,ultra_high,"`
	ActiveOnly bool   `query:"active_only" doc:"Only published bikes"`
	NeedsAudit string `query:"needs_audit" doc:"Filter by audit flag"           enum:"true,false,"`
	Limit      int    `query:"limit"       doc:"Number of results (default 50)" minimum:"0" maximum:"500"`
	Offset     int    `query:"offset"      doc:"Pagination offset"              minimum:"0"`
	OrderBy    string `query:"order_by"    doc:"Sort field"                     enum:"hotness,price,created_at,"`
}

// ListBikesOutput is a page of the catalog.
type ListBikesOutput struct {
	Body struct {
		Bikes  []domain.Bike `json:"bikes"`
		Total  int           `json:"total"`
		Limit  int           `json:"limit"`
		Offset int           `json:"offset"`
	}
}

// GetBikeInput selects a bike by its listing URL.
type GetBikeInput struct {
	URL string `query:"url" required:"true" doc:"Original listing URL" minLength:"1"`
}

// GetBikeOutput is a single catalog record.
type GetBikeOutput struct {
	Body domain.Bike
}

// ListReviewsInput pages the manual review queue.
type ListReviewsInput struct {
	Limit int `query:"limit" doc:"Number of results (default 50)" minimum:"0" maximum:"500"`
}

// ListReviewsOutput is the newest part of the manual review queue.
type ListReviewsOutput struct {
	Body struct {
		Reviews []domain.ManualReview `json:"reviews"`
	}
}

// --- Handlers ---

// ListBikes returns catalog records with optional filters and pagination.
func (h *CatalogHandler) ListBikes(ctx context.Context, input *ListBikesInput) (*ListBikesOutput, error) {
	q := &store.BikeQuery{
		ActiveOnly: input.ActiveOnly,
		Limit:      input.Limit,
		Offset:     input.Offset,
		OrderBy:    input.OrderBy,
	}
	if input.Brand != "" {
		q.Brand = &input.Brand
	}
	if input.Category != "" {
		q.Category = &input.Category
	}
	if input.Priority != "" {
		q.Priority = &input.Priority
	}
	if input.NeedsAudit != "" {
		audit := input.NeedsAudit == "true"
		q.NeedsAudit = &audit
	}

	bikes, total, err := h.store.ListBikes(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("bike query failed: " + err.Error())
	}

	resp := &ListBikesOutput{}
	resp.Body.Bikes = bikes
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// GetBike returns the catalog record of one listing URL.
func (h *CatalogHandler) GetBike(ctx context.Context, input *GetBikeInput) (*GetBikeOutput, error) {
	bike, err := h.store.GetBikeByURL(ctx, input.URL)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("bike not found")
		}
		return nil, huma.Error500InternalServerError("bike lookup failed: " + err.Error())
	}
	return &GetBikeOutput{Body: *bike}, nil
}

// ListReviews returns the newest entries of the manual review queue.
func (h *CatalogHandler) ListReviews(ctx context.Context, input *ListReviewsInput) (*ListReviewsOutput, error) {
	reviews, err := h.store.ListManualReviews(ctx, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("review query failed: " + err.Error())
	}
	resp := &ListReviewsOutput{}
	resp.Body.Reviews = reviews
	return resp, nil
}

// RegisterCatalogRoutes registers catalog endpoints with the Huma API.
func RegisterCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-bikes",
		Method:      http.MethodGet,
		Path:        "/api/v1/bikes",
		Summary:     "List bikes",
		Description: "Returns catalog records with optional filters and pagination.",
		Tags:        []string{"catalog"},
	}, h.ListBikes)

	huma.Register(api, huma.Operation{
		OperationID: "get-bike",
		Method:      http.MethodGet,
		Path:        "/api/v1/bikes/by-url",
		Summary:     "Get a bike by listing URL",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetBike)

	huma.Register(api, huma.Operation{
		OperationID: "list-reviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews",
		Summary:     "List manual reviews",
		Description: "Returns arbiter conflicts and jackpot candidates awaiting a human.",
		Tags:        []string{"catalog"},
	}, h.ListReviews)
}
