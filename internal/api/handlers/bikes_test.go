package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/api/handlers"
	"github.com/donaldgifford/bike-hunter/internal/store"
	storeMocks "github.com/donaldgifford/bike-hunter/internal/store/mocks"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

func TestCatalogHandler_ListBikes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name:  "no filters returns bikes",
			query: "",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListBikes(mock.Anything, mock.Anything).
					Return([]domain.Bike{{ID: 1, Brand: "YT", Model: "Capra"}}, 1, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total":1`,
		},
		{
			name:  "brand and category filter",
			query: "?brand=YT&category=enduro",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListBikes(mock.Anything, mock.MatchedBy(func(q *store.BikeQuery) bool {
						return q.Brand != nil && *q.Brand == "YT" &&
							q.Category != nil && *q.Category == "enduro" &&
							q.Priority == nil && q.NeedsAudit == nil
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total":0`,
		},
		{
			name:  "audit and active filters",
			query: "?needs_audit=false&active_only=true&priority=ultra_high",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListBikes(mock.Anything, mock.MatchedBy(func(q *store.BikeQuery) bool {
						return q.NeedsAudit != nil && !*q.NeedsAudit && q.ActiveOnly &&
							q.Priority != nil && *q.Priority == "ultra_high"
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "pagination and order",
			query: "?limit=10&offset=20&order_by=hotness",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListBikes(mock.Anything, mock.MatchedBy(func(q *store.BikeQuery) bool {
						return q.Limit == 10 && q.Offset == 20 && q.OrderBy == "hotness"
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"limit":10`,
		},
		{
			name:       "invalid order returns 422",
			query:      "?order_by=score",
			setupMock:  func(_ *storeMocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:  "store error returns 500",
			query: "",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListBikes(mock.Anything, mock.Anything).
					Return(nil, 0, assert.AnError).
					Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := storeMocks.NewMockStore(t)
			tt.setupMock(mockStore)

			_, api := humatest.New(t)
			handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(mockStore))

			resp := api.Get("/api/v1/bikes" + tt.query)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCatalogHandler_GetBike(t *testing.T) {
	t.Parallel()

	link := "https://www.kleinanzeigen.de/s-anzeige/yt-capra/123"

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "found returns 200",
			wantStatus: http.StatusOK,
			wantBody:   `"model":"Capra"`,
		},
		{
			name:       "not found returns 404",
			err:        fmt.Errorf("bike %s: %w", link, store.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "bike not found",
		},
		{
			name:       "store error returns 500",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := storeMocks.NewMockStore(t)
			var bike *domain.Bike
			if tt.err == nil {
				bike = &domain.Bike{OriginalURL: link, Brand: "YT", Model: "Capra"}
			}
			mockStore.EXPECT().GetBikeByURL(mock.Anything, link).Return(bike, tt.err).Once()

			_, api := humatest.New(t)
			handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(mockStore))

			resp := api.Get("/api/v1/bikes/by-url?url=" + url.QueryEscape(link))
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCatalogHandler_ListReviews(t *testing.T) {
	t.Parallel()

	t.Run("returns queue", func(t *testing.T) {
		t.Parallel()

		mockStore := storeMocks.NewMockStore(t)
		mockStore.EXPECT().ListManualReviews(mock.Anything, 5).Return([]domain.ManualReview{{
			URL:     "https://www.kleinanzeigen.de/s-anzeige/nomad/9",
			Kind:    domain.ReviewJackpot,
			Title:   "Santa Cruz Nomad",
			Reasons: []string{"premium brand far below ceiling"},
		}}, nil).Once()

		_, api := humatest.New(t)
		handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(mockStore))

		resp := api.Get("/api/v1/reviews?limit=5")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"kind":"jackpot"`)
	})

	t.Run("store error returns 500", func(t *testing.T) {
		t.Parallel()

		mockStore := storeMocks.NewMockStore(t)
		mockStore.EXPECT().ListManualReviews(mock.Anything, 0).Return(nil, assert.AnError).Once()

		_, api := humatest.New(t)
		handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(mockStore))

		resp := api.Get("/api/v1/reviews")
		require.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
