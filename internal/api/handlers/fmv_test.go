package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/api/handlers"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
	"github.com/donaldgifford/bike-hunter/pkg/valuation"
)

type fakeValuator struct {
	res    *domain.FMVResult
	err    error
	method string
	req    valuation.Request
}

func (f *fakeValuator) Estimate(_ context.Context, req valuation.Request) (*domain.FMVResult, error) {
	f.method, f.req = "window", req
	return f.res, f.err
}

func (f *fakeValuator) EstimateWithDepreciation(_ context.Context, req valuation.Request) (*domain.FMVResult, error) {
	f.method, f.req = "depreciation", req
	return f.res, f.err
}

func TestFMVHandler_GetFMV(t *testing.T) {
	t.Parallel()

	capra := &domain.FMVResult{
		FMV:        2150,
		Confidence: domain.ConfidenceMedium,
		SampleSize: 9,
		Method:     domain.MethodYearWindow,
	}

	tests := []struct {
		name       string
		query      string
		valuator   *fakeValuator
		wantStatus int
		wantMethod string
		wantBody   string
		check      func(*testing.T, valuation.Request)
	}{
		{
			name:       "window estimate by default",
			query:      "?brand=YT&model=Capra&year=2021&asking_price=1800",
			valuator:   &fakeValuator{res: capra},
			wantStatus: http.StatusOK,
			wantMethod: "window",
			wantBody:   `"fmv":2150`,
			check: func(t *testing.T, req valuation.Request) {
				t.Helper()
				assert.Equal(t, "YT", req.Brand)
				assert.Equal(t, "Capra", req.Model)
				require.NotNil(t, req.Year)
				assert.Equal(t, 2021, *req.Year)
				assert.Equal(t, 1800, req.AskingPrice)
			},
		},
		{
			name:  "depreciation method",
			query: "?brand=Canyon&model=Spectral&method=depreciation&frame_size=L&material=carbon",
			valuator: &fakeValuator{res: &domain.FMVResult{
				FMV:        2600,
				Confidence: domain.ConfidenceLow,
				Method:     domain.MethodDepreciation,
			}},
			wantStatus: http.StatusOK,
			wantMethod: "depreciation",
			wantBody:   `"method":"depreciation_weighted"`,
			check: func(t *testing.T, req valuation.Request) {
				t.Helper()
				assert.Nil(t, req.Year)
				assert.Equal(t, "L", req.FrameSize)
				assert.Equal(t, "carbon", req.FrameMaterial)
			},
		},
		{
			name:       "insufficient data returns 404",
			query:      "?brand=Nicolai&model=Ion",
			valuator:   &fakeValuator{err: fmt.Errorf("%w: 2 comparables for Nicolai", valuation.ErrInsufficientData)},
			wantStatus: http.StatusNotFound,
			wantMethod: "window",
			wantBody:   "insufficient comparables",
		},
		{
			name:       "corpus error returns 500",
			query:      "?brand=YT&model=Capra",
			valuator:   &fakeValuator{err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantMethod: "window",
		},
		{
			name:       "missing model returns 422",
			query:      "?brand=YT",
			valuator:   &fakeValuator{},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown method returns 422",
			query:      "?brand=YT&model=Capra&method=median",
			valuator:   &fakeValuator{},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterFMVRoutes(api, handlers.NewFMVHandler(tt.valuator))

			resp := api.Get("/api/v1/fmv" + tt.query)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Equal(t, tt.wantMethod, tt.valuator.method)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
			if tt.check != nil {
				tt.check(t, tt.valuator.req)
			}
		})
	}
}
