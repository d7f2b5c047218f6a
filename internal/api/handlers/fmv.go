package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
	"github.com/donaldgifford/bike-hunter/pkg/valuation"
)

// Valuator produces FMV estimates with either method.
type Valuator interface {
	Estimate(ctx context.Context, req valuation.Request) (*domain.FMVResult, error)
	EstimateWithDepreciation(ctx context.Context, req valuation.Request) (*domain.FMVResult, error)
}

// FMVHandler serves fair market value queries.
type FMVHandler struct {
	valuator Valuator
}

// NewFMVHandler creates a new FMVHandler.
func NewFMVHandler(v Valuator) *FMVHandler {
	return &FMVHandler{valuator: v}
}

// FMVInput is the query of an FMV lookup.
type FMVInput struct {
	Brand       string `query:"brand"        required:"true" doc:"Bike brand"                         minLength:"1"`
	Model       string `query:"model"        required:"true" doc:"Bike model"                         minLength:"1"`
	Year        int    `query:"year"                         doc:"Model year"                         minimum:"0"`
	FrameSize   string `query:"frame_size"                   doc:"Frame size, letter or numeric"`
	Material    string `query:"material"                     doc:"Frame material"`
	AskingPrice int    `query:"asking_price"                 doc:"Asking price in EUR, enables the floor" minimum:"0"`
	Method      string `query:"method"                       doc:"Estimation method"                  enum:"window,depreciation" default:"window"`
}

// FMVOutput is the response of an FMV lookup.
type FMVOutput struct {
	Body domain.FMVResult
}

// GetFMV estimates the fair market value of a bike from the comparables
// corpus. A corpus too thin for an estimate yields 404.
func (h *FMVHandler) GetFMV(ctx context.Context, input *FMVInput) (*FMVOutput, error) {
	req := valuation.Request{
		Brand:         input.Brand,
		Model:         input.Model,
		FrameSize:     input.FrameSize,
		FrameMaterial: input.Material,
		AskingPrice:   input.AskingPrice,
	}
	if input.Year > 0 {
		year := input.Year
		req.Year = &year
	}

	estimate := h.valuator.Estimate
	if input.Method == "depreciation" {
		estimate = h.valuator.EstimateWithDepreciation
	}

	res, err := estimate(ctx, req)
	if err != nil {
		if errors.Is(err, valuation.ErrInsufficientData) {
			return nil, huma.Error404NotFound(err.Error())
		}
		return nil, huma.Error500InternalServerError("estimating fmv: " + err.Error())
	}
	return &FMVOutput{Body: *res}, nil
}

// RegisterFMVRoutes registers the FMV endpoint with the Huma API.
func RegisterFMVRoutes(api huma.API, h *FMVHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-fmv",
		Method:      http.MethodGet,
		Path:        "/api/v1/fmv",
		Summary:     "Estimate fair market value",
		Description: "Estimates FMV from historical comparables using the year window " +
			"or the depreciation-weighted method.",
		Tags:   []string{"valuation"},
		Errors: []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetFMV)
}
