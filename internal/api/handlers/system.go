package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// BreakerReporter snapshots the per-host circuit breakers.
type BreakerReporter interface {
	States() []domain.BreakerState
}

// ComparablesCounter reports the size of the comparables corpus.
type ComparablesCounter interface {
	CountComparables(ctx context.Context) (int, error)
}

// SystemState is the operational snapshot served on /api/v1/system/state.
type SystemState struct {
	Comparables int                   `json:"comparables"`
	Breakers    []domain.BreakerState `json:"breakers"`
	Frozen      []string              `json:"frozen"`
}

// SystemStateHandler handles GET /api/v1/system/state.
type SystemStateHandler struct {
	breakers BreakerReporter
	corpus   ComparablesCounter
	nowFunc  func() time.Time
}

// NewSystemStateHandler creates a SystemStateHandler.
func NewSystemStateHandler(b BreakerReporter, c ComparablesCounter) *SystemStateHandler {
	return &SystemStateHandler{breakers: b, corpus: c, nowFunc: time.Now}
}

// SystemStateOutput is the response for GET /api/v1/system/state.
type SystemStateOutput struct {
	Body SystemState
}

// GetSystemState returns the comparables count and every breaker, naming
// the hosts that are frozen right now.
func (h *SystemStateHandler) GetSystemState(ctx context.Context, _ *struct{}) (*SystemStateOutput, error) {
	n, err := h.corpus.CountComparables(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count comparables")
	}

	now := h.nowFunc()
	state := SystemState{
		Comparables: n,
		Breakers:    h.breakers.States(),
		Frozen:      []string{},
	}
	for _, b := range state.Breakers {
		if b.FrozenUntil.After(now) {
			state.Frozen = append(state.Frozen, b.Host)
		}
	}
	return &SystemStateOutput{Body: state}, nil
}

// RegisterSystemStateRoutes registers the system state route on the Huma API.
func RegisterSystemStateRoutes(api huma.API, h *SystemStateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-system-state",
		Method:      http.MethodGet,
		Path:        "/api/v1/system/state",
		Summary:     "Get system state",
		Description: "Returns the comparables corpus size and the circuit breaker of every host.",
		Tags:        []string{"system"},
	}, h.GetSystemState)
}
