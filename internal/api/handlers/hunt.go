package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/bike-hunter/internal/engine"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Hunter runs one hunt.
type Hunter interface {
	RunHunt(ctx context.Context) (domain.RunSummary, error)
	Running() bool
}

// HuntHandler handles manual hunt trigger requests.
type HuntHandler struct {
	hunter Hunter
	base   context.Context
	log    *slog.Logger
}

// HuntOption configures a HuntHandler.
type HuntOption func(*HuntHandler)

// WithBaseContext sets the context background runs inherit. Canceling it
// stops them.
func WithBaseContext(ctx context.Context) HuntOption {
	return func(h *HuntHandler) {
		h.base = ctx
	}
}

// WithHuntLogger sets the logger for background runs.
func WithHuntLogger(l *slog.Logger) HuntOption {
	return func(h *HuntHandler) {
		h.log = l
	}
}

// NewHuntHandler creates a new HuntHandler.
func NewHuntHandler(hunter Hunter, opts ...HuntOption) *HuntHandler {
	h := &HuntHandler{
		hunter: hunter,
		base:   context.Background(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HuntInput selects between a background and a blocking run.
type HuntInput struct {
	Wait bool `query:"wait" doc:"Block until the run finishes and return its summary"`
}

// HuntOutput is the response of the hunt trigger. Summary is set only for
// blocking runs.
type HuntOutput struct {
	Status int
	Body   struct {
		Status  string             `json:"status"            example:"hunt started"`
		Summary *domain.RunSummary `json:"summary,omitempty"`
	}
}

// Hunt starts a hunt in the background and answers 202, or runs it to
// completion when wait is set. A run already in progress yields 409.
func (h *HuntHandler) Hunt(ctx context.Context, input *HuntInput) (*HuntOutput, error) {
	if h.hunter.Running() {
		return nil, huma.Error409Conflict("a hunt is already running")
	}

	resp := &HuntOutput{}
	if !input.Wait {
		go h.runInBackground()
		resp.Status = http.StatusAccepted
		resp.Body.Status = "hunt started"
		return resp, nil
	}

	summary, err := h.hunter.RunHunt(ctx)
	if err != nil {
		if errors.Is(err, engine.ErrHuntInProgress) {
			return nil, huma.Error409Conflict("a hunt is already running")
		}
		return nil, huma.Error500InternalServerError("hunt failed: " + err.Error())
	}
	resp.Status = http.StatusOK
	resp.Body.Status = "hunt completed"
	resp.Body.Summary = &summary
	return resp, nil
}

func (h *HuntHandler) runInBackground() {
	summary, err := h.hunter.RunHunt(h.base)
	if err != nil {
		h.log.Warn("triggered hunt failed", "error", err)
		return
	}
	h.log.Info("triggered hunt finished", "run_id", summary.RunID, "published", summary.Published)
}

// RegisterHuntRoutes registers the trigger endpoint with the Huma API.
func RegisterHuntRoutes(api huma.API, h *HuntHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-hunt",
		Method:      http.MethodPost,
		Path:        "/api/v1/hunts",
		Summary:     "Trigger a hunt run",
		Description: "Generates targets, searches the marketplace and drives every new " +
			"listing through filtering, extraction, valuation and the publish decision.",
		Tags:          []string{"hunt"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusConflict, http.StatusInternalServerError},
	}, h.Hunt)
}
