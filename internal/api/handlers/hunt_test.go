package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/api/handlers"
	"github.com/donaldgifford/bike-hunter/internal/engine"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

type fakeHunter struct {
	summary domain.RunSummary
	err     error
	running bool
	calls   atomic.Int32
	done    chan struct{}
}

func newFakeHunter() *fakeHunter {
	return &fakeHunter{done: make(chan struct{}, 1)}
}

func (f *fakeHunter) RunHunt(_ context.Context) (domain.RunSummary, error) {
	f.calls.Add(1)
	f.done <- struct{}{}
	return f.summary, f.err
}

func (f *fakeHunter) Running() bool { return f.running }

func TestHuntHandler_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(*fakeHunter)
		wantStatus int
		wantCalls  int32
		wantBody   []string
	}{
		{
			name: "returns run summary",
			setup: func(f *fakeHunter) {
				f.summary = domain.RunSummary{
					RunID:     "run-42",
					Targets:   20,
					Seen:      31,
					Published: 4,
					Duration:  12 * time.Minute,
				}
			},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody:   []string{`"run_id":"run-42"`, `"published":4`, `"status":"hunt completed"`},
		},
		{
			name:       "running hunt returns 409",
			setup:      func(f *fakeHunter) { f.running = true },
			wantStatus: http.StatusConflict,
			wantBody:   []string{"already running"},
		},
		{
			name:       "lost race returns 409",
			setup:      func(f *fakeHunter) { f.err = fmt.Errorf("run: %w", engine.ErrHuntInProgress) },
			wantStatus: http.StatusConflict,
			wantCalls:  1,
		},
		{
			name:       "run error returns 500",
			setup:      func(f *fakeHunter) { f.err = errors.New("context canceled") },
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
			wantBody:   []string{"hunt failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hunter := newFakeHunter()
			tt.setup(hunter)

			_, api := humatest.New(t)
			handlers.RegisterHuntRoutes(api, handlers.NewHuntHandler(hunter))

			resp := api.Post("/api/v1/hunts?wait=true")
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Equal(t, tt.wantCalls, hunter.calls.Load())
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}

func TestHuntHandler_Background(t *testing.T) {
	t.Parallel()

	hunter := newFakeHunter()
	hunter.summary = domain.RunSummary{RunID: "run-7"}

	_, api := humatest.New(t)
	handlers.RegisterHuntRoutes(api, handlers.NewHuntHandler(hunter,
		handlers.WithBaseContext(context.Background()),
		handlers.WithHuntLogger(quietLogger()),
	))

	resp := api.Post("/api/v1/hunts")
	require.Equal(t, http.StatusAccepted, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"hunt started"`)
	assert.NotContains(t, resp.Body.String(), "summary")

	select {
	case <-hunter.done:
	case <-time.After(5 * time.Second):
		t.Fatal("background hunt did not start")
	}
	assert.Equal(t, int32(1), hunter.calls.Load())
}
