package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

type fakeHunter struct {
	calls atomic.Int32
	err   error
}

func (f *fakeHunter) RunHunt(context.Context) (domain.RunSummary, error) {
	f.calls.Add(1)
	return domain.RunSummary{RunID: "run-1"}, f.err
}

type fakeMaintainer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeMaintainer) Compact() error {
	f.calls.Add(1)
	return f.err
}

func TestNewScheduler_RegistersCronEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		maintainer  Maintainer
		maintenance time.Duration
		want        int
	}{
		{"hunt and maintenance", &fakeMaintainer{}, time.Hour, 2},
		{"no maintainer", nil, time.Hour, 1},
		{"maintenance disabled", &fakeMaintainer{}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sched, err := NewScheduler(&fakeHunter{}, tt.maintainer, 6*time.Hour, tt.maintenance, quietLogger())
			require.NoError(t, err)
			assert.Len(t, sched.Entries(), tt.want)
			assert.NotZero(t, sched.huntEntryID)
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(&fakeHunter{}, nil, time.Hour, 0, quietLogger())
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()
}

func TestScheduler_SyncNextRunTimestamps(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(&fakeHunter{}, nil, 6*time.Hour, 0, quietLogger())
	require.NoError(t, err)

	sched.Start()
	defer sched.Stop()

	sched.SyncNextRunTimestamps()
	assert.Greater(t, ptestutil.ToFloat64(metrics.SchedulerNextHuntTimestamp), float64(time.Now().Unix()))
}

func TestScheduler_RunHunt(t *testing.T) {
	t.Parallel()

	ok := &fakeHunter{}
	sched, err := NewScheduler(ok, nil, time.Hour, 0, quietLogger())
	require.NoError(t, err)
	sched.runHunt()
	assert.Equal(t, int32(1), ok.calls.Load())

	failing := &fakeHunter{err: errors.New("boom")}
	sched, err = NewScheduler(failing, nil, time.Hour, 0, quietLogger())
	require.NoError(t, err)
	sched.runHunt()
	assert.Equal(t, int32(1), failing.calls.Load())
}

func TestScheduler_RunMaintenance(t *testing.T) {
	t.Parallel()

	m := &fakeMaintainer{err: errors.New("disk full")}
	sched, err := NewScheduler(&fakeHunter{}, m, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.runMaintenance()
	sched.runMaintenance()
	assert.Equal(t, int32(2), m.calls.Load())
}

type blockingHunter struct {
	started chan struct{}
}

func (b *blockingHunter) RunHunt(ctx context.Context) (domain.RunSummary, error) {
	close(b.started)
	<-ctx.Done()
	return domain.RunSummary{}, ctx.Err()
}

func TestScheduler_StopCancelsRunningHunt(t *testing.T) {
	t.Parallel()

	h := &blockingHunter{started: make(chan struct{})}
	sched, err := NewScheduler(h, nil, time.Hour, 0, quietLogger())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		sched.runHunt()
		close(done)
	}()
	<-h.started

	sched.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("hunt was not canceled by Stop")
	}
}

func TestScheduler_SkipsWhileHuntInProgress(t *testing.T) {
	t.Parallel()

	busy := &fakeHunter{err: ErrHuntInProgress}
	sched, err := NewScheduler(busy, nil, time.Hour, 0, quietLogger())
	require.NoError(t, err)

	sched.runHunt()
	assert.Equal(t, int32(1), busy.calls.Load())
}
