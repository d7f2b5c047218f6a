package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/bike-hunter/internal/metrics"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Hunter runs one hunt.
type Hunter interface {
	RunHunt(ctx context.Context) (domain.RunSummary, error)
}

// Maintainer performs periodic housekeeping, such as compacting the seen
// cache.
type Maintainer interface {
	Compact() error
}

// Scheduler runs hunts and maintenance on a schedule. A hunt that is still
// running when the next one is due causes that tick to be skipped.
type Scheduler struct {
	cron       *cron.Cron
	hunter     Hunter
	maintainer Maintainer
	log        *slog.Logger
	ctx        context.Context
	cancel     context.CancelFunc

	huntEntryID        cron.EntryID
	maintenanceEntryID cron.EntryID
}

// NewScheduler creates a Scheduler firing a hunt every huntInterval. The
// maintenance job is registered only when m is non-nil and
// maintenanceInterval is positive.
func NewScheduler(
	h Hunter,
	m Maintainer,
	huntInterval time.Duration,
	maintenanceInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       c,
		hunter:     h,
		maintainer: m,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}

	id, err := c.AddFunc("@every "+huntInterval.String(), s.runHunt)
	if err != nil {
		cancel()
		return nil, err
	}
	s.huntEntryID = id

	if m != nil && maintenanceInterval > 0 {
		id, err := c.AddFunc("@every "+maintenanceInterval.String(), s.runMaintenance)
		if err != nil {
			cancel()
			return nil, err
		}
		s.maintenanceEntryID = id
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextRunTimestamps()
}

// Stop cancels a running hunt and stops the scheduler. The returned context
// is done once running jobs have returned.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	s.cancel()
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamps publishes the next hunt time as a gauge.
func (s *Scheduler) SyncNextRunTimestamps() {
	if next := s.cron.Entry(s.huntEntryID).Next; !next.IsZero() {
		metrics.SchedulerNextHuntTimestamp.Set(float64(next.Unix()))
	}
}

func (s *Scheduler) runHunt() {
	defer s.SyncNextRunTimestamps()

	s.log.Info("scheduled hunt starting")
	summary, err := s.hunter.RunHunt(s.ctx)
	if errors.Is(err, ErrHuntInProgress) {
		s.log.Info("scheduled hunt skipped, another run is in progress")
		return
	}
	if err != nil {
		s.log.Error("scheduled hunt failed", "error", err)
		return
	}
	s.log.Info("scheduled hunt finished",
		"run_id", summary.RunID,
		"published", summary.Published,
		"frozen", summary.Frozen,
	)
}

func (s *Scheduler) runMaintenance() {
	if err := s.maintainer.Compact(); err != nil {
		s.log.Error("scheduled maintenance failed", "error", err)
		return
	}
	s.log.Debug("scheduled maintenance finished")
}
