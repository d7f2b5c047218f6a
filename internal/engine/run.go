package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/bike-hunter/internal/fetch"
	"github.com/donaldgifford/bike-hunter/internal/metrics"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// Run results reported on the hunt_runs_total metric.
const (
	resultCompleted = "completed"
	resultFrozen    = "frozen"
	resultTimedOut  = "timed_out"
	resultCanceled  = "canceled"
)

// run is the shared state of one hunt run across workers.
type run struct {
	id       string
	deadline time.Time
	log      *slog.Logger
	stop     context.CancelFunc

	mu      sync.Mutex
	summary domain.RunSummary
}

func (r *run) freeze(err error) {
	r.mu.Lock()
	first := !r.summary.Frozen
	r.summary.Frozen = true
	r.mu.Unlock()
	if first {
		r.log.Warn("circuit breaker frozen, stopping run", "error", err)
	}
	r.stop()
}

func (r *run) count(out *domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case out.Stage == domain.StagePersisted && out.Verdict == domain.VerdictPublish:
		r.summary.Published++
	case out.Verdict == domain.VerdictHold:
		r.summary.Held++
	default:
		r.summary.Rejected++
	}
}

func (r *run) countSeen(duplicate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.Seen++
	if duplicate {
		r.summary.Duplicate++
	}
}

// RunHunt executes one hunt run: targets are generated, searched in
// priority order by a bounded pool of workers, and every new listing is
// driven through ProcessListing. The run stops early when a host's breaker
// freezes, when the runtime budget is spent, or when ctx is canceled. Only
// one run executes at a time; a concurrent call returns ErrHuntInProgress.
func (eng *Engine) RunHunt(ctx context.Context) (domain.RunSummary, error) {
	if !eng.running.CompareAndSwap(false, true) {
		return domain.RunSummary{}, ErrHuntInProgress
	}
	defer eng.running.Store(false)
	metrics.HuntInProgress.Set(1)
	defer metrics.HuntInProgress.Set(0)

	start := eng.nowFunc()
	r := &run{
		id:  eng.newRunID(),
		log: eng.log,
	}
	r.log = eng.log.With("run_id", r.id)
	if eng.cfg.MaxRuntime > 0 {
		r.deadline = start.Add(eng.cfg.MaxRuntime)
	}

	targets := eng.Strategy.Targets(eng.cfg.TargetsPerRun)
	r.summary = domain.RunSummary{RunID: r.id, Targets: len(targets)}
	r.log.Info("hunt run starting", "targets", len(targets), "workers", eng.cfg.Workers)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	r.stop = stop

	queue := make(chan *domain.Target)
	var wg sync.WaitGroup
	for range eng.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first := true
			for t := range queue {
				if !first && eng.pause(runCtx, r, eng.cfg.TargetDelay) != nil {
					continue
				}
				first = false
				eng.huntTarget(runCtx, r, t)
			}
		}()
	}

feed:
	for i := range targets {
		if eng.shouldStop(runCtx, r) {
			break
		}
		select {
		case queue <- &targets[i]:
		case <-runCtx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	r.mu.Lock()
	summary := r.summary
	r.mu.Unlock()
	summary.Duration = eng.nowFunc().Sub(start)
	summary.TimedOut = eng.pastDeadline(r)

	result := resultCompleted
	switch {
	case ctx.Err() != nil:
		result = resultCanceled
	case summary.Frozen:
		result = resultFrozen
	case summary.TimedOut:
		result = resultTimedOut
	}
	metrics.HuntRunsTotal.WithLabelValues(result).Inc()
	metrics.HuntDuration.Observe(summary.Duration.Seconds())

	r.log.Info("hunt run finished",
		"result", result,
		"seen", summary.Seen,
		"published", summary.Published,
		"held", summary.Held,
		"rejected", summary.Rejected,
		"duplicate", summary.Duplicate,
		"duration", summary.Duration,
	)

	if ctx.Err() != nil {
		return summary, fmt.Errorf("hunt run %s: %w", r.id, ctx.Err())
	}
	return summary, nil
}

// huntTarget searches one target and processes its new listings in the
// order the marketplace returned them.
func (eng *Engine) huntTarget(ctx context.Context, r *run, t *domain.Target) {
	log := r.log.With("target", t.Query(), "tier", t.Tier, "priority", t.Priority)
	processed := 0

	for page := 1; page <= eng.cfg.PagesPerTarget; page++ {
		if eng.shouldStop(ctx, r) {
			return
		}

		items, err := eng.Marketplace.Search(ctx, t, page)
		if err != nil {
			if errors.Is(err, fetch.ErrFrozen) {
				r.freeze(err)
				return
			}
			log.Warn("search failed", "page", page, "error", err)
			return
		}
		if len(items) == 0 {
			return
		}

		kept := eng.Funnel.Apply(items)
		for i := range kept {
			if t.Quota > 0 && processed >= t.Quota {
				return
			}
			if eng.shouldStop(ctx, r) {
				return
			}

			item := &kept[i]
			if eng.isDuplicate(item.Link) {
				r.countSeen(true)
				log.Debug("skipping seen listing", "url", item.Link)
				continue
			}
			r.countSeen(false)

			if processed > 0 && eng.pause(ctx, r, eng.cfg.ItemDelay) != nil {
				return
			}
			processed++

			out, err := eng.processWithBudget(ctx, r.id, item)
			r.count(&out)
			if errors.Is(err, fetch.ErrFrozen) {
				r.freeze(err)
				return
			}
		}
	}
}

// processWithBudget runs a single listing to completion. A run that is
// stopped or out of time does not interrupt a listing already in flight.
func (eng *Engine) processWithBudget(
	ctx context.Context,
	runID string,
	item *domain.SearchItem,
) (domain.Outcome, error) {
	itemCtx := context.WithoutCancel(ctx)
	if eng.cfg.ItemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(itemCtx, eng.cfg.ItemTimeout)
		defer cancel()
	}
	return eng.ProcessListing(itemCtx, runID, item)
}

func (eng *Engine) isDuplicate(link string) bool {
	if eng.Seen == nil {
		return false
	}
	seen, err := eng.Seen.Seen(link)
	if err != nil {
		eng.log.Warn("seen cache lookup failed", "url", link, "error", err)
		return false
	}
	return seen
}

func (eng *Engine) shouldStop(ctx context.Context, r *run) bool {
	return ctx.Err() != nil || eng.pastDeadline(r)
}

func (eng *Engine) pastDeadline(r *run) bool {
	return !r.deadline.IsZero() && !eng.nowFunc().Before(r.deadline)
}

// pause waits out a politeness delay plus jitter, never past the run
// deadline.
func (eng *Engine) pause(ctx context.Context, r *run, base time.Duration) error {
	d := base + eng.jitterFunc(eng.cfg.DelayJitter)
	if !r.deadline.IsZero() {
		d = min(d, r.deadline.Sub(eng.nowFunc()))
	}
	return eng.sleepFunc(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(maxJitter)))
}

func newRunID() string {
	return uuid.NewString()
}
