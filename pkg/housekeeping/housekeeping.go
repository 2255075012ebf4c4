// Package housekeeping periodically repairs the derived state of the job store: bucket
// counters that drifted from the job table, and execution tokens that expired.
package housekeeping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/lib/validate"
)

const (
	DefaultInterval = 5 * time.Minute
	// DefaultWorkers is the default number of tasks run in parallel
	DefaultWorkers = 2
)

type HousekeepingParams struct {
	Store jobstore.Store
	// Interval is the interval at which housekeeping tasks are run
	Interval time.Duration
	// Workers is the maximum number of tasks run in parallel
	Workers int
	// Clock is the clock used for time-based operations.
	// If not provided, the system clock is used.
	Clock clock.Clock
}

// Result summarizes one housekeeping pass.
type Result struct {
	BucketsRepaired int
	TokensExpired   int
}

type Housekeeping struct {
	store    jobstore.Store
	interval time.Duration
	workers  int
	clock    clock.Clock

	waitGroup sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	stopChan  chan struct{}
	mu        sync.Mutex
	running   bool
}

func NewHousekeeping(params HousekeepingParams) (*Housekeeping, error) {
	if params.Interval == 0 {
		params.Interval = DefaultInterval
	}
	if params.Workers == 0 {
		params.Workers = DefaultWorkers
	}
	if params.Clock == nil {
		params.Clock = clock.New()
	}

	err := errors.Join(
		validate.IsNotNil(params.Store, "job store cannot be nil"),
		validate.IsGreaterThanZero(params.Interval, "interval must be greater than zero"),
		validate.IsGreaterThanZero(params.Workers, "workers must be greater than zero"),
	)
	if err != nil {
		return nil, fmt.Errorf("error validating housekeeping params: %w", err)
	}

	return &Housekeeping{
		store:    params.Store,
		interval: params.Interval,
		workers:  params.Workers,
		clock:    params.Clock,
		stopChan: make(chan struct{}),
	}, nil
}

// IsRunning returns true if the housekeeping loop is running
func (h *Housekeeping) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

func (h *Housekeeping) setRunning(running bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = running
}

// Start runs the housekeeping tasks every interval until ctx is done or Stop is called.
func (h *Housekeeping) Start(ctx context.Context) {
	h.startOnce.Do(func() {
		ticker := h.clock.Ticker(h.interval)
		h.setRunning(true)
		h.waitGroup.Add(1)
		go h.run(ctx, ticker)
	})
}

// Stop ends the loop and waits for an inflight pass, or until ctx is done.
func (h *Housekeeping) Stop(ctx context.Context) {
	h.stopOnce.Do(func() {
		close(h.stopChan)

		done := make(chan struct{})
		go func() {
			h.waitGroup.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
		}
	})
}

func (h *Housekeeping) run(ctx context.Context, ticker *clock.Ticker) {
	defer h.waitGroup.Done()
	defer h.setRunning(false)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := h.RunOnce(ctx); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("housekeeping pass failed")
			}
		case <-ctx.Done():
			log.Ctx(ctx).Debug().Msg("Context cancelled, stopping housekeeping task")
			return
		case <-h.stopChan:
			log.Ctx(ctx).Debug().Msg("Stop channel closed, stopping housekeeping task")
			return
		}
	}
}

// RunOnce runs every housekeeping task once.
func (h *Housekeeping) RunOnce(ctx context.Context) (Result, error) {
	var result Result
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)

	g.Go(func() error {
		repaired, err := h.store.ReconcileBuckets(ctx)
		if err != nil {
			return fmt.Errorf("failed to reconcile buckets: %w", err)
		}
		result.BucketsRepaired = repaired
		return nil
	})
	g.Go(func() error {
		expired, err := h.store.DeleteExpiredTokens(ctx, h.clock.Now())
		if err != nil {
			return fmt.Errorf("failed to delete expired tokens: %w", err)
		}
		result.TokensExpired = expired
		return nil
	})

	if err := g.Wait(); err != nil {
		return result, err
	}
	if result.BucketsRepaired > 0 || result.TokensExpired > 0 {
		log.Ctx(ctx).Info().Int("buckets", result.BucketsRepaired).Int("tokens", result.TokensExpired).
			Msg("housekeeping repaired store state")
	}
	return result, nil
}
