package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
)

const (
	DefaultMaxConcurrent  = 10
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = time.Second
)

type GateParams struct {
	// MaxConcurrent bounds the status mutations running at the same time.
	MaxConcurrent int64
	// MaxAttempts is the number of tries of a mutation failing with a transient error.
	MaxAttempts    uint64
	InitialBackoff time.Duration
}

// gate bounds concurrent status mutations and retries them on transient store failures.
type gate struct {
	sem            *semaphore.Weighted
	maxAttempts    uint64
	initialBackoff time.Duration
}

func newGate(params GateParams) *gate {
	if params.MaxConcurrent <= 0 {
		params.MaxConcurrent = DefaultMaxConcurrent
	}
	if params.MaxAttempts == 0 {
		params.MaxAttempts = DefaultMaxAttempts
	}
	if params.InitialBackoff <= 0 {
		params.InitialBackoff = DefaultInitialBackoff
	}
	return &gate{
		sem:            semaphore.NewWeighted(params.MaxConcurrent),
		maxAttempts:    params.MaxAttempts,
		initialBackoff: params.InitialBackoff,
	}
}

func (g *gate) do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.initialBackoff
	policy.MaxElapsedTime = 0

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn(ctx)
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, g.maxAttempts-1), ctx),
		func(err error, next time.Duration) {
			log.Ctx(ctx).Warn().Err(err).Str("operation", operation).Int("attempt", attempt).
				Dur("retryIn", next).Msg("transient store failure")
		})
}

// isTransient reports whether retrying the same mutation may succeed.
func isTransient(err error) bool {
	var (
		refused      ErrTransitionRefused
		unauthorized ErrNotAuthorized
		quota        ErrQuotaExceeded
		missing      jobstore.ErrMissingRequirements
		spec         jobstore.ErrInvalidJobSpec
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case jobstore.IsNotFound(err), jobstore.IsConcurrentUpdate(err):
		return false
	case errors.As(err, &refused), errors.As(err, &unauthorized), errors.As(err, &quota),
		errors.As(err, &missing), errors.As(err, &spec), errors.Is(err, ErrInvalidMaster):
		return false
	default:
		return true
	}
}
