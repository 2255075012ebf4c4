// Package claimer assigns a WAITING job of a bucket to a worker.
package claimer

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/lookup"
	"github.com/gridqueue/gridbroker/pkg/models"
)

type ClaimerParams struct {
	Store jobstore.Store
	Hosts *lookup.Cache
	Clock clock.Clock
	// RemoteTimeout applies to jobs without their own remote timeout.
	RemoteTimeout time.Duration
}

type Claimer struct {
	store         jobstore.Store
	hosts         *lookup.Cache
	clock         clock.Clock
	remoteTimeout time.Duration
}

func NewClaimer(params ClaimerParams) *Claimer {
	c := &Claimer{
		store:         params.Store,
		hosts:         params.Hosts,
		clock:         params.Clock,
		remoteTimeout: params.RemoteTimeout,
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.remoteTimeout <= 0 {
		c.remoteTimeout = models.DefaultRemoteTimeout
	}
	return c
}

// Claim assigns the oldest WAITING job of the bucket to the worker. Remote claims only take
// jobs that waited past their remote timeout. It returns jobstore.ErrNoJobAvailable when
// another worker emptied the bucket first.
func (c *Claimer) Claim(ctx context.Context, bucketID int64, w models.WorkerSnapshot, remote bool) (models.Job, error) {
	if c.hosts != nil && w.Host != "" {
		if _, err := c.hosts.GetOrInsert(ctx, jobstore.LookupHosts, w.Host); err != nil {
			return models.Job{}, err
		}
	}

	job, err := c.store.ClaimJob(ctx, jobstore.ClaimRequest{
		BucketID:             bucketID,
		CE:                   w.CE,
		Site:                 w.Site,
		ExecHost:             w.Host,
		Remote:               remote,
		DefaultRemoteTimeout: c.remoteTimeout,
		Now:                  c.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, jobstore.ErrNoJobAvailable) {
			log.Ctx(ctx).Debug().Int64("bucket", bucketID).Msg("bucket emptied by a concurrent claim")
		}
		return models.Job{}, err
	}
	log.Ctx(ctx).Debug().Int64("JobID", job.ID).Int64("bucket", bucketID).Bool("remote", remote).
		Msg("claimed job")
	return job, nil
}
