// Package matcher translates a worker capability snapshot into capability bucket queries.
package matcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/lookup"
	"github.com/gridqueue/gridbroker/pkg/models"
)

const DefaultRemoteRefresh = time.Minute

// Mode selects between local matching, which honours site constraints, and remote
// matching, which only considers jobs that waited past their remote timeout.
type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

type MatcherParams struct {
	Store jobstore.Store
	Users *lookup.Cache
	Clock clock.Clock
	// RemoteTimeout applies to jobs without their own remote timeout.
	RemoteTimeout time.Duration
	// RemoteRefresh bounds how often the remote eligible set is recomputed.
	RemoteRefresh time.Duration
}

// Matcher finds the best bucket for a worker.
type Matcher struct {
	store         jobstore.Store
	users         *lookup.Cache
	clock         clock.Clock
	remoteTimeout time.Duration
	remoteRefresh time.Duration

	mu            sync.Mutex
	remoteBuckets []int64
	remoteExpiry  time.Time
}

func NewMatcher(params MatcherParams) *Matcher {
	m := &Matcher{
		store:         params.Store,
		users:         params.Users,
		clock:         params.Clock,
		remoteTimeout: params.RemoteTimeout,
		remoteRefresh: params.RemoteRefresh,
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	if m.remoteTimeout <= 0 {
		m.remoteTimeout = models.DefaultRemoteTimeout
	}
	if m.remoteRefresh <= 0 {
		m.remoteRefresh = DefaultRemoteRefresh
	}
	return m
}

// RemoteTimeout is the remote eligibility timeout of jobs that do not set their own.
func (m *Matcher) RemoteTimeout() time.Duration {
	return m.remoteTimeout
}

// FindBucket returns the best bucket whose jobs the worker can run as it is.
func (m *Matcher) FindBucket(ctx context.Context, w models.WorkerSnapshot, mode Mode) (models.Bucket, error) {
	query, err := m.Query(ctx, w, mode)
	if err != nil {
		return models.Bucket{}, err
	}
	return m.store.FindBucket(ctx, query)
}

// FindPackages returns the packages the worker is missing for the best bucket it could
// run once they are installed. It returns jobstore.ErrNoMatchingBucket when no bucket
// matches even without package requirements.
func (m *Matcher) FindPackages(ctx context.Context, w models.WorkerSnapshot, mode Mode) ([]string, error) {
	query, err := m.Query(ctx, w, mode)
	if err != nil {
		return nil, err
	}
	query.SkipPackages = true
	bucket, err := m.store.FindBucket(ctx, query)
	if err != nil {
		return nil, err
	}
	missing := models.MissingPackages(bucket.Packages, w.InstalledPackages)
	if len(missing) == 0 {
		// the exact tier raced with a claim; there is nothing to install
		log.Ctx(ctx).Debug().Int64("BucketID", bucket.ID).Msg("bucket became runnable without installing packages")
		return nil, jobstore.ErrNoMatchingBucket
	}
	return missing, nil
}

// Query builds the bucket predicate for a snapshot.
func (m *Matcher) Query(ctx context.Context, w models.WorkerSnapshot, mode Mode) (jobstore.BucketQuery, error) {
	query := jobstore.BucketQuery{
		TTL:                w.TTL,
		Disk:               w.Disk,
		CPUCores:           w.CPUCores,
		Sites:              w.AllSites(),
		IgnoreSites:        mode == ModeRemote,
		Packages:           w.PackageCSV(),
		SkipPackages:       w.OnDemandImage,
		CE:                 w.CE,
		EnforceCEAllowList: mode == ModeLocal,
		Partitions:         w.PartitionCSV(),
	}

	if len(w.Users) > 0 {
		ids := m.resolveUsers(ctx, w.Users)
		if len(ids) == 0 {
			return query, jobstore.ErrNoMatchingBucket
		}
		query.AllowUsers = ids
	}
	query.DenyUsers = m.resolveUsers(ctx, w.NoUsers)

	if expr := strings.TrimSpace(w.RequiredCPUs); expr != "" {
		parsed, err := models.ParseCPUExpression(expr)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("CE", w.CE).Msg("ignoring malformed cpu expression")
		} else {
			query.CPUExpr = &parsed
		}
	}

	if mode == ModeRemote {
		ids, err := m.remoteEligible(ctx)
		if err != nil {
			return query, err
		}
		query.RestrictToBuckets = true
		query.BucketIDs = ids
	}
	return query, nil
}

// resolveUsers maps account names to ids. Names that were never seen cannot own a bucket
// and are dropped.
func (m *Matcher) resolveUsers(ctx context.Context, names []string) []int64 {
	var ids []int64
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, err := m.users.Get(ctx, jobstore.LookupUsers, name)
		if err != nil {
			if !errors.Is(err, jobstore.ErrLookupNotFound) {
				log.Ctx(ctx).Warn().Err(err).Str("user", name).Msg("failed to resolve user")
			}
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// remoteEligible returns the buckets holding jobs that waited past their remote timeout.
// The set is recomputed at most once per refresh interval.
func (m *Matcher) remoteEligible(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if now.Before(m.remoteExpiry) {
		return m.remoteBuckets, nil
	}
	ids, err := m.store.RemoteEligibleBuckets(ctx, now, m.remoteTimeout)
	if err != nil {
		return nil, err
	}
	m.remoteBuckets = ids
	m.remoteExpiry = now.Add(m.remoteRefresh)
	log.Ctx(ctx).Debug().Int("buckets", len(ids)).Msg("refreshed remote eligible buckets")
	return ids, nil
}
