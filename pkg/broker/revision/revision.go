// Package revision tracks the platform image revision published on the server side and
// decides whether a worker image is recent enough to receive jobs.
package revision

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRefreshInterval = time.Minute
	DefaultRetryInterval   = 15 * time.Second
	DefaultGracePeriod     = time.Hour
)

// Source reads the current server revision.
type Source interface {
	Revision(ctx context.Context) (int, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (int, error)

func (f SourceFunc) Revision(ctx context.Context) (int, error) {
	return f(ctx)
}

// FileSource reads the revision from a file holding a single integer, as published by the
// image distribution system.
type FileSource struct {
	Path string
}

func (f FileSource) Revision(context.Context) (int, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return 0, err
	}
	revision, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid revision in %s: %w", f.Path, err)
	}
	return revision, nil
}

type TrackerParams struct {
	Source          Source
	Clock           clock.Clock
	RefreshInterval time.Duration
	RetryInterval   time.Duration
	GracePeriod     time.Duration
}

// Tracker caches the server revision and remembers when it last increased, so that workers
// one revision behind keep receiving jobs for a grace period after a bump.
type Tracker struct {
	source  Source
	clock   clock.Clock
	refresh time.Duration
	retry   time.Duration
	grace   time.Duration

	mu        sync.Mutex
	revision  int
	bumpedAt  time.Time
	nextCheck time.Time
}

func NewTracker(params TrackerParams) *Tracker {
	t := &Tracker{
		source:  params.Source,
		clock:   params.Clock,
		refresh: params.RefreshInterval,
		retry:   params.RetryInterval,
		grace:   params.GracePeriod,
	}
	if t.clock == nil {
		t.clock = clock.New()
	}
	if t.refresh <= 0 {
		t.refresh = DefaultRefreshInterval
	}
	if t.retry <= 0 {
		t.retry = DefaultRetryInterval
	}
	if t.grace <= 0 {
		t.grace = DefaultGracePeriod
	}
	return t
}

// Current returns the cached server revision, reading the source when the cache is due.
// Zero means the revision is unknown.
func (t *Tracker) Current(ctx context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshLocked(ctx)
	return t.revision
}

func (t *Tracker) refreshLocked(ctx context.Context) {
	now := t.clock.Now()
	if now.Before(t.nextCheck) {
		return
	}
	revision, err := t.source.Revision(ctx)
	if err != nil || revision <= 0 {
		log.Ctx(ctx).Warn().Err(err).Int("revision", revision).Msg("could not read the server image revision")
		t.nextCheck = now.Add(t.retry)
		return
	}
	if revision > t.revision {
		if t.revision > 0 {
			log.Ctx(ctx).Info().Int("from", t.revision).Int("to", revision).Msg("server image revision bumped")
		}
		t.bumpedAt = now
	}
	t.revision = revision
	t.nextCheck = now.Add(t.refresh)
}

// Check returns nil when a worker running the given revision may receive jobs. Workers
// that do not report a revision, or a server revision that is unknown, are never rejected.
func (t *Tracker) Check(ctx context.Context, workerRevision int) error {
	if workerRevision <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshLocked(ctx)

	server := t.revision
	if server <= 0 || workerRevision >= server {
		return nil
	}
	since := t.clock.Since(t.bumpedAt)
	if workerRevision == server-1 && since < t.grace {
		return nil
	}
	return NewErrStaleRevision(workerRevision, server, since)
}

// ErrStaleRevision is returned for workers running an outdated image.
type ErrStaleRevision struct {
	Worker int
	Server int
	Since  time.Duration
}

func NewErrStaleRevision(worker, server int, since time.Duration) ErrStaleRevision {
	return ErrStaleRevision{Worker: worker, Server: server, Since: since}
}

func (e ErrStaleRevision) Error() string {
	return fmt.Sprintf("image revision is outdated %d vs %d (server revision changed %s ago)",
		e.Worker, e.Server, e.Since.Truncate(time.Second))
}
