// Package lifecycle applies status changes, kills, resubmissions and submissions to jobs,
// enforcing the status machine, ownership and quotas on top of the job store.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/lib/validate"
	"github.com/gridqueue/gridbroker/pkg/lookup"
	"github.com/gridqueue/gridbroker/pkg/models"
	"github.com/gridqueue/gridbroker/pkg/notify"
	"github.com/gridqueue/gridbroker/pkg/output"
)

const (
	// KillNotificationTTL bounds how long a kill message waits for a killed job's host.
	KillNotificationTTL = 300 * time.Second
	// ResubmitNotificationTTL bounds how long a kill message waits for the host of a
	// resubmitted run.
	ResubmitNotificationTTL = 3 * time.Hour
)

// TokenRevoker destroys the execution token of a job.
type TokenRevoker interface {
	Destroy(ctx context.Context, jobID int64) error
}

type ManagerParams struct {
	Store    jobstore.Store
	Lookups  *lookup.Cache
	Tokens   TokenRevoker
	Notifier notify.Notifier
	// Cleaner removes output artifacts of resubmitted jobs. Defaults to a no-op.
	Cleaner output.Cleaner
	Clock   clock.Clock
	Gate    GateParams
}

func (p ManagerParams) Validate() error {
	return errors.Join(
		validate.NotNil(p.Store, "store cannot be nil"),
		validate.NotNil(p.Lookups, "lookup cache cannot be nil"),
		validate.NotNil(p.Tokens, "token revoker cannot be nil"),
	)
}

// Manager is the single entry point for job mutations outside of matching.
type Manager struct {
	store    jobstore.Store
	lookups  *lookup.Cache
	tokens   TokenRevoker
	notifier notify.Notifier
	cleaner  output.Cleaner
	clock    clock.Clock
	gate     *gate

	// notifications tracks messages still being delivered in the background
	notifications sync.WaitGroup
}

func NewManager(params ManagerParams) (*Manager, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		store:    params.Store,
		lookups:  params.Lookups,
		tokens:   params.Tokens,
		notifier: params.Notifier,
		cleaner:  params.Cleaner,
		clock:    params.Clock,
		gate:     newGate(params.Gate),
	}
	if m.cleaner == nil {
		m.cleaner = output.NoopCleaner{}
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	return m, nil
}

// Wait blocks until every background notification has been handed to the notifier.
func (m *Manager) Wait() {
	m.notifications.Wait()
}

// notifyAsync queues msg without holding up the caller. Failures are only logged.
func (m *Manager) notifyAsync(ctx context.Context, msg models.Message) {
	if m.notifier == nil {
		return
	}
	m.notifications.Add(1)
	go func() {
		defer m.notifications.Done()
		if err := m.notifier.Notify(ctx, msg); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("target", msg.Target).Msg("failed to send kill notification")
		}
	}()
}

func (m *Manager) logFailure(ctx context.Context, jobID int64, message string) {
	err := m.store.AppendJobLog(ctx, models.JobLogEntry{
		JobID:   jobID,
		Time:    m.clock.Now(),
		Action:  models.JobLogActionState,
		Message: "FAILED: " + message,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("jobID", jobID).Msg("failed to append job trace")
	}
}
