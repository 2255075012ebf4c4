package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
	"github.com/gridqueue/gridbroker/pkg/telemetry"
)

// StatusChange asks for a job to move to NewStatus. Optional fields are only written when set.
type StatusChange struct {
	JobID     int64
	NewStatus models.JobStatus
	// ExpectedStatus makes the change conditional on the current status. JobStatusAny
	// accepts whatever status the job has.
	ExpectedStatus models.JobStatus
	ExecHost       *string
	OutputPath     *string
	SpyURL         *string
	Comment        string
}

// SetStatus moves a job to a new status and returns the job as it was before the change.
func (m *Manager) SetStatus(ctx context.Context, change StatusChange) (models.Job, error) {
	ctx, span := telemetry.NewSpan(ctx, "lifecycle", "SetStatus",
		attribute.Int64("jobID", change.JobID), attribute.String("status", change.NewStatus.String()))
	defer span.End()

	var previous models.Job
	err := m.gate.do(ctx, "set-status", func(ctx context.Context) error {
		var err error
		previous, err = m.setStatus(ctx, change)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		statusChangeFailures.Inc(ctx, attribute.String("status", change.NewStatus.String()))
		return models.Job{}, err
	}
	statusChanges.Inc(ctx, attribute.String("status", change.NewStatus.String()))

	if change.NewStatus == models.JobStatusKilled {
		host := previous.ExecHost
		if change.ExecHost != nil && *change.ExecHost != "" {
			host = *change.ExecHost
		}
		if host != "" {
			m.notifyAsync(telemetry.NewDetachedContext(ctx), models.NewKillMessage(
				host, previous.ID, previous.Resubmission, m.clock.Now().Add(KillNotificationTTL)))
		}
	}
	return previous, nil
}

func (m *Manager) setStatus(ctx context.Context, change StatusChange) (models.Job, error) {
	job, err := m.store.GetJob(ctx, change.JobID)
	if err != nil {
		return models.Job{}, err
	}
	transition := fmt.Sprintf("Job state transition from %s to %s", job.Status, change.NewStatus)

	if err = (jobstore.UpdateJobCondition{ExpectedStatus: change.ExpectedStatus}).Validate(job); err != nil {
		m.logFailure(ctx, job.ID, transition)
		return models.Job{}, err
	}
	if !models.CanTransition(job.Status, change.NewStatus, job.IsMaster) {
		m.logFailure(ctx, job.ID, transition)
		return models.Job{}, NewErrTransitionRefused(job.ID, job.Status, change.NewStatus)
	}

	request := jobstore.UpdateStatusRequest{
		JobID:      job.ID,
		Condition:  jobstore.UpdateJobCondition{ExpectedStatus: job.Status},
		NewStatus:  change.NewStatus,
		ExecHost:   change.ExecHost,
		OutputPath: change.OutputPath,
		SpyURL:     change.SpyURL,
		Comment:    change.Comment,
		Now:        m.clock.Now(),
	}
	if change.NewStatus == models.JobStatusWaiting {
		requirements := job.Spec.Requirements(job.OwnerID)
		request.Requirements = &requirements
	}
	if change.ExecHost != nil && *change.ExecHost != "" {
		if _, err = m.lookups.GetOrInsert(ctx, jobstore.LookupHosts, *change.ExecHost); err != nil {
			return models.Job{}, fmt.Errorf("failed to resolve exec host %s: %w", *change.ExecHost, err)
		}
	}

	previous, err := m.store.UpdateJobStatus(ctx, request)
	if err != nil {
		if jobstore.IsConcurrentUpdate(err) {
			m.logFailure(ctx, job.ID, transition)
		}
		return models.Job{}, err
	}
	log.Ctx(ctx).Debug().Int64("jobID", job.ID).Stringer("from", previous.Status).
		Stringer("to", change.NewStatus).Msg("job status changed")
	return previous, nil
}
