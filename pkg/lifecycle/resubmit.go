package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
	"github.com/gridqueue/gridbroker/pkg/telemetry"
)

func resubmitResult(code models.ResubmitCode, format string, args ...any) models.ResubmitResult {
	return models.ResubmitResult{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Resubmit resets a job so that it runs again. Failures are reported in the result code
// rather than as an error, matching what clients of the queue expect.
func (m *Manager) Resubmit(ctx context.Context, principal models.Principal, jobID int64) models.ResubmitResult {
	ctx, span := telemetry.NewSpan(ctx, "lifecycle", "Resubmit", attribute.Int64("jobID", jobID))
	defer span.End()

	result := m.resubmit(ctx, principal, jobID)
	resubmissions.Inc(ctx, attribute.String("code", result.Code.String()))
	if !result.OK() {
		span.SetAttributes(attribute.String("code", result.Code.String()))
		log.Ctx(ctx).Info().Int64("jobID", jobID).Str("principal", principal.Name).
			Stringer("code", result.Code).Msg(result.Message)
	}
	return result
}

func (m *Manager) resubmit(ctx context.Context, principal models.Principal, jobID int64) models.ResubmitResult {
	// the owner is checked before any lookup failure is reported, so callers that may not
	// touch the job cannot tell missing jobs from damaged ones
	job, err := m.store.GetJob(ctx, jobID)
	var specErr jobstore.ErrInvalidJobSpec
	switch {
	case jobstore.IsNotFound(err):
		if !principal.HasRole(models.RoleAdmin) {
			return resubmitResult(models.ResubmitNotAuthorized, "%s is not allowed to resubmit job %d",
				principal.Name, jobID)
		}
		return resubmitResult(models.ResubmitNotFound, "job %d does not exist", jobID)
	case errors.As(err, &specErr):
		if !principal.CanModify(job.Owner) {
			return resubmitResult(models.ResubmitNotAuthorized, "%s is not allowed to resubmit job %d",
				principal.Name, jobID)
		}
		return resubmitResult(models.ResubmitSpecReload, "cannot reload the description of job %d: %s", jobID, err)
	case err != nil:
		return resubmitResult(models.ResubmitUnavailable, "cannot read job %d: %s", jobID, err)
	}

	if !principal.CanModify(job.Owner) {
		return resubmitResult(models.ResubmitNotAuthorized, "%s is not allowed to resubmit job %d of %s",
			principal.Name, jobID, job.Owner)
	}

	if job.Status.IsFinal() {
		var quotaErr ErrQuotaExceeded
		if err = m.checkQuota(ctx, job.Owner, 1); errors.As(err, &quotaErr) {
			return resubmitResult(models.ResubmitQuota, "%s", err)
		} else if err != nil {
			return resubmitResult(models.ResubmitUnavailable, "%s", err)
		}
	}

	target := models.JobStatusWaiting
	if job.IsMaster {
		if !job.Status.IsError() {
			return resubmitResult(models.ResubmitBadState, "master job %d is %s and cannot be resubmitted", jobID, job.Status)
		}
		target = models.JobStatusInserting
	} else if job.Status == models.JobStatusErrorI {
		target = models.JobStatusInserting
	}

	if err = m.tokens.Destroy(ctx, job.ID); err != nil {
		return resubmitResult(models.ResubmitTokenCleanup, "cannot destroy the token of job %d: %s", jobID, err)
	}

	request := jobstore.ResubmitRequest{
		JobID:        job.ID,
		Condition:    jobstore.UpdateJobCondition{ExpectedStatus: job.Status},
		TargetStatus: target,
		Now:          m.clock.Now(),
	}
	if target == models.JobStatusWaiting {
		requirements := job.Spec.Requirements(job.OwnerID)
		request.Requirements = &requirements
	}
	err = m.gate.do(ctx, "resubmit", func(ctx context.Context) error {
		_, err := m.store.ResubmitJob(ctx, request)
		return err
	})
	switch {
	case jobstore.IsConcurrentUpdate(err):
		return resubmitResult(models.ResubmitBadState, "job %d changed while resubmitting: %s", jobID, err)
	case jobstore.IsNotFound(err):
		return resubmitResult(models.ResubmitNotFound, "job %d does not exist", jobID)
	case err != nil:
		return resubmitResult(models.ResubmitUnavailable, "cannot resubmit job %d: %s", jobID, err)
	}

	if job.Status.WasDispatched() && job.ExecHost != "" {
		m.notifyAsync(telemetry.NewDetachedContext(ctx), models.NewKillMessage(
			job.ExecHost, job.ID, job.Resubmission, m.clock.Now().Add(ResubmitNotificationTTL)))
	}

	if err = m.cleanOutput(ctx, job.ID); err != nil {
		return resubmitResult(models.ResubmitOutputCleanup, "job %d was resubmitted but its output was not removed: %s",
			jobID, err)
	}
	return resubmitResult(models.ResubmitOK, "job %d resubmitted to %s", jobID, target)
}

func (m *Manager) cleanOutput(ctx context.Context, jobID int64) error {
	paths, err := m.store.ListOutputArtifacts(ctx, jobID)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	if err = m.cleaner.Clean(ctx, paths); err != nil {
		return err
	}
	return m.store.DeleteOutputArtifacts(ctx, jobID)
}
