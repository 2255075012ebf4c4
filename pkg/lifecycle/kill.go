package lifecycle

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

// Kill moves a job to KILLED on behalf of principal. Killing a master job kills every
// subjob that is not final yet. It returns false when there was nothing to kill.
func (m *Manager) Kill(ctx context.Context, principal models.Principal, jobID int64) (bool, error) {
	job, err := m.store.GetJob(ctx, jobID)
	if err != nil {
		return false, err
	}
	if !principal.CanModify(job.Owner) {
		return false, NewErrNotAuthorized(principal.Name, job.Owner)
	}
	if job.Status.IsFinal() {
		log.Ctx(ctx).Debug().Int64("jobID", jobID).Stringer("status", job.Status).Msg("job already final, not killing")
		return false, nil
	}

	// the master goes first, so that killed subjobs do not complete it as DONE
	if _, err = m.SetStatus(ctx, StatusChange{JobID: job.ID, NewStatus: models.JobStatusKilled}); err != nil {
		return false, fmt.Errorf("failed to kill job %d: %w", job.ID, err)
	}
	if !job.IsMaster {
		return true, nil
	}

	subjobs, err := m.store.GetSubjobs(ctx, job.ID)
	if err != nil {
		return true, fmt.Errorf("failed to list subjobs of %d: %w", job.ID, err)
	}
	var errs *multierror.Error
	for _, subjob := range subjobs {
		if subjob.Status.IsFinal() {
			continue
		}
		if err = m.killSubjob(ctx, subjob); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to kill subjob %d: %w", subjob.ID, err))
		}
	}
	return true, errs.ErrorOrNil()
}

// killSubjob kills a subjob expected in the status it was listed with. A subjob that moved
// on in the meantime is read again and killed once more unless it finished.
func (m *Manager) killSubjob(ctx context.Context, subjob models.Job) error {
	_, err := m.SetStatus(ctx, StatusChange{
		JobID:          subjob.ID,
		NewStatus:      models.JobStatusKilled,
		ExpectedStatus: subjob.Status,
	})
	if !jobstore.IsConcurrentUpdate(err) {
		return err
	}

	current, err := m.store.GetJob(ctx, subjob.ID)
	if err != nil {
		return err
	}
	if current.Status.IsFinal() {
		log.Ctx(ctx).Debug().Int64("jobID", current.ID).Stringer("status", current.Status).
			Msg("subjob finished while killing its master")
		return nil
	}
	_, err = m.SetStatus(ctx, StatusChange{
		JobID:          current.ID,
		NewStatus:      models.JobStatusKilled,
		ExpectedStatus: current.Status,
	})
	return err
}
