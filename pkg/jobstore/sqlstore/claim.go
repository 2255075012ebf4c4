package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

// ClaimJob assigns the oldest WAITING job of a bucket to the requesting worker. The
// selection and the status change happen in one statement guarded by the WAITING status,
// so concurrent claimers of the same bucket never receive the same job: the loser sees
// no row and gets ErrNoJobAvailable.
func (s *Store) ClaimJob(ctx context.Context, request jobstore.ClaimRequest) (models.Job, error) {
	now := s.nowOr(request.Now)
	waiting := models.JobStatusWaiting.String()

	a := &args{}
	statusArg := a.add(models.JobStatusAssigned.String())
	siteArg := a.add(request.Site)
	hostArg := a.add(request.ExecHost)
	mtimeArg := a.add(toMillis(now))
	selectJob := "SELECT id FROM jobs WHERE bucket_id = " + a.add(request.BucketID) +
		" AND status = " + a.add(waiting)
	if request.Remote {
		selectJob += " AND " + mtimeArg + " - mtime >= COALESCE(remote_timeout, " +
			a.add(request.DefaultRemoteTimeout.Milliseconds()) + ")"
	}
	selectJob += " ORDER BY id LIMIT 1" + s.dialect.claimLock
	query := "UPDATE jobs SET status = " + statusArg + ", site = " + siteArg + ", exec_host = " + hostArg +
		", bucket_id = NULL, mtime = " + mtimeArg +
		" WHERE id = (" + selectJob + ") AND status = " + a.add(waiting) + " RETURNING id"

	var job models.Job
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var jobID int64
		err := tx.QueryRowContext(ctx, query, a.values...).Scan(&jobID)
		if errors.Is(err, sql.ErrNoRows) {
			return jobstore.ErrNoJobAvailable
		}
		if err != nil {
			return fmt.Errorf("failed to claim job from bucket %d: %w", request.BucketID, err)
		}

		if _, err = tx.ExecContext(ctx, "UPDATE buckets SET oldest_job_id = $1 WHERE id = $2 AND oldest_job_id < $1",
			jobID, request.BucketID); err != nil {
			return err
		}
		if err = refreshBucket(ctx, tx, request.BucketID); err != nil {
			return err
		}

		job, err = getJob(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if err = moveSiteCounters(ctx, tx, models.UnassignedSite, models.JobStatusWaiting,
			job.CounterSite(), models.JobStatusAssigned); err != nil {
			return err
		}
		return appendJobLog(ctx, tx, models.JobLogEntry{
			JobID:   jobID,
			Time:    now,
			Action:  models.JobLogActionState,
			Message: "Job ASSIGNED to: " + request.CE,
		})
	})
	return job, err
}
