package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

const jobColumns = `id, status, resubmission, owner, user_id, bucket_id, site, exec_host, output_path, spy_url,
	master_job_id, is_master, priority, command_id, notify_id, submit_host_id, spec, remote_timeout,
	created, started, finished, mtime`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (models.Job, error) {
	var (
		job                             models.Job
		status, spec                    string
		bucketID, remoteTimeout         sql.NullInt64
		isMaster                        int
		created, started, finished, mod int64
	)
	err := row.Scan(&job.ID, &status, &job.Resubmission, &job.Owner, &job.OwnerID, &bucketID, &job.Site,
		&job.ExecHost, &job.OutputPath, &job.SpyURL, &job.MasterJobID, &isMaster, &job.Priority,
		&job.CommandID, &job.NotifyID, &job.SubmitHostID, &spec, &remoteTimeout,
		&created, &started, &finished, &mod)
	if err != nil {
		return job, err
	}
	if job.Status, err = models.ParseJobStatus(status); err != nil {
		return job, err
	}
	if err = json.Unmarshal([]byte(spec), &job.Spec); err != nil {
		return job, jobstore.NewErrInvalidJobSpec(job.ID, err)
	}
	job.BucketID = bucketID.Int64
	job.IsMaster = isMaster != 0
	if remoteTimeout.Valid {
		job.RemoteTimeout = time.Duration(remoteTimeout.Int64) * time.Millisecond
	}
	job.Created = fromMillis(created)
	job.Started = fromMillis(started)
	job.Finished = fromMillis(finished)
	job.Modified = fromMillis(mod)
	return job, nil
}

func getJob(ctx context.Context, db SQLClient, id int64) (models.Job, error) {
	row := db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return job, jobstore.NewErrJobNotFound(id)
	}
	return job, err
}

func (s *Store) CreateJob(ctx context.Context, job models.Job) (int64, error) {
	spec, err := json.Marshal(job.Spec)
	if err != nil {
		return 0, fmt.Errorf("failed to encode job spec: %w", err)
	}
	now := s.nowOr(job.Created)
	var remoteTimeout interface{}
	if job.RemoteTimeout > 0 {
		remoteTimeout = job.RemoteTimeout.Milliseconds()
	}
	isMaster := 0
	if job.IsMaster {
		isMaster = 1
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `INSERT INTO jobs (status, resubmission, owner, user_id, master_job_id,
			is_master, priority, command_id, notify_id, submit_host_id, spec, remote_timeout, created, mtime)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) RETURNING id`,
			job.Status.String(), job.Resubmission, job.Owner, job.OwnerID, job.MasterJobID, isMaster,
			job.Priority, job.CommandID, job.NotifyID, job.SubmitHostID, string(spec), remoteTimeout,
			toMillis(now)).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert job: %w", err)
		}
		if err = adjustSiteCounter(ctx, tx, models.UnassignedSite, job.Status, 1); err != nil {
			return err
		}
		return appendJobLog(ctx, tx, models.JobLogEntry{
			JobID:   id,
			Time:    now,
			Action:  models.JobLogActionState,
			Message: "Job inserted in state " + job.Status.String(),
		})
	})
	return id, err
}

func (s *Store) GetJob(ctx context.Context, id int64) (models.Job, error) {
	return getJob(ctx, s.db, id)
}

func (s *Store) GetSubjobs(ctx context.Context, masterID int64) ([]models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE master_job_id = $1 ORDER BY id", masterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *Store) CountUnfinishedJobs(ctx context.Context, owner string) (int, error) {
	a := &args{}
	query := "SELECT COUNT(*) FROM jobs WHERE owner = " + a.add(owner) +
		" AND status NOT IN (" + a.list(statusValues(models.FinalStatuses())) + ")"
	var count int
	err := s.db.QueryRowContext(ctx, query, a.values...).Scan(&count)
	return count, err
}

func (s *Store) ClearJobOutput(ctx context.Context, jobID int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE jobs SET output_path = '' WHERE id = $1", jobID)
	if err != nil {
		return err
	}
	return expectOneRow(res, jobstore.NewErrJobNotFound(jobID))
}

func (s *Store) UpdateJobStatus(ctx context.Context, request jobstore.UpdateStatusRequest) (models.Job, error) {
	now := s.nowOr(request.Now)
	var previous models.Job
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		job, err := getJob(ctx, tx, request.JobID)
		if err != nil {
			return err
		}
		if err = request.Condition.Validate(job); err != nil {
			return err
		}
		previous = job
		return s.applyStatus(ctx, tx, job, request, now)
	})
	return previous, err
}

// applyStatus writes the new status of job and every side effect of the transition.
func (s *Store) applyStatus(
	ctx context.Context, tx *sql.Tx, job models.Job, request jobstore.UpdateStatusRequest, now time.Time) error {
	newStatus := request.NewStatus
	enteringWaiting := newStatus == models.JobStatusWaiting && job.Status != models.JobStatusWaiting
	if enteringWaiting && request.Requirements == nil {
		return jobstore.NewErrMissingRequirements(job.ID)
	}
	leavingBucket := job.BucketID != 0 && newStatus != models.JobStatusWaiting

	a := &args{}
	sets := []string{
		"status = " + a.add(newStatus.String()),
		"mtime = " + a.add(toMillis(now)),
	}
	if newStatus == models.JobStatusKilled || newStatus == models.JobStatusErrorEW {
		sets = append(sets, "resubmission = resubmission + 1")
	}
	if (newStatus == models.JobStatusStarted || newStatus == models.JobStatusRunning) && job.Started.IsZero() {
		sets = append(sets, "started = "+a.add(toMillis(now)))
	}
	if newStatus.IsFinal() {
		sets = append(sets, "finished = "+a.add(toMillis(now)), "spy_url = ''")
	} else if request.SpyURL != nil {
		sets = append(sets, "spy_url = "+a.add(*request.SpyURL))
	}
	if request.ExecHost != nil {
		sets = append(sets, "exec_host = "+a.add(*request.ExecHost))
	}
	if request.OutputPath != nil {
		sets = append(sets, "output_path = "+a.add(*request.OutputPath))
	}
	if leavingBucket {
		sets = append(sets, "bucket_id = NULL")
	}

	query := "UPDATE jobs SET " + strings.Join(sets, ", ") +
		" WHERE id = " + a.add(job.ID) + " AND status = " + a.add(job.Status.String())
	res, err := tx.ExecContext(ctx, query, a.values...)
	if err != nil {
		return fmt.Errorf("failed to update status of job %d: %w", job.ID, err)
	}
	if err = expectOneRow(res, jobstore.NewErrInvalidJobState(job.ID, job.Status, request.Condition.ExpectedStatus)); err != nil {
		return err
	}

	if leavingBucket {
		if err = refreshBucket(ctx, tx, job.BucketID); err != nil {
			return err
		}
	}
	if enteringWaiting {
		if _, err = linkBucket(ctx, tx, job.ID, *request.Requirements); err != nil {
			return err
		}
	}
	if newStatus.DestroysToken() {
		if err = deleteToken(ctx, tx, job.ID); err != nil {
			return err
		}
	}
	if err = moveSiteCounters(ctx, tx, job.CounterSite(), job.Status, job.CounterSite(), newStatus); err != nil {
		return err
	}

	message := fmt.Sprintf("Job state transition from %s to %s", job.Status, newStatus)
	if request.Comment != "" {
		message += ": " + request.Comment
	}
	if err = appendJobLog(ctx, tx, models.JobLogEntry{
		JobID: job.ID, Time: now, Action: models.JobLogActionState, Message: message,
	}); err != nil {
		return err
	}

	if job.IsSubjob() && newStatus.IsFinal() {
		return completeMaster(ctx, tx, job.MasterJobID, now)
	}
	return nil
}

// completeMaster moves a split master job to DONE once none of its subjobs is left running.
func completeMaster(ctx context.Context, tx *sql.Tx, masterID int64, now time.Time) error {
	a := &args{}
	query := "SELECT COUNT(*) FROM jobs WHERE master_job_id = " + a.add(masterID) +
		" AND status NOT IN (" + a.list(statusValues(models.FinalStatuses())) + ")"
	var remaining int
	if err := tx.QueryRowContext(ctx, query, a.values...).Scan(&remaining); err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}

	master, err := getJob(ctx, tx, masterID)
	if err != nil {
		if jobstore.IsNotFound(err) {
			return nil
		}
		return err
	}
	if master.Status != models.JobStatusSplit {
		return nil
	}
	res, err := tx.ExecContext(ctx, "UPDATE jobs SET status = $1, finished = $2, mtime = $2 WHERE id = $3 AND status = $4",
		models.JobStatusDone.String(), toMillis(now), masterID, models.JobStatusSplit.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	if err = moveSiteCounters(ctx, tx, master.CounterSite(), master.Status, master.CounterSite(), models.JobStatusDone); err != nil {
		return err
	}
	return appendJobLog(ctx, tx, models.JobLogEntry{
		JobID:   masterID,
		Time:    now,
		Action:  models.JobLogActionState,
		Message: fmt.Sprintf("Job state transition from %s to %s: all subjobs finished", models.JobStatusSplit, models.JobStatusDone),
	})
}

func (s *Store) ResubmitJob(ctx context.Context, request jobstore.ResubmitRequest) (models.Job, error) {
	now := s.nowOr(request.Now)
	target := request.TargetStatus
	if target == models.JobStatusWaiting && request.Requirements == nil {
		return models.Job{}, jobstore.NewErrMissingRequirements(request.JobID)
	}

	var updated models.Job
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		job, err := getJob(ctx, tx, request.JobID)
		if err != nil {
			return err
		}
		if err = request.Condition.Validate(job); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `UPDATE jobs SET status = $1, resubmission = resubmission + 1,
			started = 0, finished = 0, exec_host = '', site = '', output_path = '', spy_url = '',
			bucket_id = NULL, mtime = $2 WHERE id = $3 AND status = $4`,
			target.String(), toMillis(now), job.ID, job.Status.String())
		if err != nil {
			return fmt.Errorf("failed to reset job %d: %w", job.ID, err)
		}
		if err = expectOneRow(res, jobstore.NewErrInvalidJobState(job.ID, job.Status, request.Condition.ExpectedStatus)); err != nil {
			return err
		}

		if job.BucketID != 0 {
			if err = refreshBucket(ctx, tx, job.BucketID); err != nil {
				return err
			}
		}
		if target == models.JobStatusWaiting {
			if _, err = linkBucket(ctx, tx, job.ID, *request.Requirements); err != nil {
				return err
			}
		}
		if err = moveSiteCounters(ctx, tx, job.CounterSite(), job.Status, models.UnassignedSite, target); err != nil {
			return err
		}
		if job.IsSubjob() {
			if err = reopenMaster(ctx, tx, job.MasterJobID, now); err != nil {
				return err
			}
		}
		if err = appendJobLog(ctx, tx, models.JobLogEntry{
			JobID:   job.ID,
			Time:    now,
			Action:  models.JobLogActionResubmit,
			Message: fmt.Sprintf("Job resubmitted (back to %s)", target),
		}); err != nil {
			return err
		}

		updated, err = getJob(ctx, tx, job.ID)
		return err
	})
	return updated, err
}

// reopenMaster puts the master of a resubmitted subjob back to SPLIT, the status of a master
// with active children.
func reopenMaster(ctx context.Context, tx *sql.Tx, masterID int64, now time.Time) error {
	master, err := getJob(ctx, tx, masterID)
	if err != nil {
		return fmt.Errorf("failed to load master job %d: %w", masterID, err)
	}
	if master.Status == models.JobStatusSplit {
		return nil
	}
	res, err := tx.ExecContext(ctx, "UPDATE jobs SET status = $1, finished = 0, mtime = $2 WHERE id = $3 AND status = $4",
		models.JobStatusSplit.String(), toMillis(now), masterID, master.Status.String())
	if err != nil {
		return err
	}
	if err = expectOneRow(res, jobstore.NewErrInvalidJobState(masterID, master.Status, master.Status)); err != nil {
		return err
	}
	if err = moveSiteCounters(ctx, tx, master.CounterSite(), master.Status, master.CounterSite(), models.JobStatusSplit); err != nil {
		return err
	}
	return appendJobLog(ctx, tx, models.JobLogEntry{
		JobID:   masterID,
		Time:    now,
		Action:  models.JobLogActionState,
		Message: fmt.Sprintf("Job state transition from %s to %s: subjob resubmitted", master.Status, models.JobStatusSplit),
	})
}

func statusValues(statuses []models.JobStatus) []interface{} {
	values := make([]interface{}, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}
	return values
}

// expectOneRow turns an update that touched no row into notFound.
func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
