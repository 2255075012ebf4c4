package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/lib/validate"
	"github.com/gridqueue/gridbroker/pkg/models"
)

type SubmitRequest struct {
	Principal models.Principal
	Spec      models.JobSpec
	// SubmitHost is the client host the request came from, if known.
	SubmitHost string
}

// Submit inserts a job and queues it. Split master jobs are parked in SPLIT until their
// subjobs complete; every other job ends up WAITING in the bucket of its signature.
func (m *Manager) Submit(ctx context.Context, request SubmitRequest) (models.Job, error) {
	spec := request.Spec
	if spec.Owner == "" {
		spec.Owner = request.Principal.Name
	}
	if err := errors.Join(
		validate.NotBlank(spec.Owner, "job owner cannot be blank"),
		validate.NotBlank(spec.Executable, "job executable cannot be blank"),
	); err != nil {
		return models.Job{}, err
	}
	if !request.Principal.CanModify(spec.Owner) {
		return models.Job{}, NewErrNotAuthorized(request.Principal.Name, spec.Owner)
	}
	if err := m.checkQuota(ctx, spec.Owner, 1); err != nil {
		return models.Job{}, err
	}

	if spec.MasterJobID > 0 {
		master, err := m.store.GetJob(ctx, spec.MasterJobID)
		if err != nil {
			return models.Job{}, err
		}
		if !master.IsMaster {
			return models.Job{}, fmt.Errorf("job %d: %w", master.ID, ErrInvalidMaster)
		}
	}

	job := models.Job{
		Status:        models.JobStatusInserting,
		Owner:         spec.Owner,
		MasterJobID:   spec.MasterJobID,
		IsMaster:      spec.Split,
		Spec:          spec,
		RemoteTimeout: spec.RemoteWait(),
		Created:       m.clock.Now(),
	}
	if spec.Split {
		job.Status = models.JobStatusSplit
	}

	var err error
	if job.OwnerID, err = m.lookups.GetOrInsert(ctx, jobstore.LookupUsers, spec.Owner); err != nil {
		return models.Job{}, err
	}
	if job.CommandID, err = m.lookups.GetOrInsert(ctx, jobstore.LookupCommands, spec.Executable); err != nil {
		return models.Job{}, err
	}
	if spec.Email != "" {
		if job.NotifyID, err = m.lookups.GetOrInsert(ctx, jobstore.LookupNotify, spec.Email); err != nil {
			return models.Job{}, err
		}
	}
	if request.SubmitHost != "" {
		if job.SubmitHostID, err = m.lookups.GetOrInsert(ctx, jobstore.LookupHosts, request.SubmitHost); err != nil {
			return models.Job{}, err
		}
	}

	err = m.gate.do(ctx, "submit", func(ctx context.Context) error {
		job.ID, err = m.store.CreateJob(ctx, job)
		return err
	})
	if err != nil {
		return models.Job{}, fmt.Errorf("failed to insert job: %w", err)
	}
	log.Ctx(ctx).Debug().Int64("jobID", job.ID).Str("owner", job.Owner).Stringer("status", job.Status).Msg("job inserted")

	if job.Status == models.JobStatusInserting {
		_, err = m.SetStatus(ctx, StatusChange{
			JobID:          job.ID,
			NewStatus:      models.JobStatusWaiting,
			ExpectedStatus: models.JobStatusInserting,
		})
		if err != nil {
			return models.Job{}, err
		}
	}
	return m.store.GetJob(ctx, job.ID)
}
