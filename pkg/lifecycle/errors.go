package lifecycle

import (
	"errors"
	"fmt"

	"github.com/gridqueue/gridbroker/pkg/models"
)

// ErrTransitionRefused is returned when the status machine does not allow a change.
type ErrTransitionRefused struct {
	JobID int64
	From  models.JobStatus
	To    models.JobStatus
}

func NewErrTransitionRefused(id int64, from, to models.JobStatus) ErrTransitionRefused {
	return ErrTransitionRefused{JobID: id, From: from, To: to}
}

func (e ErrTransitionRefused) Error() string {
	return fmt.Sprintf("job %d may not move from %s to %s", e.JobID, e.From, e.To)
}

// ErrNotAuthorized is returned when a principal acts on jobs it does not own.
type ErrNotAuthorized struct {
	Principal string
	Owner     string
}

func NewErrNotAuthorized(principal, owner string) ErrNotAuthorized {
	return ErrNotAuthorized{Principal: principal, Owner: owner}
}

func (e ErrNotAuthorized) Error() string {
	return fmt.Sprintf("%s is not allowed to modify jobs of %s", e.Principal, e.Owner)
}

// ErrQuotaExceeded is returned when an owner would exceed its unfinished job quota.
type ErrQuotaExceeded struct {
	Owner      string
	Limit      int
	Unfinished int
}

func NewErrQuotaExceeded(owner string, limit, unfinished int) ErrQuotaExceeded {
	return ErrQuotaExceeded{Owner: owner, Limit: limit, Unfinished: unfinished}
}

func (e ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("%s has %d unfinished jobs, the quota is %d", e.Owner, e.Unfinished, e.Limit)
}

// ErrInvalidMaster is returned when a subjob names a job that is not a master job.
var ErrInvalidMaster = errors.New("master job is not a split job")
