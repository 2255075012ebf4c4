package jobstore

import (
	"errors"
	"fmt"

	"github.com/gridqueue/gridbroker/pkg/models"
)

// ErrNoJobAvailable is returned by ClaimJob when the bucket holds no claimable job,
// typically because a concurrent poller claimed the last one.
var ErrNoJobAvailable = errors.New("no job available in bucket")

// ErrNoMatchingBucket is returned by FindBucket when no bucket satisfies the query.
var ErrNoMatchingBucket = errors.New("no matching bucket")

// ErrLookupNotFound is returned when a dictionary value has no id yet.
var ErrLookupNotFound = errors.New("lookup value not found")

// ErrJobNotFound is returned when the job is not found
type ErrJobNotFound struct {
	JobID int64
}

func NewErrJobNotFound(id int64) ErrJobNotFound {
	return ErrJobNotFound{JobID: id}
}

func (e ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %d", e.JobID)
}

// ErrBucketNotFound is returned when the capability bucket is not found
type ErrBucketNotFound struct {
	BucketID int64
}

func NewErrBucketNotFound(id int64) ErrBucketNotFound {
	return ErrBucketNotFound{BucketID: id}
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("bucket not found: %d", e.BucketID)
}

// ErrTokenNotFound is returned when a job has no execution token
type ErrTokenNotFound struct {
	JobID int64
}

func NewErrTokenNotFound(id int64) ErrTokenNotFound {
	return ErrTokenNotFound{JobID: id}
}

func (e ErrTokenNotFound) Error() string {
	return fmt.Sprintf("token not found for job %d", e.JobID)
}

// ErrSiteQueueNotFound is returned when a CE has no queue record
type ErrSiteQueueNotFound struct {
	CE string
}

func NewErrSiteQueueNotFound(ce string) ErrSiteQueueNotFound {
	return ErrSiteQueueNotFound{CE: ce}
}

func (e ErrSiteQueueNotFound) Error() string {
	return "site queue not found: " + e.CE
}

// ErrInvalidJobState is returned when a job is not in the status a conditional update expected.
type ErrInvalidJobState struct {
	JobID    int64
	Actual   models.JobStatus
	Expected models.JobStatus
}

func NewErrInvalidJobState(id int64, actual models.JobStatus, expected models.JobStatus) ErrInvalidJobState {
	return ErrInvalidJobState{JobID: id, Actual: actual, Expected: expected}
}

func (e ErrInvalidJobState) Error() string {
	return fmt.Sprintf("job %d is in state %s but expected %s", e.JobID, e.Actual, e.Expected)
}

// ErrMissingRequirements is returned when a job enters WAITING without a signature to link it with.
type ErrMissingRequirements struct {
	JobID int64
}

func NewErrMissingRequirements(id int64) ErrMissingRequirements {
	return ErrMissingRequirements{JobID: id}
}

func (e ErrMissingRequirements) Error() string {
	return fmt.Sprintf("job %d cannot be linked to a bucket without requirements", e.JobID)
}

// IsNotFound reports whether err is one of the not found errors of this package.
func IsNotFound(err error) bool {
	var jobErr ErrJobNotFound
	var bucketErr ErrBucketNotFound
	var tokenErr ErrTokenNotFound
	var queueErr ErrSiteQueueNotFound
	return errors.As(err, &jobErr) || errors.As(err, &bucketErr) ||
		errors.As(err, &tokenErr) || errors.As(err, &queueErr) ||
		errors.Is(err, ErrLookupNotFound)
}

// IsConcurrentUpdate reports whether err means another caller changed the job first.
func IsConcurrentUpdate(err error) bool {
	var stateErr ErrInvalidJobState
	return errors.As(err, &stateErr)
}

// ErrInvalidJobSpec is returned when the stored description of a job cannot be decoded.
type ErrInvalidJobSpec struct {
	JobID int64
	Err   error
}

func NewErrInvalidJobSpec(id int64, err error) ErrInvalidJobSpec {
	return ErrInvalidJobSpec{JobID: id, Err: err}
}

func (e ErrInvalidJobSpec) Error() string {
	return fmt.Sprintf("invalid spec for job %d: %v", e.JobID, e.Err)
}

func (e ErrInvalidJobSpec) Unwrap() error {
	return e.Err
}
