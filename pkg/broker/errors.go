package broker

import "fmt"

// ErrTokenIssuance is returned when a job was claimed but no execution token could be
// issued for it. The job is moved to ERROR_A.
type ErrTokenIssuance struct {
	JobID int64
	Err   error
}

func NewErrTokenIssuance(jobID int64, err error) ErrTokenIssuance {
	return ErrTokenIssuance{JobID: jobID, Err: err}
}

func (e ErrTokenIssuance) Error() string {
	return fmt.Sprintf("failed to issue the token of job %d: %s", e.JobID, e.Err)
}

func (e ErrTokenIssuance) Unwrap() error {
	return e.Err
}
