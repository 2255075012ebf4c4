// Package output removes the artifacts a job produced when the job is resubmitted.
package output

import "context"

// Cleaner deletes output artifacts. Paths are the values registered for the job.
type Cleaner interface {
	Clean(ctx context.Context, paths []string) error
}

// NoopCleaner is used when artifacts are not managed by the broker.
type NoopCleaner struct{}

func (NoopCleaner) Clean(context.Context, []string) error {
	return nil
}
