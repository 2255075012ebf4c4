package lifecycle

import (
	"context"
	"fmt"
)

// checkQuota fails when owner may not have n more unfinished jobs.
func (m *Manager) checkQuota(ctx context.Context, owner string, n int) error {
	limit, ok, err := m.store.GetJobQuota(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to read quota of %s: %w", owner, err)
	}
	if !ok {
		return nil
	}
	unfinished, err := m.store.CountUnfinishedJobs(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to count jobs of %s: %w", owner, err)
	}
	if unfinished+n > limit {
		return NewErrQuotaExceeded(owner, limit, unfinished)
	}
	return nil
}
