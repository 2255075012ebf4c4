package notify

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

// StoreNotifier keeps messages in the job store, next to the jobs they refer to.
type StoreNotifier struct {
	store jobstore.Store
	clock clock.Clock
}

func NewStoreNotifier(store jobstore.Store, c clock.Clock) *StoreNotifier {
	if c == nil {
		c = clock.New()
	}
	return &StoreNotifier{store: store, clock: c}
}

func (s *StoreNotifier) Notify(ctx context.Context, msg models.Message) error {
	return s.store.InsertMessage(ctx, msg)
}

func (s *StoreNotifier) Pending(ctx context.Context, host string) ([]models.Message, error) {
	return s.store.PendingMessages(ctx, host, s.clock.Now())
}

// compile-time check whether the StoreNotifier implementation satisfies the interface.
var _ Notifier = (*StoreNotifier)(nil)
