//go:generate mockgen --source types.go --destination mocks.go --package notify
package notify

import (
	"context"

	"github.com/gridqueue/gridbroker/pkg/models"
)

// Notifier delivers fire-and-forget messages to execution hosts. Delivery is best effort:
// a message nobody fetches before it expires is dropped.
type Notifier interface {
	// Notify queues a message for its host. Queueing the same message twice is a no-op.
	Notify(ctx context.Context, msg models.Message) error
	// Pending returns the unexpired messages of a host.
	Pending(ctx context.Context, host string) ([]models.Message, error)
}
