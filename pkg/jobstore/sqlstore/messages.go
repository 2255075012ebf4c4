package sqlstore

import (
	"context"
	"time"

	"github.com/gridqueue/gridbroker/pkg/models"
)

func (s *Store) InsertMessage(ctx context.Context, msg models.Message) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO messages (target, host, job_id, action, payload, expires)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (target, action, payload) DO NOTHING`,
		msg.Target, msg.Host, msg.JobID, msg.Action, msg.Payload, toMillis(msg.Expires))
	return err
}

func (s *Store) PendingMessages(ctx context.Context, host string, now time.Time) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT target, host, job_id, action, payload, expires FROM messages
		WHERE host = $1 AND expires > $2 ORDER BY id`, host, toMillis(s.nowOr(now)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var (
			msg     models.Message
			expires int64
		)
		if err = rows.Scan(&msg.Target, &msg.Host, &msg.JobID, &msg.Action, &msg.Payload, &expires); err != nil {
			return nil, err
		}
		msg.Expires = fromMillis(expires)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
