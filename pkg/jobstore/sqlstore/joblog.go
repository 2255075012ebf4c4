package sqlstore

import (
	"context"

	"github.com/gridqueue/gridbroker/pkg/models"
)

func (s *Store) AppendJobLog(ctx context.Context, entry models.JobLogEntry) error {
	entry.Time = s.nowOr(entry.Time)
	return appendJobLog(ctx, s.db, entry)
}

func appendJobLog(ctx context.Context, db SQLClient, entry models.JobLogEntry) error {
	_, err := db.ExecContext(ctx, "INSERT INTO job_log (job_id, logged_at, action, message) VALUES ($1, $2, $3, $4)",
		entry.JobID, toMillis(entry.Time), entry.Action, entry.Message)
	return err
}

func (s *Store) GetJobLog(ctx context.Context, jobID int64) ([]models.JobLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT job_id, logged_at, action, message FROM job_log WHERE job_id = $1 ORDER BY id", jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JobLogEntry
	for rows.Next() {
		var (
			entry    models.JobLogEntry
			loggedAt int64
		)
		if err = rows.Scan(&entry.JobID, &loggedAt, &entry.Action, &entry.Message); err != nil {
			return nil, err
		}
		entry.Time = fromMillis(loggedAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
