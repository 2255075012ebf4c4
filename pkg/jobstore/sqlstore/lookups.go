package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
)

func lookupTable(table jobstore.LookupTable) (string, error) {
	for _, t := range jobstore.LookupTables {
		if t == table {
			return string(t), nil
		}
	}
	return "", fmt.Errorf("unknown lookup table %q", table)
}

func (s *Store) Lookup(ctx context.Context, table jobstore.LookupTable, value string) (int64, error) {
	name, err := lookupTable(table)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, "SELECT id FROM "+name+" WHERE value = $1", value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, jobstore.ErrLookupNotFound
	}
	return id, err
}

func (s *Store) InsertLookup(ctx context.Context, table jobstore.LookupTable, value string) (int64, error) {
	name, err := lookupTable(table)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, "INSERT INTO "+name+" (value) VALUES ($1) RETURNING id", value).Scan(&id)
	return id, err
}

func (s *Store) GetJobQuota(ctx context.Context, owner string) (int, bool, error) {
	var limit int
	err := s.db.QueryRowContext(ctx, "SELECT max_unfinished FROM job_quotas WHERE owner = $1", owner).Scan(&limit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return limit, true, nil
}

func (s *Store) SetJobQuota(ctx context.Context, owner string, maxUnfinished int) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO job_quotas (owner, max_unfinished) VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET max_unfinished = excluded.max_unfinished`, owner, maxUnfinished)
	return err
}

// SetUserPriority only affects buckets created afterwards; existing buckets keep the
// priority they were created with.
func (s *Store) SetUserPriority(ctx context.Context, userID int64, priority int) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_priorities (user_id, computed_priority) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET computed_priority = excluded.computed_priority`, userID, priority)
	return err
}
