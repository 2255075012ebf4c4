package sqlstore

import (
	"context"
	"database/sql"
)

func (s *Store) RegisterOutputArtifacts(ctx context.Context, jobID int64, paths []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, path := range paths {
			if _, err := tx.ExecContext(ctx, `INSERT INTO output_artifacts (job_id, path) VALUES ($1, $2)
				ON CONFLICT (job_id, path) DO NOTHING`, jobID, path); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListOutputArtifacts(ctx context.Context, jobID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM output_artifacts WHERE job_id = $1 ORDER BY path", jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err = rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func (s *Store) DeleteOutputArtifacts(ctx context.Context, jobID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM output_artifacts WHERE job_id = $1", jobID)
	return err
}
