package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

func (s *Store) PutToken(ctx context.Context, token models.ExecutionToken) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO job_tokens (job_id, resubmission, owner, credential_id,
		legacy_token, expires_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id) DO UPDATE SET resubmission = excluded.resubmission, owner = excluded.owner,
		credential_id = excluded.credential_id, legacy_token = excluded.legacy_token,
		expires_at = excluded.expires_at`,
		token.JobID, token.Resubmission, token.Owner, token.CredentialID, token.LegacyToken,
		toMillis(token.ExpiresAt))
	return err
}

func (s *Store) GetToken(ctx context.Context, jobID int64) (models.ExecutionToken, error) {
	var (
		token   models.ExecutionToken
		expires int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT job_id, resubmission, owner, credential_id, legacy_token, expires_at
		FROM job_tokens WHERE job_id = $1`, jobID).
		Scan(&token.JobID, &token.Resubmission, &token.Owner, &token.CredentialID, &token.LegacyToken, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return token, jobstore.NewErrTokenNotFound(jobID)
	}
	token.ExpiresAt = fromMillis(expires)
	return token, err
}

func (s *Store) DeleteToken(ctx context.Context, jobID int64) error {
	return deleteToken(ctx, s.db, jobID)
}

func deleteToken(ctx context.Context, db SQLClient, jobID int64) error {
	_, err := db.ExecContext(ctx, "DELETE FROM job_tokens WHERE job_id = $1", jobID)
	return err
}

func (s *Store) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM job_tokens WHERE expires_at <= $1", toMillis(s.nowOr(now)))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
