package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

func (s *Store) GetSiteQueue(ctx context.Context, ce string) (models.SiteQueue, error) {
	var (
		q        models.SiteQueue
		rejected int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT ce, blocked, status, last_rejection_reason, last_rejection_time
		FROM site_queues WHERE ce = $1`, ce).
		Scan(&q.CE, &q.Blocked, &q.Status, &q.LastRejection.Reason, &rejected)
	if errors.Is(err, sql.ErrNoRows) {
		return q, jobstore.NewErrSiteQueueNotFound(ce)
	}
	if err != nil {
		return q, err
	}
	q.LastRejection.CE = q.CE
	q.LastRejection.Time = fromMillis(rejected)
	return q, nil
}

func (s *Store) SetSiteQueueBlocked(ctx context.Context, ce string, blocked string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO site_queues (ce, blocked) VALUES ($1, $2)
		ON CONFLICT (ce) DO UPDATE SET blocked = excluded.blocked`, ce, blocked)
	return err
}

// SetSiteQueueStatus and RecordRejection create unknown CEs locked; only SetSiteQueueBlocked opens a queue.
func (s *Store) SetSiteQueueStatus(ctx context.Context, ce string, status string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO site_queues (ce, blocked, status) VALUES ($1, $2, $3)
		ON CONFLICT (ce) DO UPDATE SET status = excluded.status`, ce, models.SiteQueueLocked, status)
	return err
}

func (s *Store) RecordRejection(ctx context.Context, record models.RejectionRecord) error {
	when := toMillis(s.nowOr(record.Time))
	_, err := s.db.ExecContext(ctx, `INSERT INTO site_queues (ce, blocked, last_rejection_reason, last_rejection_time)
		VALUES ($1, $2, $3, $4) ON CONFLICT (ce) DO UPDATE SET
		last_rejection_reason = excluded.last_rejection_reason, last_rejection_time = excluded.last_rejection_time`,
		record.CE, models.SiteQueueLocked, record.Reason, when)
	return err
}

func (s *Store) GetSiteCounters(ctx context.Context, site string) (map[models.JobStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, count FROM site_counters WHERE site = $1", site)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[models.JobStatus]int)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err = rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		status, err := models.ParseJobStatus(name)
		if err != nil {
			return nil, err
		}
		counters[status] = count
	}
	return counters, rows.Err()
}

// adjustSiteCounter adds delta to a site counter. Counters never go below zero.
func adjustSiteCounter(ctx context.Context, tx SQLClient, site string, status models.JobStatus, delta int) error {
	initial := delta
	if initial < 0 {
		initial = 0
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO site_counters (site, status, count) VALUES ($1, $2, $3)
		ON CONFLICT (site, status) DO UPDATE SET count = CASE WHEN site_counters.count + $4 < 0
			THEN 0 ELSE site_counters.count + $4 END`,
		site, status.String(), initial, delta)
	if err != nil {
		return fmt.Errorf("failed to update counter %s/%s: %w", site, status, err)
	}
	return nil
}

// moveSiteCounters accounts for a job moving from one site and status to another.
func moveSiteCounters(ctx context.Context, tx SQLClient,
	fromSite string, from models.JobStatus, toSite string, to models.JobStatus) error {
	if fromSite == toSite && from == to {
		return nil
	}
	if err := adjustSiteCounter(ctx, tx, fromSite, from, -1); err != nil {
		return err
	}
	return adjustSiteCounter(ctx, tx, toSite, to, 1)
}

func (s *Store) GetCEConfig(ctx context.Context, ce string) (models.CEConfig, error) {
	cfg := models.CEConfig{CE: ce}
	var users, noUsers, partitions string
	err := s.db.QueryRowContext(ctx,
		"SELECT users, no_users, partitions, required_cpus FROM ce_config WHERE ce = $1", ce).
		Scan(&users, &noUsers, &partitions, &cfg.RequiredCPUs)
	if errors.Is(err, sql.ErrNoRows) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	cfg.Users = models.SplitCSV(users)
	cfg.NoUsers = models.SplitCSV(noUsers)
	cfg.Partitions = models.SplitCSV(partitions)
	return cfg, nil
}

func (s *Store) PutCEConfig(ctx context.Context, cfg models.CEConfig) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO ce_config (ce, users, no_users, partitions, required_cpus)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (ce) DO UPDATE SET users = excluded.users,
		no_users = excluded.no_users, partitions = excluded.partitions, required_cpus = excluded.required_cpus`,
		cfg.CE, models.CSV(cfg.Users), models.CSV(cfg.NoUsers), models.CSV(cfg.Partitions),
		strings.TrimSpace(cfg.RequiredCPUs))
	return err
}

func (s *Store) MarkHostActive(ctx context.Context, host string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO hosts (host, status, last_seen) VALUES ($1, $2, $3)
		ON CONFLICT (host) DO UPDATE SET status = excluded.status, last_seen = excluded.last_seen`,
		host, models.HostStatusActive, toMillis(s.nowOr(now)))
	return err
}
