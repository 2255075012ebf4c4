package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

const bucketColumns = `id, signature, ttl, disk, cpu_cores, packages, partition_name, site, ce, noce,
	user_id, price, priority, counter, oldest_job_id`

func scanBucket(row rowScanner) (models.Bucket, error) {
	var (
		b                   models.Bucket
		packages, partition string
		sites, ces, noces   string
	)
	err := row.Scan(&b.ID, &b.Signature, &b.TTL, &b.Disk, &b.CPUCores, &packages, &partition,
		&sites, &ces, &noces, &b.UserID, &b.Price, &b.Priority, &b.Counter, &b.OldestJobID)
	if err != nil {
		return b, err
	}
	b.Packages = models.SplitCSV(packages)
	if partition != models.AnyPartition {
		b.Partition = partition
	}
	b.Sites = models.SplitCSV(sites)
	b.CEs = models.SplitCSV(ces)
	b.NoCEs = models.SplitCSV(noces)
	return b, nil
}

func (s *Store) GetBucket(ctx context.Context, id int64) (models.Bucket, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bucketColumns+" FROM buckets WHERE id = $1", id)
	b, err := scanBucket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, jobstore.NewErrBucketNotFound(id)
	}
	return b, err
}

func (s *Store) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+bucketColumns+" FROM buckets ORDER BY priority DESC, price DESC, oldest_job_id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []models.Bucket
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// buildBucketQuery renders the conjunction of every predicate of q, ranked so that the
// first row is the bucket to serve.
func buildBucketQuery(q jobstore.BucketQuery) (string, []interface{}) {
	a := &args{}
	where := []string{
		"counter > 0",
		"ttl < " + a.add(q.TTL),
		"disk < " + a.add(q.Disk),
	}
	if q.CPUCores > 0 {
		where = append(where, "cpu_cores <= "+a.add(q.CPUCores))
	}

	if !q.IgnoreSites {
		siteClauses := []string{"site = ''"}
		for _, site := range q.Sites {
			siteClauses = append(siteClauses, "site LIKE "+a.add("%,"+site+",%"))
		}
		where = append(where, "("+strings.Join(siteClauses, " OR ")+")")
	}

	if !q.SkipPackages {
		where = append(where, a.add(q.Packages)+" LIKE packages")
	}
	if q.CE != "" {
		pattern := "%," + q.CE + ",%"
		if q.EnforceCEAllowList {
			where = append(where, "(ce = '' OR ce LIKE "+a.add(pattern)+")")
		}
		where = append(where, "noce NOT LIKE "+a.add(pattern))
	}
	where = append(where, "(partition_name = '%' OR "+a.add(q.Partitions)+" LIKE '%,' || partition_name || ',%')")

	if len(q.AllowUsers) > 0 {
		where = append(where, "user_id IN ("+a.list(int64Values(q.AllowUsers))+")")
	}
	if len(q.DenyUsers) > 0 {
		where = append(where, "user_id NOT IN ("+a.list(int64Values(q.DenyUsers))+")")
	}
	if q.CPUExpr != nil {
		op := q.CPUExpr.Operator
		if op == "!=" {
			op = "<>"
		}
		where = append(where, "cpu_cores "+op+" "+a.add(q.CPUExpr.Value))
	}
	if q.RestrictToBuckets {
		where = append(where, "id IN ("+a.list(int64Values(q.BucketIDs))+")")
	}

	query := "SELECT " + bucketColumns + " FROM buckets WHERE " + strings.Join(where, " AND ") +
		" ORDER BY priority DESC, price DESC, oldest_job_id ASC LIMIT 1"
	return query, a.values
}

var cpuOperators = []string{">=", "<=", ">", "<", "=", "!="}

func (s *Store) FindBucket(ctx context.Context, q jobstore.BucketQuery) (models.Bucket, error) {
	if q.RestrictToBuckets && len(q.BucketIDs) == 0 {
		return models.Bucket{}, jobstore.ErrNoMatchingBucket
	}
	if q.CPUExpr != nil && !lo.Contains(cpuOperators, q.CPUExpr.Operator) {
		return models.Bucket{}, fmt.Errorf("unsupported cpu operator %q", q.CPUExpr.Operator)
	}
	query, values := buildBucketQuery(q)
	b, err := scanBucket(s.db.QueryRowContext(ctx, query, values...))
	if errors.Is(err, sql.ErrNoRows) {
		return b, jobstore.ErrNoMatchingBucket
	}
	return b, err
}

func (s *Store) RemoteEligibleBuckets(ctx context.Context, now time.Time, defaultTimeout time.Duration) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT bucket_id FROM jobs
		WHERE status = $1 AND bucket_id IS NOT NULL AND $2 - mtime >= COALESCE(remote_timeout, $3)
		ORDER BY bucket_id`,
		models.JobStatusWaiting.String(), toMillis(s.nowOr(now)), defaultTimeout.Milliseconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ReconcileBuckets(ctx context.Context) (int, error) {
	var changed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE buckets SET counter = (SELECT COUNT(*) FROM jobs
			WHERE jobs.bucket_id = buckets.id AND jobs.status = $1)
			WHERE counter <> (SELECT COUNT(*) FROM jobs WHERE jobs.bucket_id = buckets.id AND jobs.status = $1)`,
			models.JobStatusWaiting.String())
		if err != nil {
			return fmt.Errorf("failed to recompute bucket counters: %w", err)
		}
		updated, _ := res.RowsAffected()

		res, err = tx.ExecContext(ctx, "DELETE FROM buckets WHERE counter < 1")
		if err != nil {
			return fmt.Errorf("failed to delete exhausted buckets: %w", err)
		}
		deleted, _ := res.RowsAffected()
		changed = updated + deleted
		return nil
	})
	return int(changed), err
}

// linkBucket attaches a job to the bucket of its requirements, creating the bucket on first
// use. The oldest job id of the bucket only ever moves down.
func linkBucket(ctx context.Context, tx *sql.Tx, jobID int64, r models.Requirements) (int64, error) {
	var bucketID int64
	err := tx.QueryRowContext(ctx, `INSERT INTO buckets (signature, ttl, disk, cpu_cores, packages,
		partition_name, site, ce, noce, user_id, price, priority, counter, oldest_job_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			COALESCE((SELECT computed_priority FROM user_priorities WHERE user_id = $10), 0), 1, $12)
		ON CONFLICT (signature) DO UPDATE SET counter = buckets.counter + 1,
			oldest_job_id = CASE WHEN excluded.oldest_job_id < buckets.oldest_job_id
				THEN excluded.oldest_job_id ELSE buckets.oldest_job_id END
		RETURNING id`,
		r.Signature(), r.TTL, r.Disk, r.CPUCores, r.PackagePattern(), r.PartitionPattern(),
		models.CSV(r.Sites), models.CSV(r.CEs), models.CSV(r.NoCEs), r.UserID, r.Price, jobID).Scan(&bucketID)
	if err != nil {
		return 0, fmt.Errorf("failed to link job %d to its bucket: %w", jobID, err)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE jobs SET bucket_id = $1 WHERE id = $2", bucketID, jobID); err != nil {
		return 0, err
	}
	return bucketID, refreshBucket(ctx, tx, bucketID)
}

// refreshBucket recomputes the counter of a bucket from its WAITING jobs and drops the
// bucket once it is exhausted.
func refreshBucket(ctx context.Context, tx *sql.Tx, bucketID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE buckets SET counter = (SELECT COUNT(*) FROM jobs
		WHERE jobs.bucket_id = buckets.id AND jobs.status = $2) WHERE id = $1`,
		bucketID, models.JobStatusWaiting.String())
	if err != nil {
		return fmt.Errorf("failed to refresh bucket %d: %w", bucketID, err)
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM buckets WHERE id = $1 AND counter < 1", bucketID)
	return err
}

func int64Values(ids []int64) []interface{} {
	return lo.Map(ids, func(id int64, _ int) interface{} { return id })
}
