//go:generate mockgen --source types.go --destination mocks.go --package jobstore
package jobstore

import (
	"context"
	"time"

	"github.com/gridqueue/gridbroker/pkg/models"
)

// LookupTable names one of the string to id dictionaries.
type LookupTable string

const (
	LookupUsers    LookupTable = "queue_users"
	LookupHosts    LookupTable = "queue_hosts"
	LookupCommands LookupTable = "queue_commands"
	LookupNotify   LookupTable = "queue_notify"
)

// LookupTables lists every dictionary, in the order they are created.
var LookupTables = []LookupTable{LookupUsers, LookupHosts, LookupCommands, LookupNotify}

// BucketQuery is the conjunctive predicate a worker snapshot imposes on capability buckets.
// Zero values disable the corresponding predicate unless stated otherwise.
type BucketQuery struct {
	// TTL and Disk are strict upper bounds for the bucket floors and are always applied.
	TTL  int64
	Disk int64
	// CPUCores bounds the bucket cores. Zero means the worker schedules whole nodes.
	CPUCores int
	// Sites restricts buckets with a site constraint to these sites, unless IgnoreSites
	// is set.
	Sites       []string
	IgnoreSites bool
	// Packages is the worker ",a,b," package list matched against the bucket pattern.
	// Ignored when SkipPackages is set.
	Packages     string
	SkipPackages bool
	// CE is checked against the deny list always and against the allow list when
	// EnforceCEAllowList is set.
	CE                 string
	EnforceCEAllowList bool
	// Partitions is the worker ",a,b," partition list. Buckets accepting any partition
	// always pass.
	Partitions string
	AllowUsers []int64
	DenyUsers  []int64
	CPUExpr    *models.CPUExpression
	// RestrictToBuckets limits candidates to BucketIDs, even when it is empty.
	RestrictToBuckets bool
	BucketIDs         []int64
}

// ClaimRequest asks for the oldest WAITING job of a bucket.
type ClaimRequest struct {
	BucketID int64
	CE       string
	Site     string
	ExecHost string
	// Remote restricts the claim to jobs that waited past their remote timeout.
	Remote               bool
	DefaultRemoteTimeout time.Duration
	Now                  time.Time
}

// UpdateJobCondition guards a mutation against concurrent changes.
type UpdateJobCondition struct {
	ExpectedStatus models.JobStatus
}

// Validate checks the condition against the current job.
func (c UpdateJobCondition) Validate(job models.Job) error {
	if c.ExpectedStatus != models.JobStatusAny && job.Status != c.ExpectedStatus {
		return NewErrInvalidJobState(job.ID, job.Status, c.ExpectedStatus)
	}
	return nil
}

// UpdateStatusRequest moves a job to a new status and applies the side effects of the transition.
type UpdateStatusRequest struct {
	JobID     int64
	Condition UpdateJobCondition
	NewStatus models.JobStatus
	// Requirements links the job to its bucket when entering WAITING.
	Requirements *models.Requirements
	ExecHost     *string
	OutputPath   *string
	SpyURL       *string
	Comment      string
	Now          time.Time
}

// ResubmitRequest resets a job to a re-runnable status.
type ResubmitRequest struct {
	JobID        int64
	Condition    UpdateJobCondition
	TargetStatus models.JobStatus
	// Requirements is the recomputed signature, required when TargetStatus is WAITING.
	Requirements *models.Requirements
	Now          time.Time
}

// A Store persists jobs, capability buckets and the bookkeeping around them. Every
// mutation that touches more than one record runs in a single transaction, and
// conditional updates report concurrent changes instead of overwriting them.
type Store interface {
	// CreateJob inserts a job and returns its id. The job is linked to a bucket only
	// when it is later moved to WAITING.
	CreateJob(ctx context.Context, job models.Job) (int64, error)

	// GetJob returns a job, identified by the id parameter, or an error if
	// it does not exist.
	GetJob(ctx context.Context, id int64) (models.Job, error)

	// GetSubjobs returns the children of a master job.
	GetSubjobs(ctx context.Context, masterID int64) ([]models.Job, error)

	// CountUnfinishedJobs counts the jobs of an owner that are not in a final status.
	CountUnfinishedJobs(ctx context.Context, owner string) (int, error)

	// UpdateJobStatus moves a job to a new status, applying bucket linkage, counters,
	// token destruction and the trace line in one transaction. It returns the job as
	// it was before the change.
	UpdateJobStatus(ctx context.Context, request UpdateStatusRequest) (models.Job, error)

	// ResubmitJob resets a job and re-links it to a bucket. It returns the updated job.
	ResubmitJob(ctx context.Context, request ResubmitRequest) (models.Job, error)

	// ClearJobOutput forgets the output path recorded for a job.
	ClearJobOutput(ctx context.Context, jobID int64) error

	// AppendJobLog appends one line to the job trace.
	AppendJobLog(ctx context.Context, entry models.JobLogEntry) error

	// GetJobLog returns the job trace, oldest first.
	GetJobLog(ctx context.Context, jobID int64) ([]models.JobLogEntry, error)

	// GetBucket returns a capability bucket.
	GetBucket(ctx context.Context, id int64) (models.Bucket, error)

	// ListBuckets returns every capability bucket in ranking order.
	ListBuckets(ctx context.Context) ([]models.Bucket, error)

	// FindBucket returns the best ranked bucket satisfying the query, or
	// ErrNoMatchingBucket.
	FindBucket(ctx context.Context, query BucketQuery) (models.Bucket, error)

	// RemoteEligibleBuckets returns the buckets holding a WAITING job that waited
	// longer than its remote timeout.
	RemoteEligibleBuckets(ctx context.Context, now time.Time, defaultTimeout time.Duration) ([]int64, error)

	// ReconcileBuckets recomputes every bucket counter from the job table and deletes
	// exhausted buckets. It returns the number of buckets it changed.
	ReconcileBuckets(ctx context.Context) (int, error)

	// ClaimJob atomically assigns the oldest WAITING job of a bucket, or returns
	// ErrNoJobAvailable.
	ClaimJob(ctx context.Context, request ClaimRequest) (models.Job, error)

	// PutToken stores the token of a job, replacing any previous one.
	PutToken(ctx context.Context, token models.ExecutionToken) error

	// GetToken returns the token of a job.
	GetToken(ctx context.Context, jobID int64) (models.ExecutionToken, error)

	// DeleteToken removes the token of a job. Deleting a missing token is not an error.
	DeleteToken(ctx context.Context, jobID int64) error

	// DeleteExpiredTokens removes tokens that expired before now.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error)

	// GetSiteQueue returns the queue record of a CE.
	GetSiteQueue(ctx context.Context, ce string) (models.SiteQueue, error)

	// SetSiteQueueBlocked opens or closes the queue of a CE, creating it if needed.
	SetSiteQueueBlocked(ctx context.Context, ce string, blocked string) error

	// SetSiteQueueStatus records the last verdict for a CE.
	SetSiteQueueStatus(ctx context.Context, ce string, status string) error

	// RecordRejection overwrites the last rejection of a CE.
	RecordRejection(ctx context.Context, record models.RejectionRecord) error

	// GetSiteCounters returns the aggregate job counters of a site.
	GetSiteCounters(ctx context.Context, site string) (map[models.JobStatus]int, error)

	// GetCEConfig returns the site-level constraints of a CE. A CE without
	// configuration yields an empty config.
	GetCEConfig(ctx context.Context, ce string) (models.CEConfig, error)

	// PutCEConfig creates or replaces the constraints of a CE.
	PutCEConfig(ctx context.Context, cfg models.CEConfig) error

	// MarkHostActive records that a host polled at the given time.
	MarkHostActive(ctx context.Context, host string, now time.Time) error

	// Lookup resolves a dictionary value, or returns ErrLookupNotFound.
	Lookup(ctx context.Context, table LookupTable, value string) (int64, error)

	// InsertLookup adds a dictionary value. Concurrent inserts of the same value fail
	// for all but one caller.
	InsertLookup(ctx context.Context, table LookupTable, value string) (int64, error)

	// GetJobQuota returns the maximum number of unfinished jobs of an owner, and
	// false if the owner has no quota.
	GetJobQuota(ctx context.Context, owner string) (int, bool, error)

	// SetJobQuota creates or replaces the quota of an owner.
	SetJobQuota(ctx context.Context, owner string, maxUnfinished int) error

	// SetUserPriority records the computed priority of a user, used for new buckets.
	SetUserPriority(ctx context.Context, userID int64, priority int) error

	// InsertMessage queues a message for a host. Duplicate messages are ignored.
	InsertMessage(ctx context.Context, msg models.Message) error

	// PendingMessages returns the unexpired messages of a host.
	PendingMessages(ctx context.Context, host string, now time.Time) ([]models.Message, error)

	// RegisterOutputArtifacts records artifacts produced by a job.
	RegisterOutputArtifacts(ctx context.Context, jobID int64, paths []string) error

	// ListOutputArtifacts returns the artifacts registered for a job.
	ListOutputArtifacts(ctx context.Context, jobID int64) ([]string, error)

	// DeleteOutputArtifacts forgets the artifacts registered for a job.
	DeleteOutputArtifacts(ctx context.Context, jobID int64) error

	// Close releases the underlying connections.
	Close(ctx context.Context) error
}
