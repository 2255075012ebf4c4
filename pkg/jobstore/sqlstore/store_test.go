//go:build unit || !integration

package sqlstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

const (
	testOwner   = "alice"
	testOwnerID = int64(1)
	testPackage = "VO_ALICE@ROOT::v6"
)

type SQLStoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	clock *clock.Mock
}

func TestSQLStoreTestSuite(t *testing.T) {
	suite.Run(t, new(SQLStoreTestSuite))
}

func (s *SQLStoreTestSuite) SetupTest() {
	s.clock = clock.NewMock()
	s.clock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	store, err := NewSQLite(filepath.Join(s.T().TempDir(), "broker.db"), WithClock(s.clock))
	s.Require().NoError(err)
	s.store = store
}

func (s *SQLStoreTestSuite) TearDownTest() {
	s.NoError(s.store.Close(s.ctx))
}

func testSpec() models.JobSpec {
	return models.JobSpec{
		Owner:      testOwner,
		Executable: "/bin/date",
		TTL:        3600,
		Packages:   []string{testPackage},
	}
}

// workerQuery returns a query that accepts the bucket of testSpec.
func workerQuery() jobstore.BucketQuery {
	return jobstore.BucketQuery{
		TTL:        86400,
		Disk:       100 * 1024 * 1024 * 1024,
		CPUCores:   8,
		Sites:      []string{"CERN"},
		Packages:   models.CSV([]string{testPackage}),
		CE:         "ALICE::CERN::LCG",
		Partitions: "",
	}
}

// createWaitingJob inserts a job and moves it to WAITING, returning its id.
func (s *SQLStoreTestSuite) createWaitingJob(spec models.JobSpec) int64 {
	id, err := s.store.CreateJob(s.ctx, models.Job{
		Status:  models.JobStatusInserting,
		Owner:   spec.Owner,
		OwnerID: testOwnerID,
		Spec:    spec,
	})
	s.Require().NoError(err)

	req := spec.Requirements(testOwnerID)
	_, err = s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{
		JobID:        id,
		Condition:    jobstore.UpdateJobCondition{ExpectedStatus: models.JobStatusInserting},
		NewStatus:    models.JobStatusWaiting,
		Requirements: &req,
	})
	s.Require().NoError(err)
	s.clock.Add(time.Second)
	return id
}

func (s *SQLStoreTestSuite) TestCreateAndGetJob() {
	spec := testSpec()
	id, err := s.store.CreateJob(s.ctx, models.Job{
		Status:        models.JobStatusInserting,
		Owner:         testOwner,
		OwnerID:       testOwnerID,
		Spec:          spec,
		RemoteTimeout: time.Minute,
	})
	s.Require().NoError(err)

	job, err := s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.JobStatusInserting, job.Status)
	s.Equal(spec, job.Spec)
	s.Equal(time.Minute, job.RemoteTimeout)
	s.Equal(s.clock.Now(), job.Created)
	s.Zero(job.BucketID)

	_, err = s.store.GetJob(s.ctx, id+100)
	s.True(jobstore.IsNotFound(err))

	counters, err := s.store.GetSiteCounters(s.ctx, models.UnassignedSite)
	s.Require().NoError(err)
	s.Equal(1, counters[models.JobStatusInserting])
}

func (s *SQLStoreTestSuite) TestWaitingJobsShareBucket() {
	first := s.createWaitingJob(testSpec())
	second := s.createWaitingJob(testSpec())

	firstJob, err := s.store.GetJob(s.ctx, first)
	s.Require().NoError(err)
	secondJob, err := s.store.GetJob(s.ctx, second)
	s.Require().NoError(err)
	s.NotZero(firstJob.BucketID)
	s.Equal(firstJob.BucketID, secondJob.BucketID)

	bucket, err := s.store.GetBucket(s.ctx, firstJob.BucketID)
	s.Require().NoError(err)
	s.Equal(2, bucket.Counter)
	s.Equal(first, bucket.OldestJobID)
	s.Equal([]string{testPackage}, bucket.Packages)
	s.Equal(testSpec().Requirements(testOwnerID).Signature(), bucket.Signature)

	counters, err := s.store.GetSiteCounters(s.ctx, models.UnassignedSite)
	s.Require().NoError(err)
	s.Equal(2, counters[models.JobStatusWaiting])
	s.Equal(0, counters[models.JobStatusInserting])
}

func (s *SQLStoreTestSuite) TestWaitingRequiresRequirements() {
	id, err := s.store.CreateJob(s.ctx, models.Job{Status: models.JobStatusInserting, Owner: testOwner, Spec: testSpec()})
	s.Require().NoError(err)

	_, err = s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{
		JobID:     id,
		NewStatus: models.JobStatusWaiting,
	})
	s.ErrorAs(err, &jobstore.ErrMissingRequirements{})
}

func (s *SQLStoreTestSuite) TestUpdateJobStatusCondition() {
	id := s.createWaitingJob(testSpec())

	_, err := s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{
		JobID:     id,
		Condition: jobstore.UpdateJobCondition{ExpectedStatus: models.JobStatusRunning},
		NewStatus: models.JobStatusDone,
	})
	s.True(jobstore.IsConcurrentUpdate(err))

	job, err := s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.JobStatusWaiting, job.Status)
}

func (s *SQLStoreTestSuite) TestClaimJobAtMostOnce() {
	const jobs = 5
	const extraClaimers = 3
	ids := make([]int64, 0, jobs)
	for i := 0; i < jobs; i++ {
		ids = append(ids, s.createWaitingJob(testSpec()))
	}
	bucket, err := s.store.FindBucket(s.ctx, workerQuery())
	s.Require().NoError(err)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		claimed []int64
		misses  int
	)
	for i := 0; i < 2*jobs+extraClaimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job, err := s.store.ClaimJob(s.ctx, jobstore.ClaimRequest{
				BucketID: bucket.ID,
				CE:       "ALICE::CERN::LCG",
				Site:     "CERN",
				ExecHost: "wn01.cern.ch",
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.ErrorIs(err, jobstore.ErrNoJobAvailable)
				misses++
				return
			}
			claimed = append(claimed, job.ID)
		}()
	}
	wg.Wait()

	s.Len(claimed, jobs)
	s.ElementsMatch(ids, lo.Uniq(claimed))
	s.Equal(jobs+extraClaimers, misses)

	_, err = s.store.GetBucket(s.ctx, bucket.ID)
	s.True(jobstore.IsNotFound(err), "exhausted bucket should be deleted")

	counters, err := s.store.GetSiteCounters(s.ctx, "CERN")
	s.Require().NoError(err)
	s.Equal(jobs, counters[models.JobStatusAssigned])
}

func (s *SQLStoreTestSuite) TestClaimJobOldestFirst() {
	first := s.createWaitingJob(testSpec())
	second := s.createWaitingJob(testSpec())
	bucket, err := s.store.FindBucket(s.ctx, workerQuery())
	s.Require().NoError(err)

	job, err := s.store.ClaimJob(s.ctx, jobstore.ClaimRequest{BucketID: bucket.ID, CE: "ALICE::CERN::LCG", Site: "CERN"})
	s.Require().NoError(err)
	s.Equal(first, job.ID)
	s.Equal(models.JobStatusAssigned, job.Status)
	s.Equal("CERN", job.Site)
	s.Zero(job.BucketID)

	bucket, err = s.store.GetBucket(s.ctx, bucket.ID)
	s.Require().NoError(err)
	s.Equal(1, bucket.Counter)
	s.Equal(first, bucket.OldestJobID)

	log, err := s.store.GetJobLog(s.ctx, first)
	s.Require().NoError(err)
	s.Equal("Job ASSIGNED to: ALICE::CERN::LCG", log[len(log)-1].Message)

	job, err = s.store.ClaimJob(s.ctx, jobstore.ClaimRequest{BucketID: bucket.ID, CE: "ALICE::CERN::LCG", Site: "CERN"})
	s.Require().NoError(err)
	s.Equal(second, job.ID)
}

func (s *SQLStoreTestSuite) TestFindBucketPredicates() {
	restricted := testSpec()
	restricted.Sites = []string{"cern"}
	restricted.NoCEs = []string{"ALICE::BAD::LCG"}
	restricted.CPUCores = 4
	restricted.Partition = "gpu"
	s.createWaitingJob(restricted)

	base := workerQuery()
	base.Partitions = ",gpu,"

	_, err := s.store.FindBucket(s.ctx, base)
	s.Require().NoError(err)

	tests := []struct {
		name   string
		modify func(q *jobstore.BucketQuery)
	}{
		{name: "short ttl", modify: func(q *jobstore.BucketQuery) { q.TTL = 3600 }},
		{name: "small disk", modify: func(q *jobstore.BucketQuery) { q.Disk = 1024 }},
		{name: "few cores", modify: func(q *jobstore.BucketQuery) { q.CPUCores = 2 }},
		{name: "other site", modify: func(q *jobstore.BucketQuery) { q.Sites = []string{"TORINO"} }},
		{name: "missing package", modify: func(q *jobstore.BucketQuery) { q.Packages = ",VO_ALICE@Other::v1," }},
		{name: "denied ce", modify: func(q *jobstore.BucketQuery) { q.CE = "ALICE::BAD::LCG" }},
		{name: "other partition", modify: func(q *jobstore.BucketQuery) { q.Partitions = ",cpu," }},
		{name: "no partition", modify: func(q *jobstore.BucketQuery) { q.Partitions = "" }},
		{name: "user not allowed", modify: func(q *jobstore.BucketQuery) { q.AllowUsers = []int64{testOwnerID + 1} }},
		{name: "user denied", modify: func(q *jobstore.BucketQuery) { q.DenyUsers = []int64{testOwnerID} }},
		{name: "cpu expression", modify: func(q *jobstore.BucketQuery) {
			q.CPUExpr = &models.CPUExpression{Operator: ">=", Value: 8}
		}},
		{name: "empty restriction", modify: func(q *jobstore.BucketQuery) { q.RestrictToBuckets = true }},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			q := base
			tc.modify(&q)
			_, err := s.store.FindBucket(s.ctx, q)
			s.ErrorIs(err, jobstore.ErrNoMatchingBucket)
		})
	}

	s.Run("whole node worker skips core check", func() {
		q := base
		q.CPUCores = 0
		_, err := s.store.FindBucket(s.ctx, q)
		s.NoError(err)
	})
	s.Run("remote mode ignores sites", func() {
		q := base
		q.Sites = []string{"TORINO"}
		q.IgnoreSites = true
		_, err := s.store.FindBucket(s.ctx, q)
		s.NoError(err)
	})
	s.Run("on demand image skips packages", func() {
		q := base
		q.Packages = ""
		q.SkipPackages = true
		_, err := s.store.FindBucket(s.ctx, q)
		s.NoError(err)
	})
	s.Run("matching cpu expression", func() {
		q := base
		q.CPUExpr = &models.CPUExpression{Operator: "!=", Value: 8}
		_, err := s.store.FindBucket(s.ctx, q)
		s.NoError(err)
	})
}

func (s *SQLStoreTestSuite) TestFindBucketCEAllowList() {
	spec := testSpec()
	spec.CEs = []string{"ALICE::CERN::LCG"}
	s.createWaitingJob(spec)

	q := workerQuery()
	q.CE = "ALICE::TORINO::LCG"
	_, err := s.store.FindBucket(s.ctx, q)
	s.NoError(err, "allow list is only enforced on request")

	q.EnforceCEAllowList = true
	_, err = s.store.FindBucket(s.ctx, q)
	s.ErrorIs(err, jobstore.ErrNoMatchingBucket)

	q.CE = "ALICE::CERN::LCG"
	_, err = s.store.FindBucket(s.ctx, q)
	s.NoError(err)
}

func (s *SQLStoreTestSuite) TestFindBucketRanking() {
	cheap := s.createWaitingJob(testSpec())

	expensive := testSpec()
	expensive.Price = 2
	expensiveID := s.createWaitingJob(expensive)

	bucket, err := s.store.FindBucket(s.ctx, workerQuery())
	s.Require().NoError(err)
	s.Equal(expensiveID, bucket.OldestJobID)

	q := workerQuery()
	cheapJob, err := s.store.GetJob(s.ctx, cheap)
	s.Require().NoError(err)
	q.RestrictToBuckets = true
	q.BucketIDs = []int64{cheapJob.BucketID}
	bucket, err = s.store.FindBucket(s.ctx, q)
	s.Require().NoError(err)
	s.Equal(cheap, bucket.OldestJobID)
}

func (s *SQLStoreTestSuite) TestRemoteEligibleBuckets() {
	id := s.createWaitingJob(testSpec())
	job, err := s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)

	ids, err := s.store.RemoteEligibleBuckets(s.ctx, s.clock.Now(), time.Hour)
	s.Require().NoError(err)
	s.Empty(ids)

	ids, err = s.store.RemoteEligibleBuckets(s.ctx, s.clock.Now().Add(2*time.Hour), time.Hour)
	s.Require().NoError(err)
	s.Equal([]int64{job.BucketID}, ids)

	_, err = s.store.ClaimJob(s.ctx, jobstore.ClaimRequest{
		BucketID: job.BucketID, Remote: true, DefaultRemoteTimeout: time.Hour, Now: s.clock.Now(),
	})
	s.ErrorIs(err, jobstore.ErrNoJobAvailable)
}

func (s *SQLStoreTestSuite) TestStatusSideEffects() {
	id := s.createWaitingJob(testSpec())
	job, err := s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NoError(s.store.PutToken(s.ctx, models.ExecutionToken{
		JobID: id, Owner: testOwner, CredentialID: "jti", LegacyToken: "legacy", ExpiresAt: s.clock.Now().Add(time.Hour),
	}))

	host := "wn01.cern.ch"
	previous, err := s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{
		JobID:     id,
		NewStatus: models.JobStatusRunning,
		ExecHost:  &host,
		Comment:   "started by the agent",
	})
	s.Require().NoError(err)
	s.Equal(models.JobStatusWaiting, previous.Status)

	_, err = s.store.GetBucket(s.ctx, job.BucketID)
	s.True(jobstore.IsNotFound(err), "leaving WAITING releases the bucket")

	job, err = s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)
	s.False(job.Started.IsZero())
	s.Equal(host, job.ExecHost)

	_, err = s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{JobID: id, NewStatus: models.JobStatusDone})
	s.Require().NoError(err)
	_, err = s.store.GetToken(s.ctx, id)
	s.True(jobstore.IsNotFound(err), "final status destroys the token")

	job, err = s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)
	s.False(job.Finished.IsZero())

	log, err := s.store.GetJobLog(s.ctx, id)
	s.Require().NoError(err)
	messages := lo.Map(log, func(e models.JobLogEntry, _ int) string { return e.Message })
	s.Contains(messages, "Job state transition from WAITING to RUNNING: started by the agent")
	s.Contains(messages, "Job state transition from RUNNING to DONE")
}

func (s *SQLStoreTestSuite) TestKilledIncrementsResubmission() {
	id := s.createWaitingJob(testSpec())
	_, err := s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{JobID: id, NewStatus: models.JobStatusKilled})
	s.Require().NoError(err)

	job, err := s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(1, job.Resubmission)
}

func (s *SQLStoreTestSuite) TestMasterCompletesWithLastSubjob() {
	masterID, err := s.store.CreateJob(s.ctx, models.Job{
		Status: models.JobStatusSplit, Owner: testOwner, IsMaster: true, Spec: testSpec(),
	})
	s.Require().NoError(err)

	var subjobs []int64
	for i := 0; i < 2; i++ {
		spec := testSpec()
		spec.MasterJobID = masterID
		id, err := s.store.CreateJob(s.ctx, models.Job{
			Status: models.JobStatusRunning, Owner: testOwner, MasterJobID: masterID, Spec: spec,
		})
		s.Require().NoError(err)
		subjobs = append(subjobs, id)
	}

	_, err = s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{JobID: subjobs[0], NewStatus: models.JobStatusDone})
	s.Require().NoError(err)
	master, err := s.store.GetJob(s.ctx, masterID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusSplit, master.Status)

	_, err = s.store.UpdateJobStatus(s.ctx, jobstore.UpdateStatusRequest{JobID: subjobs[1], NewStatus: models.JobStatusErrorE})
	s.Require().NoError(err)
	master, err = s.store.GetJob(s.ctx, masterID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusDone, master.Status)

	children, err := s.store.GetSubjobs(s.ctx, masterID)
	s.Require().NoError(err)
	s.Len(children, 2)
}

func (s *SQLStoreTestSuite) TestResubmitJob() {
	masterID, err := s.store.CreateJob(s.ctx, models.Job{
		Status: models.JobStatusDone, Owner: testOwner, IsMaster: true, Spec: testSpec(),
	})
	s.Require().NoError(err)
	spec := testSpec()
	spec.MasterJobID = masterID
	id, err := s.store.CreateJob(s.ctx, models.Job{
		Status: models.JobStatusErrorE, Owner: testOwner, MasterJobID: masterID, Spec: spec,
	})
	s.Require().NoError(err)

	req := spec.Requirements(testOwnerID)
	job, err := s.store.ResubmitJob(s.ctx, jobstore.ResubmitRequest{
		JobID:        id,
		Condition:    jobstore.UpdateJobCondition{ExpectedStatus: models.JobStatusErrorE},
		TargetStatus: models.JobStatusWaiting,
		Requirements: &req,
	})
	s.Require().NoError(err)
	s.Equal(models.JobStatusWaiting, job.Status)
	s.Equal(1, job.Resubmission)
	s.Empty(job.Site)
	s.NotZero(job.BucketID)

	master, err := s.store.GetJob(s.ctx, masterID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusSplit, master.Status)

	_, err = s.store.ResubmitJob(s.ctx, jobstore.ResubmitRequest{
		JobID:        id,
		Condition:    jobstore.UpdateJobCondition{ExpectedStatus: models.JobStatusErrorE},
		TargetStatus: models.JobStatusWaiting,
		Requirements: &req,
	})
	s.True(jobstore.IsConcurrentUpdate(err))
}

func (s *SQLStoreTestSuite) TestReconcileBuckets() {
	id := s.createWaitingJob(testSpec())
	job, err := s.store.GetJob(s.ctx, id)
	s.Require().NoError(err)

	_, err = s.store.DB().ExecContext(s.ctx, "UPDATE buckets SET counter = 7 WHERE id = $1", job.BucketID)
	s.Require().NoError(err)
	_, err = s.store.DB().ExecContext(s.ctx, "UPDATE jobs SET status = 'DONE' WHERE id = $1", id)
	s.Require().NoError(err)

	changed, err := s.store.ReconcileBuckets(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, changed)

	buckets, err := s.store.ListBuckets(s.ctx)
	s.Require().NoError(err)
	s.Empty(buckets)
}

func (s *SQLStoreTestSuite) TestTokens() {
	token := models.ExecutionToken{
		JobID: 10, Resubmission: 2, Owner: testOwner, CredentialID: "a", LegacyToken: "b",
		ExpiresAt: s.clock.Now().Add(time.Hour),
	}
	s.Require().NoError(s.store.PutToken(s.ctx, token))
	token.CredentialID = "c"
	s.Require().NoError(s.store.PutToken(s.ctx, token))

	stored, err := s.store.GetToken(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(token, stored)

	n, err := s.store.DeleteExpiredTokens(s.ctx, s.clock.Now().Add(2*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, n)
	s.NoError(s.store.DeleteToken(s.ctx, 10))
}

func (s *SQLStoreTestSuite) TestSiteQueues() {
	ce := "ALICE::CERN::LCG"
	_, err := s.store.GetSiteQueue(s.ctx, ce)
	s.True(jobstore.IsNotFound(err))

	s.Require().NoError(s.store.SetSiteQueueBlocked(s.ctx, ce, models.SiteQueueOpen))
	s.Require().NoError(s.store.SetSiteQueueStatus(s.ctx, ce, models.SiteStatusMatch))
	s.Require().NoError(s.store.RecordRejection(s.ctx, models.RejectionRecord{CE: ce, Reason: "queue-closed"}))

	queue, err := s.store.GetSiteQueue(s.ctx, ce)
	s.Require().NoError(err)
	s.True(queue.IsOpen())
	s.Equal(models.SiteStatusMatch, queue.Status)
	s.Equal("queue-closed", queue.LastRejection.Reason)
	s.Equal(s.clock.Now(), queue.LastRejection.Time)

	cfg := models.CEConfig{CE: ce, Users: []string{"alice"}, Partitions: []string{"gpu"}, RequiredCPUs: ">=8"}
	s.Require().NoError(s.store.PutCEConfig(s.ctx, cfg))
	stored, err := s.store.GetCEConfig(s.ctx, ce)
	s.Require().NoError(err)
	s.Equal(cfg, stored)

	empty, err := s.store.GetCEConfig(s.ctx, "ALICE::OTHER::LCG")
	s.Require().NoError(err)
	s.Empty(empty.Users)

	s.NoError(s.store.MarkHostActive(s.ctx, "wn01.cern.ch", s.clock.Now()))
	s.NoError(s.store.MarkHostActive(s.ctx, "wn01.cern.ch", s.clock.Now().Add(time.Minute)))
}

func (s *SQLStoreTestSuite) TestRejectionNeverOpensUnknownQueue() {
	rejected := "ALICE::UNKNOWN::LCG"
	s.Require().NoError(s.store.RecordRejection(s.ctx, models.RejectionRecord{CE: rejected, Reason: "queue-closed"}))
	queue, err := s.store.GetSiteQueue(s.ctx, rejected)
	s.Require().NoError(err)
	s.False(queue.IsOpen())
	s.Equal(models.SiteQueueLocked, queue.Blocked)

	verdict := "ALICE::OTHER::LCG"
	s.Require().NoError(s.store.SetSiteQueueStatus(s.ctx, verdict, models.SiteStatusNoMatch))
	queue, err = s.store.GetSiteQueue(s.ctx, verdict)
	s.Require().NoError(err)
	s.False(queue.IsOpen())
}

func (s *SQLStoreTestSuite) TestLookups() {
	_, err := s.store.Lookup(s.ctx, jobstore.LookupUsers, "alice")
	s.ErrorIs(err, jobstore.ErrLookupNotFound)

	id, err := s.store.InsertLookup(s.ctx, jobstore.LookupUsers, "alice")
	s.Require().NoError(err)
	_, err = s.store.InsertLookup(s.ctx, jobstore.LookupUsers, "alice")
	s.Error(err)

	found, err := s.store.Lookup(s.ctx, jobstore.LookupUsers, "alice")
	s.Require().NoError(err)
	s.Equal(id, found)

	_, err = s.store.Lookup(s.ctx, jobstore.LookupTable("jobs; DROP TABLE jobs"), "x")
	s.Error(err)
}

func (s *SQLStoreTestSuite) TestMessages() {
	msg := models.NewKillMessage("wn01.cern.ch", 4, 1, s.clock.Now().Add(time.Minute))
	s.Require().NoError(s.store.InsertMessage(s.ctx, msg))
	s.Require().NoError(s.store.InsertMessage(s.ctx, msg))

	pending, err := s.store.PendingMessages(s.ctx, "wn01.cern.ch", s.clock.Now())
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("wn01.cern.ch-4-1", pending[0].Target)

	pending, err = s.store.PendingMessages(s.ctx, "wn01.cern.ch", s.clock.Now().Add(time.Hour))
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *SQLStoreTestSuite) TestOutputArtifactsAndQuota() {
	s.Require().NoError(s.store.RegisterOutputArtifacts(s.ctx, 3, []string{"out/b", "out/a", "out/a"}))
	paths, err := s.store.ListOutputArtifacts(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal([]string{"out/a", "out/b"}, paths)
	s.Require().NoError(s.store.DeleteOutputArtifacts(s.ctx, 3))

	_, ok, err := s.store.GetJobQuota(s.ctx, testOwner)
	s.Require().NoError(err)
	s.False(ok)
	s.Require().NoError(s.store.SetJobQuota(s.ctx, testOwner, 2))
	limit, ok, err := s.store.GetJobQuota(s.ctx, testOwner)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(2, limit)

	s.createWaitingJob(testSpec())
	count, err := s.store.CountUnfinishedJobs(s.ctx, testOwner)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestUserPriorityAppliesToNewBuckets(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "broker.db"))
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.SetUserPriority(ctx, testOwnerID, 5))
	id, err := store.CreateJob(ctx, models.Job{Status: models.JobStatusInserting, Owner: testOwner, Spec: testSpec()})
	require.NoError(t, err)
	req := testSpec().Requirements(testOwnerID)
	_, err = store.UpdateJobStatus(ctx, jobstore.UpdateStatusRequest{
		JobID: id, NewStatus: models.JobStatusWaiting, Requirements: &req,
	})
	require.NoError(t, err)

	buckets, err := store.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, 5, buckets[0].Priority)
}
