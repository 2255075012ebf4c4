//go:build unit || !integration

package broker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/gridqueue/gridbroker/pkg/broker/claimer"
	"github.com/gridqueue/gridbroker/pkg/broker/matcher"
	"github.com/gridqueue/gridbroker/pkg/broker/revision"
	"github.com/gridqueue/gridbroker/pkg/jobstore/sqlstore"
	"github.com/gridqueue/gridbroker/pkg/lifecycle"
	"github.com/gridqueue/gridbroker/pkg/logger"
	"github.com/gridqueue/gridbroker/pkg/lookup"
	"github.com/gridqueue/gridbroker/pkg/models"
	"github.com/gridqueue/gridbroker/pkg/token"
)

const (
	testCE      = "ALICE::CERN::LCG"
	testOwner   = "alice"
	testPackage = "VO_ALICE@ROOT::v6"
)

type BrokerTestSuite struct {
	suite.Suite
	ctx            context.Context
	clock          *clock.Mock
	store          *sqlstore.Store
	lookups        *lookup.Cache
	manager        *lifecycle.Manager
	issuer         *token.Issuer
	serverRevision int
	broker         *Broker
}

func TestBrokerTestSuite(t *testing.T) {
	suite.Run(t, new(BrokerTestSuite))
}

func (s *BrokerTestSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	s.ctx = context.Background()
	s.clock = clock.NewMock()
	s.clock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.serverRevision = 0

	store, err := sqlstore.NewSQLite(filepath.Join(s.T().TempDir(), "broker.db"), sqlstore.WithClock(s.clock))
	s.Require().NoError(err)
	s.store = store
	s.Require().NoError(store.SetSiteQueueBlocked(s.ctx, testCE, models.SiteQueueOpen))

	s.lookups, err = lookup.NewCache(store, 0)
	s.Require().NoError(err)

	minter, err := token.NewJWTMinter([]byte("test-secret"), "gridbroker", s.clock)
	s.Require().NoError(err)
	s.issuer = token.NewIssuer(token.IssuerParams{Store: store, Minter: minter, Clock: s.clock})

	s.manager, err = lifecycle.NewManager(lifecycle.ManagerParams{
		Store:   store,
		Lookups: s.lookups,
		Tokens:  s.issuer,
		Clock:   s.clock,
	})
	s.Require().NoError(err)
	s.broker = s.newBroker(s.issuer)
}

func (s *BrokerTestSuite) TearDownTest() {
	s.manager.Wait()
	s.NoError(s.store.Close(s.ctx))
}

func (s *BrokerTestSuite) newBroker(tokens TokenIssuer) *Broker {
	b, err := NewBroker(BrokerParams{
		Store: s.store,
		Matcher: matcher.NewMatcher(matcher.MatcherParams{
			Store: s.store,
			Users: s.lookups,
			Clock: s.clock,
		}),
		Claimer: claimer.NewClaimer(claimer.ClaimerParams{Store: s.store, Hosts: s.lookups, Clock: s.clock}),
		Revisions: revision.NewTracker(revision.TrackerParams{
			Source: revision.SourceFunc(func(context.Context) (int, error) {
				if s.serverRevision == 0 {
					return 0, errors.New("revision unknown")
				}
				return s.serverRevision, nil
			}),
			Clock: s.clock,
		}),
		Tokens: tokens,
		Status: s.manager,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	return b
}

func testSpec() models.JobSpec {
	return models.JobSpec{
		Owner:      testOwner,
		Executable: "/bin/date",
		TTL:        3600,
		Packages:   []string{testPackage},
	}
}

func worker() models.MatchRequest {
	return models.MatchRequest{WorkerSnapshot: models.WorkerSnapshot{
		CE:                testCE,
		Host:              "wn01.cern.ch",
		Site:              "CERN",
		CPUCores:          8,
		Disk:              100 << 30,
		TTL:               86400,
		InstalledPackages: []string{testPackage},
	}}
}

func (s *BrokerTestSuite) submit(spec models.JobSpec) models.Job {
	job, err := s.manager.Submit(s.ctx, lifecycle.SubmitRequest{Principal: models.NewPrincipal(testOwner), Spec: spec})
	s.Require().NoError(err)
	return job
}

func (s *BrokerTestSuite) siteQueue() models.SiteQueue {
	queue, err := s.store.GetSiteQueue(s.ctx, testCE)
	s.Require().NoError(err)
	return queue
}

func (s *BrokerTestSuite) TestAssignsLocalJob() {
	job := s.submit(testSpec())

	response, err := s.broker.Match(s.ctx, worker())
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeAssigned, response.Outcome)
	s.Equal(1, response.Code)
	s.Require().NotNil(response.Job)
	s.Equal(job.ID, response.Job.JobID)
	s.Len(response.Job.LegacyToken, 32)

	token, err := s.issuer.Validate(s.ctx, response.Job.Token)
	s.Require().NoError(err)
	s.Equal(job.ID, token.JobID)

	current, err := s.store.GetJob(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusAssigned, current.Status)
	s.Equal("wn01.cern.ch", current.ExecHost)
	s.Equal(models.SiteStatusMatch, s.siteQueue().Status)

	response, err = s.broker.Match(s.ctx, worker())
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeNothingToRun, response.Outcome)
	s.Equal(-2, response.Code)
	s.Equal(models.SiteStatusNoMatch, s.siteQueue().Status)
}

func (s *BrokerTestSuite) TestRejectsClosedQueue() {
	s.submit(testSpec())
	s.Require().NoError(s.store.SetSiteQueueBlocked(s.ctx, testCE, models.SiteQueueLocked))

	response, err := s.broker.Match(s.ctx, worker())
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeRejected, response.Outcome)
	s.Equal(-1, response.Code)
	s.Equal(models.RejectionQueueClosed, response.Reason)
	s.Contains(s.siteQueue().LastRejection.Reason, "locked")

	request := worker()
	request.CE = "ALICE::UNKNOWN::LCG"
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.RejectionQueueClosed, response.Reason)
}

func (s *BrokerTestSuite) TestUnknownCEStaysRejected() {
	s.submit(testSpec())
	request := worker()
	request.CE = "ALICE::UNKNOWN::LCG"

	for poll := 1; poll <= 2; poll++ {
		response, err := s.broker.Match(s.ctx, request)
		s.Require().NoError(err)
		s.Equal(models.MatchOutcomeRejected, response.Outcome, "poll %d", poll)
		s.Equal(models.RejectionQueueClosed, response.Reason, "poll %d", poll)
	}

	queue, err := s.store.GetSiteQueue(s.ctx, request.CE)
	s.Require().NoError(err)
	s.False(queue.IsOpen())
}

func (s *BrokerTestSuite) TestRevisionGraceWindow() {
	s.serverRevision = 7
	s.submit(testSpec())
	s.submit(testSpec())

	request := worker()
	request.ImageRevision = 5
	response, err := s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.RejectionStaleRevision, response.Reason)

	request.ImageRevision = 6
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeAssigned, response.Outcome)

	s.clock.Add(2 * time.Hour)
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeRejected, response.Outcome)
	s.Equal(models.RejectionStaleRevision, response.Reason)
}

func (s *BrokerTestSuite) TestInstallPackages() {
	s.submit(testSpec())
	request := worker()
	request.InstalledPackages = []string{"VO_ALICE@Other::v1"}

	response, err := s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeInstallPackages, response.Outcome)
	s.Equal(-3, response.Code)
	s.Equal([]string{testPackage}, response.Packages)

	queue := s.siteQueue()
	s.Equal(models.SiteStatusInstallPackage, queue.Status)
	s.Contains(queue.LastRejection.Reason, testPackage)

	request.OnDemandImage = true
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeAssigned, response.Outcome)
}

func (s *BrokerTestSuite) TestJobWithSeveralPackages() {
	spec := testSpec()
	spec.Packages = []string{"VO_ALICE@AliPhysics::v1", testPackage, "VO_ALICE@Zlib::v2"}
	job := s.submit(spec)

	request := worker()
	request.InstalledPackages = []string{"VO_ALICE@AliPhysics::v1", "VO_ALICE@Other::v1", testPackage}
	response, err := s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeInstallPackages, response.Outcome)
	s.Equal([]string{"VO_ALICE@Zlib::v2"}, response.Packages)

	request.InstalledPackages = append(request.InstalledPackages, "VO_ALICE@Zlib::v2")
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Require().Equal(models.MatchOutcomeAssigned, response.Outcome)
	s.Equal(job.ID, response.Job.JobID)
}

func (s *BrokerTestSuite) TestRemoteTierAfterTimeout() {
	spec := testSpec()
	spec.Sites = []string{"TORINO"}
	spec.RemoteTimeout = 60
	job := s.submit(spec)

	request := worker()
	request.RemoteAllowed = true
	response, err := s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeNothingToRun, response.Outcome)

	s.clock.Add(2 * time.Minute)
	request.RemoteAllowed = false
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeNothingToRun, response.Outcome)

	request.RemoteAllowed = true
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Require().Equal(models.MatchOutcomeAssigned, response.Outcome)
	s.Equal(job.ID, response.Job.JobID)
}

func (s *BrokerTestSuite) TestLocalTierWinsOverPackages() {
	other := testSpec()
	other.Packages = []string{"VO_ALICE@Other::v1"}
	s.submit(other)
	local := s.submit(testSpec())

	response, err := s.broker.Match(s.ctx, worker())
	s.Require().NoError(err)
	s.Require().Equal(models.MatchOutcomeAssigned, response.Outcome)
	s.Equal(local.ID, response.Job.JobID)
}

func (s *BrokerTestSuite) TestCEConfigIsMerged() {
	job := s.submit(testSpec())
	s.Require().NoError(s.store.PutCEConfig(s.ctx, models.CEConfig{CE: testCE, NoUsers: []string{testOwner}}))

	response, err := s.broker.Match(s.ctx, worker())
	s.Require().NoError(err)
	s.Equal(models.MatchOutcomeNothingToRun, response.Outcome)

	request := worker()
	request.ConstraintsResolved = true
	response, err = s.broker.Match(s.ctx, request)
	s.Require().NoError(err)
	s.Require().Equal(models.MatchOutcomeAssigned, response.Outcome)
	s.Equal(job.ID, response.Job.JobID)
}

func (s *BrokerTestSuite) TestTokenFailureFailsJob() {
	ctrl := gomock.NewController(s.T())
	minter := token.NewMockMinter(ctrl)
	minter.EXPECT().Mint(gomock.Any(), gomock.Any()).Return("", errors.New("signing key unavailable"))
	b := s.newBroker(token.NewIssuer(token.IssuerParams{Store: s.store, Minter: minter, Clock: s.clock}))

	job := s.submit(testSpec())
	response, err := b.Match(s.ctx, worker())
	var issuance ErrTokenIssuance
	s.Require().ErrorAs(err, &issuance)
	s.Equal(job.ID, issuance.JobID)
	s.Equal(models.MatchOutcomeNothingToRun, response.Outcome)

	current, err := s.store.GetJob(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusErrorA, current.Status)
	s.Contains(s.siteQueue().LastRejection.Reason, "token issuance failed")
}
