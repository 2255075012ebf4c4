//go:build unit || !integration

package matcher

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/lookup"
	"github.com/gridqueue/gridbroker/pkg/models"
)

type MatcherTestSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	store   *jobstore.MockStore
	clock   *clock.Mock
	matcher *Matcher
}

func TestMatcherTestSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}

func (s *MatcherTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = jobstore.NewMockStore(s.ctrl)
	s.clock = clock.NewMock()

	users, err := lookup.NewCache(s.store, 10)
	s.Require().NoError(err)
	s.matcher = NewMatcher(MatcherParams{Store: s.store, Users: users, Clock: s.clock, RemoteTimeout: time.Hour})
}

func (s *MatcherTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func snapshot() models.WorkerSnapshot {
	return models.WorkerSnapshot{
		CE:                "ALICE::CERN::LCG",
		Host:              "wn01.cern.ch",
		Site:              "cern",
		ExtraSites:        []string{"Meyrin"},
		CPUCores:          8,
		Disk:              50 << 30,
		TTL:               86400,
		InstalledPackages: []string{"VO_ALICE@ROOT::v6"},
		Partitions:        []string{"gpu"},
	}
}

func (s *MatcherTestSuite) TestLocalQuery() {
	query, err := s.matcher.Query(s.ctx, snapshot(), ModeLocal)
	s.Require().NoError(err)
	s.Equal(int64(86400), query.TTL)
	s.Equal(int64(50<<30), query.Disk)
	s.Equal(8, query.CPUCores)
	s.Equal([]string{"CERN", "MEYRIN"}, query.Sites)
	s.False(query.IgnoreSites)
	s.Equal(",VO_ALICE@ROOT::v6,", query.Packages)
	s.True(query.EnforceCEAllowList)
	s.Equal(",gpu,", query.Partitions)
	s.False(query.RestrictToBuckets)
	s.Nil(query.CPUExpr)
}

func (s *MatcherTestSuite) TestUsersAreResolved() {
	w := snapshot()
	w.Users = []string{"alice", "ghost"}
	w.NoUsers = []string{"bob"}
	s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupUsers, "alice").Return(int64(1), nil)
	s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupUsers, "ghost").Return(int64(0), jobstore.ErrLookupNotFound)
	s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupUsers, "bob").Return(int64(2), nil)

	query, err := s.matcher.Query(s.ctx, w, ModeLocal)
	s.Require().NoError(err)
	s.Equal([]int64{1}, query.AllowUsers)
	s.Equal([]int64{2}, query.DenyUsers)
}

func (s *MatcherTestSuite) TestOnlyUnknownAllowedUsers() {
	w := snapshot()
	w.Users = []string{"ghost"}
	s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupUsers, "ghost").Return(int64(0), jobstore.ErrLookupNotFound)

	_, err := s.matcher.FindBucket(s.ctx, w, ModeLocal)
	s.ErrorIs(err, jobstore.ErrNoMatchingBucket)
}

func (s *MatcherTestSuite) TestCPUExpression() {
	w := snapshot()
	w.RequiredCPUs = "==8"
	query, err := s.matcher.Query(s.ctx, w, ModeLocal)
	s.Require().NoError(err)
	s.Equal(&models.CPUExpression{Operator: "=", Value: 8}, query.CPUExpr)

	w.RequiredCPUs = "about eight"
	query, err = s.matcher.Query(s.ctx, w, ModeLocal)
	s.Require().NoError(err)
	s.Nil(query.CPUExpr, "malformed expressions are ignored")
}

func (s *MatcherTestSuite) TestRemoteSetIsCached() {
	s.store.EXPECT().RemoteEligibleBuckets(gomock.Any(), s.clock.Now(), time.Hour).Return([]int64{4, 9}, nil).Times(1)

	query, err := s.matcher.Query(s.ctx, snapshot(), ModeRemote)
	s.Require().NoError(err)
	s.True(query.IgnoreSites)
	s.False(query.EnforceCEAllowList)
	s.True(query.RestrictToBuckets)
	s.Equal([]int64{4, 9}, query.BucketIDs)

	s.clock.Add(30 * time.Second)
	query, err = s.matcher.Query(s.ctx, snapshot(), ModeRemote)
	s.Require().NoError(err)
	s.Equal([]int64{4, 9}, query.BucketIDs)

	s.clock.Add(31 * time.Second)
	s.store.EXPECT().RemoteEligibleBuckets(gomock.Any(), s.clock.Now(), time.Hour).Return(nil, nil).Times(1)
	query, err = s.matcher.Query(s.ctx, snapshot(), ModeRemote)
	s.Require().NoError(err)
	s.True(query.RestrictToBuckets)
	s.Empty(query.BucketIDs)
}

func (s *MatcherTestSuite) TestFindPackages() {
	s.store.EXPECT().FindBucket(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q jobstore.BucketQuery) (models.Bucket, error) {
			s.True(q.SkipPackages)
			return models.Bucket{ID: 3, Requirements: models.Requirements{
				Packages: []string{"VO_ALICE@AliPhysics::v1", "VO_ALICE@ROOT::v6"},
			}}, nil
		})

	missing, err := s.matcher.FindPackages(s.ctx, snapshot(), ModeLocal)
	s.Require().NoError(err)
	s.Equal([]string{"VO_ALICE@AliPhysics::v1"}, missing)
}

func (s *MatcherTestSuite) TestFindPackagesNothingMissing() {
	s.store.EXPECT().FindBucket(gomock.Any(), gomock.Any()).Return(models.Bucket{ID: 3, Requirements: models.Requirements{
		Packages: []string{"VO_ALICE@ROOT::v6"},
	}}, nil)

	_, err := s.matcher.FindPackages(s.ctx, snapshot(), ModeLocal)
	s.ErrorIs(err, jobstore.ErrNoMatchingBucket)
}
