//go:build unit || !integration

package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
)

type LookupTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *jobstore.MockStore
	cache *Cache
	ctx   context.Context
}

func TestLookupTestSuite(t *testing.T) {
	suite.Run(t, new(LookupTestSuite))
}

func (s *LookupTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = jobstore.NewMockStore(s.ctrl)
	s.ctx = context.Background()

	cache, err := NewCache(s.store, 10)
	s.Require().NoError(err)
	s.cache = cache
}

func (s *LookupTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LookupTestSuite) TestGetCachesStoreValue() {
	s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupUsers, "alice").Return(int64(3), nil).Times(1)

	for i := 0; i < 3; i++ {
		id, err := s.cache.Get(s.ctx, jobstore.LookupUsers, "alice")
		s.Require().NoError(err)
		s.Equal(int64(3), id)
	}
	s.Equal(1, s.cache.Len(jobstore.LookupUsers))
	s.Equal(0, s.cache.Len(jobstore.LookupHosts))
}

func (s *LookupTestSuite) TestGetOrInsertInsertsMissingValue() {
	gomock.InOrder(
		s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupHosts, "wn01").Return(int64(0), jobstore.ErrLookupNotFound),
		s.store.EXPECT().InsertLookup(gomock.Any(), jobstore.LookupHosts, "wn01").Return(int64(8), nil),
	)

	id, err := s.cache.GetOrInsert(s.ctx, jobstore.LookupHosts, "wn01")
	s.Require().NoError(err)
	s.Equal(int64(8), id)

	id, err = s.cache.Get(s.ctx, jobstore.LookupHosts, "wn01")
	s.Require().NoError(err)
	s.Equal(int64(8), id)
}

func (s *LookupTestSuite) TestGetOrInsertReadsBackConcurrentInsert() {
	gomock.InOrder(
		s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupCommands, "/bin/date").Return(int64(0), jobstore.ErrLookupNotFound),
		s.store.EXPECT().InsertLookup(gomock.Any(), jobstore.LookupCommands, "/bin/date").
			Return(int64(0), errors.New("UNIQUE constraint failed")),
		s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupCommands, "/bin/date").Return(int64(5), nil),
	)

	id, err := s.cache.GetOrInsert(s.ctx, jobstore.LookupCommands, "/bin/date")
	s.Require().NoError(err)
	s.Equal(int64(5), id)
}

func (s *LookupTestSuite) TestGetOrInsertPropagatesStoreFailure() {
	s.store.EXPECT().Lookup(gomock.Any(), jobstore.LookupNotify, "a@b").Return(int64(0), errors.New("connection refused"))

	_, err := s.cache.GetOrInsert(s.ctx, jobstore.LookupNotify, "a@b")
	s.ErrorContains(err, "connection refused")
}

func (s *LookupTestSuite) TestUnknownTable() {
	_, err := s.cache.Get(s.ctx, jobstore.LookupTable("jobs"), "x")
	s.Error(err)
}
