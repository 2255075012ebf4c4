//go:build unit || !integration

package revision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
)

type TrackerTestSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *clock.Mock
	revision int
	err      error
	reads    int
	tracker  *Tracker
}

func TestTrackerTestSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

func (s *TrackerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewMock()
	s.clock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.revision = 100
	s.err = nil
	s.reads = 0
	s.tracker = NewTracker(TrackerParams{
		Source: SourceFunc(func(context.Context) (int, error) {
			s.reads++
			return s.revision, s.err
		}),
		Clock: s.clock,
	})
}

func (s *TrackerTestSuite) TestCurrentIsCached() {
	s.Equal(100, s.tracker.Current(s.ctx))
	s.revision = 101
	s.clock.Add(30 * time.Second)
	s.Equal(100, s.tracker.Current(s.ctx))
	s.Equal(1, s.reads)

	s.clock.Add(31 * time.Second)
	s.Equal(101, s.tracker.Current(s.ctx))
	s.Equal(2, s.reads)
}

func (s *TrackerTestSuite) TestFailedReadRetriesSooner() {
	s.err = errors.New("unreachable")
	s.Equal(0, s.tracker.Current(s.ctx))

	s.err = nil
	s.clock.Add(10 * time.Second)
	s.Equal(0, s.tracker.Current(s.ctx))
	s.clock.Add(6 * time.Second)
	s.Equal(100, s.tracker.Current(s.ctx))
}

func (s *TrackerTestSuite) TestGraceWindow() {
	s.NoError(s.tracker.Check(s.ctx, 100))
	s.NoError(s.tracker.Check(s.ctx, 0), "unknown worker revision")

	s.clock.Add(2 * time.Hour)
	s.revision = 101
	s.NoError(s.tracker.Check(s.ctx, 100), "one behind right after the bump")
	s.Error(s.tracker.Check(s.ctx, 99), "two behind is always stale")

	s.clock.Add(59 * time.Minute)
	s.NoError(s.tracker.Check(s.ctx, 100))

	s.clock.Add(2 * time.Minute)
	err := s.tracker.Check(s.ctx, 100)
	var stale ErrStaleRevision
	s.Require().ErrorAs(err, &stale)
	s.Equal(101, stale.Server)
	s.Equal(100, stale.Worker)
}

func (s *TrackerTestSuite) TestUnknownServerRevision() {
	s.revision = 0
	s.NoError(s.tracker.Check(s.ctx, 5))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revision")
	s := FileSource{Path: path}

	_, err := s.Revision(context.Background())
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
	if err = os.WriteFile(path, []byte("4321\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	revision, err := s.Revision(context.Background())
	if err != nil || revision != 4321 {
		t.Fatalf("unexpected revision %d: %v", revision, err)
	}
}
