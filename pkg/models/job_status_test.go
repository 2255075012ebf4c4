//go:build unit || !integration

package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type JobStatusTestSuite struct {
	suite.Suite
}

func TestJobStatusTestSuite(t *testing.T) {
	suite.Run(t, new(JobStatusTestSuite))
}

func (s *JobStatusTestSuite) TestLevelsAreStrictlyIncreasing() {
	for status := JobStatusInserting; status <= JobStatusKilled; status++ {
		s.Greater(status.Level(), (status - 1).Level(), "level of %s", status)
	}
}

func (s *JobStatusTestSuite) TestNamesAndLegacyCodes() {
	s.Equal("INTERACTIV", JobStatusInteractive.String())
	s.Equal("ERROR_SPLT", JobStatusErrorSplit.String())
	s.Equal(-15, JobStatusZombie.LegacyCode())
	s.Equal(5, JobStatusWaiting.LegacyCode())

	status, err := ParseJobStatus("error_ew")
	s.Require().NoError(err)
	s.Equal(JobStatusErrorEW, status)

	status, err = JobStatusFromLegacyCode(-14)
	s.Require().NoError(err)
	s.Equal(JobStatusKilled, status)

	_, err = ParseJobStatus("PAUSED")
	s.Error(err)
	s.Equal("JobStatus(99)", JobStatus(99).String())
}

func (s *JobStatusTestSuite) TestDerivedSets() {
	s.True(JobStatusExpired.IsWaiting())
	s.True(JobStatusAssigned.IsWaiting())
	s.False(JobStatusStarted.IsWaiting())

	s.True(JobStatusSaving.IsRunning())
	s.False(JobStatusSaved.IsRunning())

	s.True(JobStatusErrorVer.IsErrorCode())
	s.False(JobStatusFaulty.IsErrorCode())
	s.True(JobStatusFailed.IsError())
	s.True(JobStatusExpired.IsError())
	s.False(JobStatusKilled.IsError())

	s.True(JobStatusDoneWarn.IsDone())
	for _, status := range []JobStatus{JobStatusDone, JobStatusErrorE, JobStatusExpired, JobStatusKilled} {
		s.True(status.IsFinal(), status.String())
	}
	s.False(JobStatusZombie.IsFinal())
	s.Len(FinalStatuses(), 22)

	s.True(JobStatusSavedWarn.DestroysToken())
	s.False(JobStatusSaving.DestroysToken())
}

func (s *JobStatusTestSuite) TestMasterJobInDisplayStateRefusesRegression() {
	s.False(CanTransition(JobStatusZombie, JobStatusStarted, true))
	s.False(CanTransition(JobStatusZombie, JobStatusZombie, true))
	s.True(CanTransition(JobStatusZombie, JobStatusDone, true))
	s.False(CanTransition(JobStatusInteractive, JobStatusIdle, true))

	// only master jobs are protected
	s.True(CanTransition(JobStatusZombie, JobStatusStarted, false))
	s.True(CanTransition(JobStatusRunning, JobStatusWaiting, true))

	s.False(CanTransition(JobStatusRunning, JobStatusAny, false))
}

func (s *JobStatusTestSuite) TestTextRoundTripUsesNames() {
	text, err := JobStatusErrorEW.MarshalText()
	s.Require().NoError(err)
	s.Equal("ERROR_EW", string(text))

	var status JobStatus
	s.Require().NoError(status.UnmarshalText([]byte("SAVED_WARN")))
	s.Equal(JobStatusSavedWarn, status)
}
