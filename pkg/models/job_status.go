package models

import (
	"fmt"
	"strings"
)

// JobStatus is the lifecycle status of a job. Statuses are totally ordered by their level,
// which is used to detect stale or out of order updates. The legacy code is only kept for
// reporting to older clients.
//
//go:generate stringer -type=JobStatus -linecomment -output job_status_string.go
type JobStatus int

const (
	JobStatusAny JobStatus = iota // ANY
	JobStatusInserting            // INSERTING
	JobStatusUpdating             // UPDATING
	JobStatusSplitting            // SPLITTING
	JobStatusToStage              // TO_STAGE
	JobStatusAStaged              // A_STAGED
	JobStatusSplit                // SPLIT
	JobStatusStaging              // STAGING
	JobStatusWaiting              // WAITING
	JobStatusOverWaiting          // OVER_WAITING
	JobStatusAssigned             // ASSIGNED
	JobStatusStarted              // STARTED
	JobStatusIdle                 // IDLE
	JobStatusInteractive          // INTERACTIV
	JobStatusRunning              // RUNNING
	JobStatusSaving               // SAVING
	JobStatusSaved                // SAVED
	JobStatusSavedWarn            // SAVED_WARN
	JobStatusZombie               // ZOMBIE
	JobStatusForceMerge           // FORCEMERGE
	JobStatusMerging              // MERGING
	JobStatusDone                 // DONE
	JobStatusDoneWarn             // DONE_WARN
	JobStatusErrorA               // ERROR_A
	JobStatusErrorI               // ERROR_I
	JobStatusErrorE               // ERROR_E
	JobStatusErrorIB              // ERROR_IB
	JobStatusErrorM               // ERROR_M
	JobStatusErrorRE              // ERROR_RE
	JobStatusErrorS               // ERROR_S
	JobStatusErrorSV              // ERROR_SV
	JobStatusErrorV               // ERROR_V
	JobStatusErrorVN              // ERROR_VN
	JobStatusErrorVT              // ERROR_VT
	JobStatusErrorEW              // ERROR_EW
	JobStatusErrorW               // ERROR_W
	JobStatusErrorSplit           // ERROR_SPLT
	JobStatusErrorVer             // ERROR_VER
	JobStatusFaulty               // FAULTY
	JobStatusIncorrect            // INCORRECT
	JobStatusExpired              // EXPIRED
	JobStatusFailed               // FAILED
	JobStatusKilled               // KILLED
)

var jobStatusAttributes = [...]struct {
	level      int
	legacyCode int
}{
	JobStatusAny:         {-1, 0},
	JobStatusInserting:   {10, 1},
	JobStatusUpdating:    {11, 23},
	JobStatusSplitting:   {15, 2},
	JobStatusToStage:     {16, 17},
	JobStatusAStaged:     {17, 18},
	JobStatusSplit:       {18, 3},
	JobStatusStaging:     {19, 19},
	JobStatusWaiting:     {20, 5},
	JobStatusOverWaiting: {21, 21},
	JobStatusAssigned:    {25, 6},
	JobStatusStarted:     {40, 7},
	JobStatusIdle:        {45, 9},
	JobStatusInteractive: {46, 8},
	JobStatusRunning:     {50, 10},
	JobStatusSaving:      {60, 11},
	JobStatusSaved:       {70, 12},
	JobStatusSavedWarn:   {71, 22},
	JobStatusZombie:      {600, -15},
	JobStatusForceMerge:  {700, 14},
	JobStatusMerging:     {701, 13},
	JobStatusDone:        {800, 15},
	JobStatusDoneWarn:    {801, 16},
	JobStatusErrorA:      {900, -1},
	JobStatusErrorI:      {901, -2},
	JobStatusErrorE:      {902, -3},
	JobStatusErrorIB:     {903, -4},
	JobStatusErrorM:      {904, -5},
	JobStatusErrorRE:     {905, -17},
	JobStatusErrorS:      {906, -7},
	JobStatusErrorSV:     {907, -9},
	JobStatusErrorV:      {908, -10},
	JobStatusErrorVN:     {909, -11},
	JobStatusErrorVT:     {910, -16},
	JobStatusErrorEW:     {911, -18},
	JobStatusErrorW:      {912, -19},
	JobStatusErrorSplit:  {913, -8},
	JobStatusErrorVer:    {914, -20},
	JobStatusFaulty:      {950, 24},
	JobStatusIncorrect:   {951, 25},
	JobStatusExpired:     {1000, -12},
	JobStatusFailed:      {1001, -13},
	JobStatusKilled:      {1002, -14},
}

// Level returns the position of the status in the lifecycle order.
func (s JobStatus) Level() int {
	if !s.IsValid() {
		return -1
	}
	return jobStatusAttributes[s].level
}

// LegacyCode returns the numeric code used by older reporting tools.
func (s JobStatus) LegacyCode() int {
	if !s.IsValid() {
		return 0
	}
	return jobStatusAttributes[s].legacyCode
}

func (s JobStatus) IsValid() bool {
	return s >= JobStatusAny && s <= JobStatusKilled
}

// IsErrorCode is true for the contiguous ERROR_* statuses.
func (s JobStatus) IsErrorCode() bool {
	return s.Level() >= JobStatusErrorA.Level() && s.Level() < JobStatusExpired.Level()
}

// IsError is true for every erroneous terminal status, ERROR_* through FAILED.
func (s JobStatus) IsError() bool {
	return s.Level() >= JobStatusErrorA.Level() && s.Level() <= JobStatusFailed.Level()
}

// IsDone is true for successful terminal statuses.
func (s JobStatus) IsDone() bool {
	return s == JobStatusDone || s == JobStatusDoneWarn
}

// IsFinal is true once the job reached a status it never leaves without a resubmission.
func (s JobStatus) IsFinal() bool {
	return s.Level() >= JobStatusDone.Level()
}

func (s JobStatus) IsWaiting() bool {
	switch s {
	case JobStatusInserting, JobStatusExpired, JobStatusWaiting, JobStatusAssigned:
		return true
	default:
		return false
	}
}

func (s JobStatus) IsRunning() bool {
	switch s {
	case JobStatusStarted, JobStatusRunning, JobStatusSaving:
		return true
	default:
		return false
	}
}

// DestroysToken is true for statuses in which the execution credential is no longer needed.
func (s JobStatus) DestroysToken() bool {
	return s.IsFinal() || s == JobStatusSaved || s == JobStatusSavedWarn
}

// WasDispatched is true when a worker may still be running the job.
func (s JobStatus) WasDispatched() bool {
	switch s {
	case JobStatusStarted, JobStatusRunning, JobStatusAssigned, JobStatusZombie, JobStatusSaving:
		return true
	default:
		return false
	}
}

// isDisplayHold marks the statuses in which a master job refuses regressions.
func (s JobStatus) isDisplayHold() bool {
	return s == JobStatusZombie || s == JobStatusIdle || s == JobStatusInteractive
}

func (s JobStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *JobStatus) UnmarshalText(text []byte) error {
	status, err := ParseJobStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// ParseJobStatus resolves a status by its name, case insensitively.
func ParseJobStatus(name string) (JobStatus, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s := JobStatusAny; s <= JobStatusKilled; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return JobStatusAny, fmt.Errorf("unknown job status %q", name)
}

// JobStatusFromLegacyCode resolves a status from its legacy numeric code.
func JobStatusFromLegacyCode(code int) (JobStatus, error) {
	for s := JobStatusAny; s <= JobStatusKilled; s++ {
		if s.LegacyCode() == code {
			return s, nil
		}
	}
	return JobStatusAny, fmt.Errorf("unknown legacy job status code %d", code)
}

// FinalStatuses lists every final status, in lifecycle order.
func FinalStatuses() []JobStatus {
	var statuses []JobStatus
	for s := JobStatusAny; s <= JobStatusKilled; s++ {
		if s.IsFinal() {
			statuses = append(statuses, s)
		}
	}
	return statuses
}

// CanTransition reports whether a job currently in status `from` may move to `to`.
// A master job held in a display state (ZOMBIE, IDLE, INTERACTIV) only accepts
// strictly later statuses, so a stale duplicate update cannot regress it.
func CanTransition(from, to JobStatus, isMaster bool) bool {
	if !to.IsValid() || to == JobStatusAny {
		return false
	}
	if isMaster && from.isDisplayHold() && to.Level() <= from.Level() {
		return false
	}
	return true
}
