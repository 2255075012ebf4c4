package models

import (
	"time"
)

// UnassignedSite is the pseudo site under which jobs without an assignment are counted.
const UnassignedSite = "unassigned::site"

// Job is the persisted record of a submitted job.
type Job struct {
	// ID is assigned by the store on insertion and never changes.
	ID     int64     `json:"ID"`
	Status JobStatus `json:"Status"`
	// Resubmission counts kills and resubmissions. A credential is only valid for the
	// resubmission it was issued for.
	Resubmission int    `json:"Resubmission"`
	Owner        string `json:"Owner"`
	OwnerID      int64  `json:"OwnerID"`
	// BucketID links a WAITING job to the capability bucket of its signature. Zero when unlinked.
	BucketID    int64  `json:"BucketID,omitempty"`
	Site        string `json:"Site,omitempty"`
	ExecHost    string `json:"ExecHost,omitempty"`
	OutputPath  string `json:"OutputPath,omitempty"`
	SpyURL      string `json:"SpyURL,omitempty"`
	MasterJobID int64  `json:"MasterJobID,omitempty"`
	IsMaster    bool   `json:"IsMaster,omitempty"`
	Priority    int    `json:"Priority"`
	// CommandID, NotifyID and SubmitHostID reference the lookup dictionaries.
	CommandID    int64 `json:"CommandID,omitempty"`
	NotifyID     int64 `json:"NotifyID,omitempty"`
	SubmitHostID int64 `json:"SubmitHostID,omitempty"`
	// Spec is the decoded job description as submitted.
	Spec JobSpec `json:"Spec"`
	// RemoteTimeout overrides how long the job waits before remote sites may run it.
	RemoteTimeout time.Duration `json:"RemoteTimeout,omitempty"`
	Created       time.Time     `json:"Created"`
	Started       time.Time     `json:"Started,omitempty"`
	Finished      time.Time     `json:"Finished,omitempty"`
	// Modified is updated on every status change.
	Modified time.Time `json:"Modified"`
}

// IsSubjob is true for children of a split master job.
func (j Job) IsSubjob() bool {
	return j.MasterJobID > 0
}

// CounterSite is the site under which the job is counted in the aggregate site counters.
func (j Job) CounterSite() string {
	if j.Site == "" {
		return UnassignedSite
	}
	return j.Site
}

// JobLogEntry is one line of a job's append-only trace.
type JobLogEntry struct {
	JobID   int64     `json:"JobID"`
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Message string    `json:"Message"`
}

// Job log actions.
const (
	JobLogActionState    = "state"
	JobLogActionTrace    = "trace"
	JobLogActionResubmit = "resubmit"
)
