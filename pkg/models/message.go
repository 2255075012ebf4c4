package models

import (
	"fmt"
	"time"
)

const (
	MessageActionKill = "killProcess"
	MessageTargetJob  = "JobAgent"
)

// Message is a fire-and-forget instruction addressed to an execution host.
type Message struct {
	// Target identifies the recipient, such as "<host>-<jobId>-<resubmission>".
	Target  string    `json:"Target"`
	Host    string    `json:"Host"`
	JobID   int64     `json:"JobID"`
	Action  string    `json:"Action"`
	Payload string    `json:"Payload,omitempty"`
	Expires time.Time `json:"Expires"`
}

// NewKillMessage addresses a kill instruction for one run of a job.
func NewKillMessage(host string, jobID int64, resubmission int, expires time.Time) Message {
	return Message{
		Target:  fmt.Sprintf("%s-%d-%d", host, jobID, resubmission),
		Host:    host,
		JobID:   jobID,
		Action:  MessageActionKill,
		Payload: fmt.Sprintf("%d", jobID),
		Expires: expires,
	}
}
