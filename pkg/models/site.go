package models

import "time"

// Site queue states and broker verdicts.
const (
	SiteQueueOpen   = "open"
	SiteQueueLocked = "locked"

	SiteStatusMatch          = "jobagent-match"
	SiteStatusNoMatch        = "jobagent-no-match"
	SiteStatusInstallPackage = "jobagent-install-pack"
)

// SiteQueue is the administrative record of one CE.
type SiteQueue struct {
	CE      string `json:"CE"`
	Blocked string `json:"Blocked"`
	// Status is the last verdict the broker reached for the CE.
	Status        string          `json:"Status"`
	LastRejection RejectionRecord `json:"LastRejection"`
}

func (q SiteQueue) IsOpen() bool {
	return q.Blocked == SiteQueueOpen
}

// RejectionRecord is the last reason a CE was turned away. It is overwritten on every rejection.
type RejectionRecord struct {
	CE     string    `json:"CE"`
	Reason string    `json:"Reason"`
	Time   time.Time `json:"Time"`
}

// CEConfig holds the site-level constraints merged into a worker snapshot.
type CEConfig struct {
	CE           string   `json:"CE"`
	Users        []string `json:"Users,omitempty"`
	NoUsers      []string `json:"NoUsers,omitempty"`
	Partitions   []string `json:"Partitions,omitempty"`
	RequiredCPUs string   `json:"RequiredCPUs,omitempty"`
}

// Apply fills the snapshot fields the worker did not advertise itself.
func (c CEConfig) Apply(w WorkerSnapshot) WorkerSnapshot {
	if len(w.Users) == 0 {
		w.Users = c.Users
	}
	if len(w.NoUsers) == 0 {
		w.NoUsers = c.NoUsers
	}
	if len(w.Partitions) == 0 {
		w.Partitions = c.Partitions
	}
	if w.RequiredCPUs == "" {
		w.RequiredCPUs = c.RequiredCPUs
	}
	return w
}

// Host liveness states.
const (
	HostStatusActive = "ACTIVE"
)
