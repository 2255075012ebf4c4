package models

// MatchOutcome is the kind of answer a poll receives.
type MatchOutcome int

const (
	MatchOutcomeNothingToRun MatchOutcome = iota
	MatchOutcomeAssigned
	MatchOutcomeInstallPackages
	MatchOutcomeRejected
)

func (o MatchOutcome) String() string {
	switch o {
	case MatchOutcomeAssigned:
		return "assigned"
	case MatchOutcomeInstallPackages:
		return "install-packages"
	case MatchOutcomeRejected:
		return "rejected"
	default:
		return "nothing-to-run"
	}
}

// Code returns the numeric response code understood by job agents.
func (o MatchOutcome) Code() int {
	switch o {
	case MatchOutcomeAssigned:
		return 1
	case MatchOutcomeInstallPackages:
		return -3
	case MatchOutcomeRejected:
		return -1
	default:
		return -2
	}
}

// RejectionReason classifies why a poll was turned away.
type RejectionReason string

const (
	RejectionStaleRevision RejectionReason = "stale-image-revision"
	RejectionQueueClosed   RejectionReason = "queue-closed"
	RejectionHostUnknown   RejectionReason = "host-unknown"
)

// AssignedJob is what a worker receives when a job was claimed for it.
type AssignedJob struct {
	JobID        int64   `json:"JobID"`
	Resubmission int     `json:"Resubmission"`
	Owner        string  `json:"Owner"`
	Spec         JobSpec `json:"Spec"`
	Token        string  `json:"Token"`
	LegacyToken  string  `json:"LegacyToken"`
}

// MatchResponse is the answer to one poll.
type MatchResponse struct {
	Outcome MatchOutcome `json:"Outcome"`
	Code    int          `json:"Code"`
	Job     *AssignedJob `json:"Job,omitempty"`
	// Packages lists what the worker should install before polling again.
	Packages []string        `json:"Packages,omitempty"`
	Reason   RejectionReason `json:"Reason,omitempty"`
	Message  string          `json:"Message,omitempty"`
}

func NewAssignedResponse(job AssignedJob) MatchResponse {
	return MatchResponse{Outcome: MatchOutcomeAssigned, Code: MatchOutcomeAssigned.Code(), Job: &job}
}

func NewInstallPackagesResponse(packages []string) MatchResponse {
	return MatchResponse{
		Outcome:  MatchOutcomeInstallPackages,
		Code:     MatchOutcomeInstallPackages.Code(),
		Packages: packages,
	}
}

func NewNothingToRunResponse(message string) MatchResponse {
	return MatchResponse{Outcome: MatchOutcomeNothingToRun, Code: MatchOutcomeNothingToRun.Code(), Message: message}
}

func NewRejectedResponse(reason RejectionReason, message string) MatchResponse {
	return MatchResponse{
		Outcome: MatchOutcomeRejected,
		Code:    MatchOutcomeRejected.Code(),
		Reason:  reason,
		Message: message,
	}
}
