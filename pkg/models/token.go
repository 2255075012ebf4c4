package models

import "time"

// ExecutionToken is the credential record of one job instance. At most one exists per job,
// and it is only valid for the resubmission it was issued for.
type ExecutionToken struct {
	JobID        int64  `json:"JobID"`
	Resubmission int    `json:"Resubmission"`
	Owner        string `json:"Owner"`
	// CredentialID is the jti of the signed credential.
	CredentialID string    `json:"CredentialID"`
	LegacyToken  string    `json:"LegacyToken"`
	ExpiresAt    time.Time `json:"ExpiresAt"`
	// Credential is the signed credential. It is handed to the worker and never persisted.
	Credential string `json:"-"`
}

// IsExpired reports whether the token expired at the given time.
func (t ExecutionToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
