//go:generate mockgen --source types.go --destination mocks.go --package token
package token

import (
	"context"
	"time"
)

// Claims are the facts a credential vouches for.
type Claims struct {
	JobID        int64
	Resubmission int
	Owner        string
	// ID is the unique identifier (jti) of the credential.
	ID        string
	ExpiresAt time.Time
}

// Minter signs and verifies job credentials.
type Minter interface {
	// Mint returns the signed form of claims.
	Mint(ctx context.Context, claims Claims) (string, error)
	// Parse verifies a signed credential and returns its claims.
	Parse(ctx context.Context, credential string) (Claims, error)
}
