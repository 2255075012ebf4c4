package token

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/models"
)

const (
	DefaultTTL        = 24 * time.Hour
	legacyTokenLength = 32
	legacyAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrTokenMismatch is returned when a credential is well formed but no longer matches the
// token recorded for its job, typically because the job was resubmitted.
var ErrTokenMismatch = errors.New("credential does not match the current job token")

type IssuerParams struct {
	Store  jobstore.Store
	Minter Minter
	TTL    time.Duration
	Clock  clock.Clock
}

// Issuer creates, checks and revokes the execution tokens of jobs. At most one token
// exists per job; issuing again replaces it.
type Issuer struct {
	store  jobstore.Store
	minter Minter
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(params IssuerParams) *Issuer {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := params.Clock
	if c == nil {
		c = clock.New()
	}
	return &Issuer{store: params.Store, minter: params.Minter, ttl: ttl, clock: c}
}

// Issue mints a token for the current run of job and records it.
func (i *Issuer) Issue(ctx context.Context, job models.Job) (models.ExecutionToken, error) {
	legacy, err := newLegacyToken()
	if err != nil {
		return models.ExecutionToken{}, err
	}
	claims := Claims{
		JobID:        job.ID,
		Resubmission: job.Resubmission,
		Owner:        job.Owner,
		ID:           uuid.NewString(),
		ExpiresAt:    i.clock.Now().Add(i.ttl),
	}
	credential, err := i.minter.Mint(ctx, claims)
	if err != nil {
		return models.ExecutionToken{}, err
	}

	token := models.ExecutionToken{
		JobID:        job.ID,
		Resubmission: job.Resubmission,
		Owner:        job.Owner,
		CredentialID: claims.ID,
		LegacyToken:  legacy,
		ExpiresAt:    claims.ExpiresAt,
		Credential:   credential,
	}
	if err = i.store.PutToken(ctx, token); err != nil {
		return models.ExecutionToken{}, errors.Wrapf(err, "failed to store token of job %d", job.ID)
	}
	log.Ctx(ctx).Debug().Int64("JobID", job.ID).Str("jti", claims.ID).Msg("issued job token")
	return token, nil
}

// Validate verifies a credential and checks it against the stored token of its job.
func (i *Issuer) Validate(ctx context.Context, credential string) (models.ExecutionToken, error) {
	claims, err := i.minter.Parse(ctx, credential)
	if err != nil {
		return models.ExecutionToken{}, err
	}
	token, err := i.store.GetToken(ctx, claims.JobID)
	if err != nil {
		return models.ExecutionToken{}, err
	}
	if token.CredentialID != claims.ID || token.Resubmission != claims.Resubmission {
		return models.ExecutionToken{}, ErrTokenMismatch
	}
	if token.IsExpired(i.clock.Now()) {
		return models.ExecutionToken{}, fmt.Errorf("token of job %d expired at %s", token.JobID, token.ExpiresAt)
	}
	token.Credential = credential
	return token, nil
}

// Destroy revokes the token of a job. Revoking a job without token succeeds.
func (i *Issuer) Destroy(ctx context.Context, jobID int64) error {
	return i.store.DeleteToken(ctx, jobID)
}

func newLegacyToken() (string, error) {
	out := make([]byte, legacyTokenLength)
	max := big.NewInt(int64(len(legacyAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "failed to generate legacy token")
		}
		out[i] = legacyAlphabet[n.Int64()]
	}
	return string(out), nil
}
