package token

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const DefaultIssuer = "gridbroker"

// jobClaims is the JWT payload of a job credential.
type jobClaims struct {
	jwt.RegisteredClaims
	JobID        int64 `json:"jobId"`
	Resubmission int   `json:"resubmission"`
}

// JWTMinter mints HS256 signed JWTs.
type JWTMinter struct {
	secret []byte
	issuer string
	clock  clock.Clock
}

func NewJWTMinter(secret []byte, issuer string, c clock.Clock) (*JWTMinter, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is empty")
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if c == nil {
		c = clock.New()
	}
	return &JWTMinter{secret: secret, issuer: issuer, clock: c}, nil
}

func (m *JWTMinter) Mint(_ context.Context, claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jobClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			Subject:   claims.Owner,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(m.clock.Now()),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		JobID:        claims.JobID,
		Resubmission: claims.Resubmission,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign job credential")
	}
	return signed, nil
}

func (m *JWTMinter) Parse(_ context.Context, credential string) (Claims, error) {
	var claims jobClaims
	_, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return Claims{}, errors.Wrap(err, "invalid job credential")
	}
	if claims.ExpiresAt == nil {
		return Claims{}, errors.New("job credential has no expiry")
	}
	return Claims{
		JobID:        claims.JobID,
		Resubmission: claims.Resubmission,
		Owner:        claims.Subject,
		ID:           claims.ID,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// compile-time check whether the JWTMinter implementation satisfies the interface.
var _ Minter = (*JWTMinter)(nil)
