// Package firebase verifies Firebase Authentication ID tokens.
package firebase

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"cookiegallery/internal/domain/identity"

	"github.com/golang-jwt/jwt/v5"
)

const issuerPrefix = "https://securetoken.google.com/"

type KeySource interface {
	PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	AuthTime      int64  `json:"auth_time,omitempty"`
}

type Verifier struct {
	projectID string
	keys      KeySource
	now       func() time.Time
}

func NewVerifier(projectID string, keys KeySource) *Verifier {
	return &Verifier{projectID: projectID, keys: keys, now: time.Now}
}

func (v *Verifier) Verify(ctx context.Context, token string) (identity.Identity, error) {
	if token == "" {
		return identity.Identity{}, fmt.Errorf("%w: missing token", identity.ErrUnauthenticated)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, v.keyFunc(ctx),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, identity.ErrVerifierUnavailable) {
			return identity.Identity{}, identity.ErrVerifierUnavailable
		}
		return identity.Identity{}, fmt.Errorf("%w: %w", identity.ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return identity.Identity{}, fmt.Errorf("%w: token has no subject", identity.ErrUnauthenticated)
	}
	if claims.AuthTime > v.now().Unix() {
		return identity.Identity{}, fmt.Errorf("%w: auth_time in the future", identity.ErrUnauthenticated)
	}

	return identity.Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token header has no kid")
		}
		return v.keys.PublicKey(ctx, kid)
	}
}
