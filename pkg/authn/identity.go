// Package authn bridges the service to the external identity provider.
//
// The provider is the source of truth for who a caller is: it issues
// access/refresh token pairs at sign-in and validates access tokens on
// demand. Nothing in this package trusts a token without asking the
// provider (or its published keys) first.
package authn

import (
	"context"
	"errors"
)

// Identity is an authenticated principal as reported by the provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Tokens is the credential pair the provider hands out at sign-in and
// refresh. ExpiresAt is a unix timestamp.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// ErrInvalidToken means the provider rejected the access token. Any other
// error from Verify is an upstream failure and must be treated as a denial,
// never as success.
var ErrInvalidToken = errors.New("invalid access token")

// Verifier validates an access token and returns the identity behind it.
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (Identity, error)
}
