// Package csrf implements the double-submit cookie protocol: a random
// token is held in an HTTP-only cookie and mirrored by the client into a
// request header on state-changing calls. Verification compares the two
// values; it performs no I/O.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
)

const (
	// CookieName is the cookie holding the issued token.
	CookieName = "csrf_token"
	// HeaderName is the request header the client mirrors the token into.
	HeaderName = "x-csrf-token"

	tokenBytes = 32
)

var (
	// ErrMissing means the cookie or header token is absent.
	ErrMissing = errors.New("csrf token missing")
	// ErrMismatch means cookie and header tokens differ.
	ErrMismatch = errors.New("csrf token mismatch")
)

// Service issues and validates per-browser-session tokens.
type Service struct {
	Secure bool
}

// Issue returns the token already bound to this browser session, or
// generates a fresh 256-bit token and sets the cookie. Tokens are never
// rotated after issuance.
func (s *Service) Issue(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	tok := hex.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   s.Secure,
	})
	return tok, nil
}

// Verify compares the cookie token against the header token. Constant-time
// comparison; no rotation on success.
func (s *Service) Verify(r *http.Request) error {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return ErrMissing
	}
	header := r.Header.Get(HeaderName)
	if header == "" {
		return ErrMissing
	}
	if subtle.ConstantTimeCompare([]byte(c.Value), []byte(header)) != 1 {
		return ErrMismatch
	}
	return nil
}
