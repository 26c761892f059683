// Package session mirrors the client-held identity session into a
// server-readable cookie. The identity provider's default storage lives in
// the browser and is invisible to server handlers, so the client posts the
// token pair here and every request reads it back from the cookie.
//
// The cookie is an opaque bridge only: decoding it proves nothing. Callers
// must verify the access token via authn before treating the session as an
// identity.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"tiendita/pkg/authn"
)

// Session is the credential triple held by the cookie.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Expiry returns the session's expiry instant.
func (s Session) Expiry() time.Time { return time.Unix(s.ExpiresAt, 0) }

// Complete reports whether all three fields are present.
func (s Session) Complete() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && s.ExpiresAt != 0
}

// ErrNoSession means the request carries no decodable session cookie.
var ErrNoSession = errors.New("no session")

// Refresher exchanges a refresh token for a fresh pair. *authn.Client
// satisfies this.
type Refresher interface {
	RefreshSession(ctx context.Context, refreshToken string) (authn.Tokens, error)
}

// Bridge reads and writes the session cookie.
type Bridge struct {
	CookieName string
	Secure     bool
	Leeway     time.Duration
	Refresh    Refresher

	now func() time.Time
}

// New builds a Bridge. The cookie name embeds the project ref so multiple
// deployments on one host do not clobber each other.
func New(projectRef string, secure bool, leeway time.Duration, refresh Refresher) *Bridge {
	return &Bridge{
		CookieName: "tn-" + projectRef + "-auth-token",
		Secure:     secure,
		Leeway:     leeway,
		Refresh:    refresh,
		now:        time.Now,
	}
}

// Read decodes the session cookie. ErrNoSession when absent or malformed;
// a malformed cookie is indistinguishable from no session and is denied
// the same way.
func (b *Bridge) Read(r *http.Request) (Session, error) {
	c, err := r.Cookie(b.CookieName)
	if err != nil {
		return Session{}, ErrNoSession
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return Session{}, ErrNoSession
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil || !s.Complete() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Write mirrors the session into the cookie: Path=/, SameSite=Lax,
// HttpOnly, Secure in production. The JSON payload is query-escaped to
// stay cookie-safe.
func (b *Bridge) Write(w http.ResponseWriter, s Session) {
	raw, _ := json.Marshal(s)
	http.SetCookie(w, &http.Cookie{
		Name:     b.CookieName,
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   b.Secure,
	})
}

// Clear deletes the session cookie.
func (b *Bridge) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     b.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   b.Secure,
	})
}

// RefreshIfExpiring returns the session to use for this request,
// refreshing through the provider when expiry is within the leeway.
// Invoked at the top of each authenticated request path; there is no
// ambient auth-state subscription. The bool reports whether the session
// changed and should be re-written to the cookie.
func (b *Bridge) RefreshIfExpiring(ctx context.Context, s Session) (Session, bool, error) {
	if b.now().Add(b.Leeway).Before(s.Expiry()) {
		return s, false, nil
	}
	if b.Refresh == nil {
		return s, false, nil
	}
	tok, err := b.Refresh.RefreshSession(ctx, s.RefreshToken)
	if err != nil {
		return Session{}, false, err
	}
	return Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.ExpiresAt,
	}, true, nil
}
