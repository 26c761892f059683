package storefront

import (
	"errors"
	"net/http"

	"tiendita/pkg/authn"
	"tiendita/pkg/ratelimit"
)

// requireIdentity authenticates an API request: read the session cookie,
// refresh the pair if it is about to expire, and verify the access token
// with the identity provider. On failure the response is already written
// and ok is false. Upstream failures are 500s, never an implicit allow.
func (a *App) requireIdentity(w http.ResponseWriter, r *http.Request) (authn.Identity, bool) {
	s, err := a.bridge.Read(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "not authorized: no authenticated user")
		return authn.Identity{}, false
	}
	s, changed, err := a.bridge.RefreshIfExpiring(r.Context(), s)
	if err != nil {
		a.log.Warnw("session refresh failed", "err", err)
		a.bridge.Clear(w)
		writeError(w, http.StatusUnauthorized, "unauthenticated", "not authorized: session expired")
		return authn.Identity{}, false
	}
	if changed {
		a.bridge.Write(w, s)
	}
	id, err := a.verifier.Verify(r.Context(), s.AccessToken)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "not authorized: no authenticated user")
		} else {
			a.log.Errorw("identity verification failed upstream", "err", err)
			writeError(w, http.StatusInternalServerError, "upstream-failure", "identity provider unavailable")
		}
		return authn.Identity{}, false
	}
	return id, true
}

// guardWrite applies the write-endpoint defenses shared by every mutation
// handler: the sliding-window rate limit per client network identity,
// then the double-submit CSRF check. Both short-circuit before any state
// is touched.
func (a *App) guardWrite(w http.ResponseWriter, r *http.Request, endpoint string) bool {
	if err := a.limiter.Allow(r.Context(), ratelimit.ClientKey(r)); err != nil {
		if errors.Is(err, ratelimit.ErrLimited) {
			rateLimitRejectedTotal.WithLabelValues(endpoint).Inc()
			writeError(w, http.StatusTooManyRequests, "rate-limited", "too many requests, retry later")
			return false
		}
		// Limiter backend failure: deny rather than let writes through
		// unmetered.
		a.log.Errorw("rate limiter failure", "err", err)
		writeError(w, http.StatusInternalServerError, "upstream-failure", "rate limiter unavailable")
		return false
	}
	if err := a.csrf.Verify(r); err != nil {
		writeError(w, http.StatusForbidden, "csrf-invalid", err.Error())
		return false
	}
	return true
}
