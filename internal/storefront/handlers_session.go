package storefront

import (
	"encoding/json"
	"net/http"

	"tiendita/pkg/session"
)

// csrfToken returns the caller's anti-forgery token, issuing one on first
// read. The token rides an HTTP-only cookie; the client mirrors it into
// the x-csrf-token header on mutations.
func (a *App) csrfToken(w http.ResponseWriter, r *http.Request) {
	tok, err := a.csrf.Issue(w, r)
	if err != nil {
		a.log.Errorw("csrf issue failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not issue csrf token")
		return
	}
	writeJSON(w, map[string]string{"csrfToken": tok}, http.StatusOK)
}

// setSession mirrors the client-held identity session into the
// server-readable cookie. The payload is stored as-is; it is verified
// against the provider on every later request, never trusted directly.
func (a *App) setSession(w http.ResponseWriter, r *http.Request) {
	var s session.Session
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil || !s.Complete() {
		writeError(w, http.StatusBadRequest, "validation", "missing session fields")
		return
	}
	a.bridge.Write(w, s)
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// removeSession deletes the session cookie without contacting the
// provider.
func (a *App) removeSession(w http.ResponseWriter, r *http.Request) {
	a.bridge.Clear(w)
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// logout revokes the session upstream, then deletes the cookie.
func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	if s, err := a.bridge.Read(r); err == nil {
		if err := a.auth.SignOut(r.Context(), s.AccessToken); err != nil {
			a.log.Warnw("sign out failed upstream", "err", err)
			writeError(w, http.StatusInternalServerError, "upstream-failure", "could not sign out")
			return
		}
	}
	a.bridge.Clear(w)
	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}
