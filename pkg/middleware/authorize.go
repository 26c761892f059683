// pkg/middleware/authorize.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"tiendita/internal/shops"
	"tiendita/pkg/authn"
	"tiendita/pkg/routes"
	"tiendita/pkg/session"
)

var authzDenialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tiendita_authz_denials_total",
	Help: "Requests short-circuited by the authorization gate.",
}, []string{"reason"})

// Authorizer is the request gate. Every request is classified against the
// route table; public requests pass through, everything else needs a
// verified session, and admin paths additionally need ownership of the
// addressed shop. Denials are redirects; no handler runs after a denial.
//
// Any ambiguity (unreadable session, provider error, store error) is a
// denial. Never fail open.
type Authorizer struct {
	Log      *zap.SugaredLogger
	Table    *routes.Table
	Bridge   *session.Bridge
	Verifier authn.Verifier
	Shops    shops.Store
}

func (a *Authorizer) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rt := a.Table.Classify(r.URL.Path)
			if rt.Class == routes.Public {
				next.ServeHTTP(w, r)
				return
			}

			s, err := a.Bridge.Read(r)
			if err != nil {
				a.deny(w, r, "/login", "no_session")
				return
			}
			s, changed, err := a.Bridge.RefreshIfExpiring(r.Context(), s)
			if err != nil {
				a.Log.Warnw("session refresh failed", "path", r.URL.Path, "err", err)
				a.Bridge.Clear(w)
				a.deny(w, r, "/login", "refresh_failed")
				return
			}
			if changed {
				a.Bridge.Write(w, s)
			}

			id, err := a.Verifier.Verify(r.Context(), s.AccessToken)
			if err != nil {
				if !errors.Is(err, authn.ErrInvalidToken) {
					a.Log.Errorw("identity verification upstream failure", "err", err)
				}
				a.deny(w, r, "/login", "unverified")
				return
			}
			ctx := WithIdentity(r.Context(), id)

			if rt.Class == routes.AuthenticatedOnly {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// ShopAdmin: resolve the addressed shop and enforce ownership.
			if rt.BareAdmin {
				if own, err := a.Shops.ShopByOwner(ctx, id.ID); err == nil {
					a.deny(w, r, "/"+own.Slug+"/admin", "bare_admin")
					return
				}
				a.deny(w, r, "/login", "no_shop")
				return
			}

			shop, err := a.Shops.ShopBySlug(ctx, rt.Slug)
			if err != nil {
				if !errors.Is(err, shops.ErrNotFound) {
					a.Log.Errorw("shop resolve failed", "slug", rt.Slug, "err", err)
				}
				a.deny(w, r, "/login", "shop_not_found")
				return
			}
			if shop.OwnerID != id.ID {
				// Not the owner: send the caller to their own admin if
				// they have one, otherwise to login.
				if own, err := a.Shops.ShopByOwner(ctx, id.ID); err == nil {
					a.deny(w, r, "/"+own.Slug+"/admin", "not_owner")
					return
				}
				a.deny(w, r, "/login", "not_owner")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithShop(ctx, shop)))
		})
	}
}

func (a *Authorizer) deny(w http.ResponseWriter, r *http.Request, target, reason string) {
	authzDenialsTotal.WithLabelValues(reason).Inc()
	a.Log.Infow("request denied", "path", r.URL.Path, "redirect", target, "reason", reason)
	http.Redirect(w, r, target, http.StatusFound)
}
