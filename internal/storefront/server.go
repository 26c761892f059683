package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tiendita/pkg/middleware"
)

// Handler builds the HTTP handler with routes and middleware. The
// authorization gate wraps everything; API endpoints are classified
// public at the gate and perform their own session/CSRF/ownership checks,
// matching their direct-call reachability.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(a.log))
	r.Use(middleware.Tracing())

	gate := &middleware.Authorizer{
		Log:      a.log,
		Table:    a.table,
		Bridge:   a.bridge,
		Verifier: a.verifier,
		Shops:    a.store,
	}
	r.Use(gate.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(api chi.Router) {
		api.Get("/csrf-token", a.csrfToken)
		api.Post("/auth/set-session", a.setSession)
		api.Post("/auth/remove-session", a.removeSession)
		api.Post("/logout", a.logout)
		api.Post("/register", a.register)
		api.Get("/shop-data", a.shopData)
		api.Get("/shop-data/public", a.shopDataPublic)
		api.Post("/products", a.createProduct)
		api.Post("/products/update", a.updateProduct)
		api.Post("/products/delete", a.deleteProduct)
		api.Post("/shop-settings", a.updateSettings)
	})

	// Page shells: real rendering happens client-side; the gate has
	// already allowed or redirected by the time these run.
	r.Get("/*", a.pageShell)

	return r
}
