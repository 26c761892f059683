package storefront

import (
	"go.uber.org/zap"

	"tiendita/internal/shops"
	"tiendita/pkg/authn"
	"tiendita/pkg/cache"
	"tiendita/pkg/config"
	"tiendita/pkg/csrf"
	"tiendita/pkg/ratelimit"
	"tiendita/pkg/routes"
	"tiendita/pkg/session"
)

// App is the storefront application container.
// Handlers and middleware have methods on this type.
//
// Keep it lean: shared deps and config only.
// Request-scoped work should use context.
type App struct {
	log      *zap.SugaredLogger
	cfg      config.Config
	store    shops.Store
	bridge   *session.Bridge
	verifier authn.Verifier
	auth     *authn.Client
	csrf     *csrf.Service
	limiter  ratelimit.Limiter
	snaps    *cache.Cache[shops.Snapshot]
	table    *routes.Table
}

// New wires the application from constructed dependencies. No package
// globals: the rate limiter and snapshot cache are injected so tests can
// substitute their own.
func New(
	log *zap.SugaredLogger,
	cfg config.Config,
	store shops.Store,
	bridge *session.Bridge,
	verifier authn.Verifier,
	auth *authn.Client,
	limiter ratelimit.Limiter,
	table *routes.Table,
) *App {
	return &App{
		log:      log,
		cfg:      cfg,
		store:    store,
		bridge:   bridge,
		verifier: verifier,
		auth:     auth,
		csrf:     &csrf.Service{Secure: cfg.SecureCookies()},
		limiter:  limiter,
		snaps:    cache.New[shops.Snapshot](cfg.CacheSize, cfg.CacheTTL),
		table:    table,
	}
}
