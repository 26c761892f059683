// cmd/storefront-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiendita/internal/shops"
	"tiendita/internal/storefront"
	"tiendita/pkg/authn"
	"tiendita/pkg/config"
	"tiendita/pkg/db"
	"tiendita/pkg/logger"
	"tiendita/pkg/ratelimit"
	"tiendita/pkg/routes"
	"tiendita/pkg/session"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var store shops.Store
	if pool != nil {
		store = shops.NewPostgresStore(pool, log)
		if err := shops.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		if err := shops.SeedFromEnv(context.Background(), pool, os.Getenv("SHOP_SEED_JSON")); err != nil {
			log.Warnw("seed", "err", err)
		}
	} else {
		store = shops.NewMemoryStore(log)
	}

	auth := authn.NewClient(cfg.AuthBaseURL, cfg.AuthAnonKey, cfg.AuthServiceKey)
	var verifier authn.Verifier
	if cfg.AuthVerifyMode == "jwks" && cfg.AuthJWKSURL != "" {
		verifier = authn.NewJWKSVerifier(cfg.AuthIssuer, cfg.AuthJWKSURL)
	} else {
		verifier = authn.NewHTTPVerifier(cfg.AuthBaseURL, cfg.AuthAnonKey)
	}
	if cfg.VerifiedTTL > 0 {
		verifier = authn.NewCachedVerifier(verifier, cfg.VerifiedTTL)
	}

	bridge := session.New(cfg.ProjectRef, cfg.SecureCookies(), cfg.RefreshLeeway, auth)

	var limiter ratelimit.Limiter
	if rdb != nil {
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
	} else {
		limiter = ratelimit.NewSlidingWindow(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	table := routes.Default()
	if cfg.RouteTableFile != "" {
		t, err := routes.Load(cfg.RouteTableFile)
		if err != nil {
			log.Fatalw("route table", "file", cfg.RouteTableFile, "err", err)
		}
		table = t
	}

	app := storefront.New(log, cfg, store, bridge, verifier, auth, limiter, table)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: app.Handler()}
	go func() {
		log.Infow("storefront-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("storefront-service stopped")
}
