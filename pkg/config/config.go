// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Identity provider (external; issues access/refresh token pairs)
	AuthBaseURL    string
	AuthAnonKey    string
	AuthServiceKey string
	AuthVerifyMode string // roundtrip | jwks
	AuthIssuer     string
	AuthJWKSURL    string
	ProjectRef     string // embedded in the session cookie name

	// Session bridge
	RefreshLeeway time.Duration
	VerifiedTTL   time.Duration // >0 enables the short-TTL verified-token cache

	// Write-endpoint rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Owner dashboard snapshot cache
	CacheTTL  time.Duration
	CacheSize int

	// Optional route table override
	RouteTableFile string

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:             env("TIENDITA_ENV", "dev"),
		HTTPAddr:        env("TIENDITA_HTTP_ADDR", ":8080"),
		AuthBaseURL:     env("AUTH_BASE_URL", "http://localhost:9999"),
		AuthAnonKey:     env("AUTH_ANON_KEY", ""),
		AuthServiceKey:  env("AUTH_SERVICE_ROLE_KEY", ""),
		AuthVerifyMode:  env("AUTH_VERIFY_MODE", "roundtrip"),
		AuthIssuer:      env("AUTH_ISSUER", ""),
		AuthJWKSURL:     env("AUTH_JWKS_URL", ""),
		ProjectRef:      env("AUTH_PROJECT_REF", "tiendita"),
		RefreshLeeway:   envDur("SESSION_REFRESH_LEEWAY_SEC", 60) * time.Second,
		VerifiedTTL:     envDur("AUTH_VERIFIED_TTL_SEC", 0) * time.Second,
		RateLimitMax:    envInt("RATE_LIMIT_MAX", 5),
		RateLimitWindow: envDur("RATE_LIMIT_WINDOW_SEC", 60) * time.Second,
		CacheTTL:        envDur("SHOP_CACHE_TTL_SEC", 300) * time.Second,
		CacheSize:       envInt("SHOP_CACHE_SIZE", 100),
		RouteTableFile:  env("ROUTE_TABLE_FILE", ""),
		RedisURL:        env("REDIS_URL", ""),
		DatabaseURL:     env("DATABASE_URL", ""),
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set, using in-memory shop store for dev")
	}
	return cfg
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c Config) SecureCookies() bool { return c.Env == "prod" }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i)
		}
	}
	return time.Duration(def)
}
