package storefront

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiendita_shop_cache_hits_total",
		Help: "Owner dashboard snapshots served from cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiendita_shop_cache_misses_total",
		Help: "Owner dashboard snapshots re-read from the store.",
	})
	rateLimitRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiendita_rate_limit_rejected_total",
		Help: "Write requests rejected by the sliding-window limiter.",
	}, []string{"endpoint"})
)
