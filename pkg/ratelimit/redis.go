package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements the same sliding window on a Redis sorted set,
// for deployments running more than one replica. Member scores are
// nanosecond timestamps; each Allow prunes scores older than the window,
// reserves its own member, and counts.
//
// The reservation happens in the same MULTI/EXEC as the count, so the
// count every caller observes includes its own member. Concurrent callers
// therefore see distinct counts and at most `limit` of them pass; an
// over-limit caller removes its reservation again so denied attempts do
// not extend the window.
type RedisLimiter struct {
	cli    *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(cli *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{cli: cli, limit: limit, window: window, prefix: "ratelimit:", now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	k := l.prefix + key
	now := l.now().UnixNano()
	cutoff := strconv.FormatInt(now-l.window.Nanoseconds(), 10)
	// The member must be unique per request: two hits in the same
	// nanosecond would otherwise collapse into one set entry and
	// undercount.
	member := strconv.FormatInt(now, 10) + ":" + uuid.NewString()

	pipe := l.cli.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", cutoff)
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now), Member: member})
	card := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if card.Val() > int64(l.limit) {
		if err := l.cli.ZRem(ctx, k, member).Err(); err != nil {
			return err
		}
		return ErrLimited
	}
	return nil
}
