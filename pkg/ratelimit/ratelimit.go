// Package ratelimit bounds write-endpoint request rate per client network
// identity with a sliding 60-second window: old hits are pruned
// continuously rather than reset in fixed buckets.
package ratelimit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrLimited means the key exhausted its window; the caller may retry
// after the window slides.
var ErrLimited = errors.New("rate limited")

// Limiter admits or rejects a request for a key.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// SlidingWindow is the in-process limiter: per-key timestamp lists,
// pruned lazily on each access. Pruning happens only when a key is
// touched again; a key that never returns keeps its (empty) entry until
// process restart.
type SlidingWindow struct {
	limit  int
	window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   map[string][]time.Time{},
		now:    time.Now,
	}
}

func (l *SlidingWindow) Allow(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.limit {
		l.hits[key] = kept
		return ErrLimited
	}
	l.hits[key] = append(kept, now)
	return nil
}

// ClientKey derives the limiter key from the request's network identity:
// first X-Forwarded-For hop, else the remote address host, else a shared
// "unknown" bucket. The forwarded header is trusted as-is.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		if s := strings.TrimSpace(fwd); s != "" {
			return s
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
