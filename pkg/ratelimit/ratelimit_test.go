package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlidingWindowDeniesAtLimit(t *testing.T) {
	l := NewSlidingWindow(5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "1.2.3.4"), "hit %d", i+1)
	}
	require.ErrorIs(t, l.Allow(ctx, "1.2.3.4"), ErrLimited)
	// Other keys are unaffected.
	require.NoError(t, l.Allow(ctx, "5.6.7.8"))
}

func TestSlidingWindowSlides(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewSlidingWindow(2, time.Minute)
	l.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "k"))
	clock = clock.Add(30 * time.Second)
	require.NoError(t, l.Allow(ctx, "k"))
	require.ErrorIs(t, l.Allow(ctx, "k"), ErrLimited)

	// The first hit ages out; one slot opens while the second hit still
	// counts. A fixed-bucket reset would have opened both.
	clock = clock.Add(31 * time.Second)
	require.NoError(t, l.Allow(ctx, "k"))
	require.ErrorIs(t, l.Allow(ctx, "k"), ErrLimited)
}

func TestSlidingWindowDenialDoesNotConsume(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewSlidingWindow(1, time.Minute)
	l.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "k"))
	for i := 0; i < 10; i++ {
		require.ErrorIs(t, l.Allow(ctx, "k"), ErrLimited)
	}
	// Denied attempts never extend the window.
	clock = clock.Add(61 * time.Second)
	require.NoError(t, l.Allow(ctx, "k"))
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "10.0.0.9:4321"
	require.Equal(t, "10.0.0.9", ClientKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", ClientKey(r))

	r.Header.Set("X-Forwarded-For", "  ")
	require.Equal(t, "10.0.0.9", ClientKey(r))

	r.Header.Del("X-Forwarded-For")
	r.RemoteAddr = ""
	require.Equal(t, "unknown", ClientKey(r))
}
