package authn

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HTTPVerifier checks an access token by round-tripping to the provider's
// user endpoint. This is the default mode: the cookie payload is never
// taken as proof of identity without this call.
type HTTPVerifier struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPVerifier(baseURL, apiKey string) *HTTPVerifier {
	return &HTTPVerifier{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, accessToken string) (Identity, error) {
	if accessToken == "" {
		return Identity{}, ErrInvalidToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.BaseURL+"/user", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if v.APIKey != "" {
		req.Header.Set("apikey", v.APIKey)
	}
	resp, err := v.Client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		var id Identity
		if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
			return Identity{}, fmt.Errorf("identity provider response: %w", err)
		}
		if id.ID == "" {
			return Identity{}, ErrInvalidToken
		}
		return id, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrInvalidToken
	default:
		return Identity{}, fmt.Errorf("identity provider status %d", resp.StatusCode)
	}
}

// CachedVerifier wraps another Verifier with a short-TTL cache of
// successful verifications, keyed by token digest. It short-circuits the
// per-request provider round-trip; rejections are never cached.
type CachedVerifier struct {
	next Verifier
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]cachedIdentity
}

type cachedIdentity struct {
	id      Identity
	expires time.Time
}

func NewCachedVerifier(next Verifier, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{next: next, ttl: ttl, entries: map[string]cachedIdentity{}}
}

func (c *CachedVerifier) Verify(ctx context.Context, accessToken string) (Identity, error) {
	key := tokenDigest(accessToken)
	c.mu.RLock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expires) {
		c.mu.RUnlock()
		return e.id, nil
	}
	c.mu.RUnlock()

	id, err := c.next.Verify(ctx, accessToken)
	if err != nil {
		return Identity{}, err
	}
	c.mu.Lock()
	// Opportunistic prune so abandoned tokens do not accumulate.
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cachedIdentity{id: id, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return id, nil
}

func tokenDigest(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}
