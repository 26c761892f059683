package storefront_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tiendita/internal/shops"
	"tiendita/internal/storefront"
	"tiendita/pkg/authn"
	"tiendita/pkg/config"
	"tiendita/pkg/csrf"
	"tiendita/pkg/ratelimit"
	"tiendita/pkg/routes"
	"tiendita/pkg/session"
)

// fakeProvider is a minimal identity provider: access tokens are
// "tok-<email>" and refresh tokens "rt-<email>", so identity can be
// derived from the token itself.
type fakeProvider struct {
	mu      sync.Mutex
	users   map[string]string // email -> id
	deleted []string
}

func (p *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.users[in.Email]; ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
			return
		}
		id := "id-" + in.Email
		p.users[in.Email] = id
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": id, "email": in.Email},
		})
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		email, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer tok-")
		p.mu.Lock()
		id, known := p.users[email]
		p.mu.Unlock()
		if !ok || !known {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "email": email})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		email, ok := strings.CutPrefix(in.RefreshToken, "rt-")
		p.mu.Lock()
		_, known := p.users[email]
		p.mu.Unlock()
		if r.URL.Query().Get("grant_type") != "refresh_token" || !ok || !known {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "Invalid Refresh Token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok-" + email,
			"refresh_token": "rt-" + email,
			"expires_at":    time.Now().Add(time.Hour).Unix(),
		})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		id := r.PathValue("id")
		p.deleted = append(p.deleted, id)
		for email, uid := range p.users {
			if uid == id {
				delete(p.users, email)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type env struct {
	srv      *httptest.Server
	provider *fakeProvider
}

func newEnv(t *testing.T, rateLimit int) *env {
	t.Helper()
	return newEnvWithStore(t, rateLimit, shops.NewMemoryStore(zap.NewNop().Sugar()), 5*time.Minute)
}

func newEnvWithStore(t *testing.T, rateLimit int, store shops.Store, cacheTTL time.Duration) *env {
	t.Helper()
	provider := &fakeProvider{users: map[string]string{}}
	idp := httptest.NewServer(provider.handler())
	t.Cleanup(idp.Close)

	log := zap.NewNop().Sugar()
	cfg := config.Config{
		Env:       "dev",
		CacheTTL:  cacheTTL,
		CacheSize: 100,
	}
	auth := authn.NewClient(idp.URL, "anon", "service")
	app := storefront.New(
		log, cfg,
		store,
		session.New("testref", false, time.Minute, auth),
		authn.NewHTTPVerifier(idp.URL, "anon"),
		auth,
		ratelimit.NewSlidingWindow(rateLimit, time.Minute),
		routes.Default(),
	)
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return &env{srv: srv, provider: provider}
}

func (e *env) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func postJSON(t *testing.T, c *http.Client, url string, body any, csrfToken string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if csrfToken != "" {
		req.Header.Set(csrf.HeaderName, csrfToken)
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, c *http.Client, url string, out any) int {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	code := resp.StatusCode
	if out != nil && code == http.StatusOK {
		decode(t, resp, out)
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	return code
}

// registerAndSignIn drives the full onboarding flow for a client: fetch a
// CSRF token, register, then mirror the provider session into the cookie.
func registerAndSignIn(t *testing.T, e *env, c *http.Client, email, shopName string) string {
	t.Helper()
	var tok struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/csrf-token", &tok))
	require.NotEmpty(t, tok.CSRFToken)

	resp := postJSON(t, c, e.srv.URL+"/api/register", map[string]string{
		"email": email, "password": "hunter22", "shopName": shopName,
	}, tok.CSRFToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reg struct {
		ShopName string `json:"shopName"`
	}
	decode(t, resp, &reg)
	require.Equal(t, strings.ToLower(shopName), reg.ShopName)

	resp = postJSON(t, c, e.srv.URL+"/api/auth/set-session", map[string]any{
		"access_token":  "tok-" + email,
		"refresh_token": "rt-" + email,
		"expires_at":    time.Now().Add(time.Hour).Unix(),
	}, tok.CSRFToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return tok.CSRFToken
}

func TestRegisterAndOwnerDashboard(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	var snap shops.Snapshot
	code := getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", &snap)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "brew-co", snap.Shop.Slug)
	require.Equal(t, "id-u1@example.com", snap.Shop.OwnerID)
	require.Equal(t, shops.DefaultSettings(), snap.Settings)
	require.Empty(t, snap.Products)

	// Second read is served from the snapshot cache.
	code = getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", &snap)
	require.Equal(t, http.StatusOK, code)
}

// countingStore counts snapshot loads. ProductsByShop runs exactly once
// per snapshot assembly, so its call count is the number of times the
// dashboard actually went to the store.
type countingStore struct {
	shops.Store
	snapshotLoads atomic.Int64
}

func (c *countingStore) ProductsByShop(ctx context.Context, shopID string) ([]shops.Product, error) {
	c.snapshotLoads.Add(1)
	return c.Store.ProductsByShop(ctx, shopID)
}

func TestShopDataCachedWithinTTL(t *testing.T) {
	store := &countingStore{Store: shops.NewMemoryStore(zap.NewNop().Sugar())}
	e := newEnvWithStore(t, 1000, store, 200*time.Millisecond)
	c := e.client(t)
	registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", nil))
	require.EqualValues(t, 1, store.snapshotLoads.Load())

	// Within the TTL the snapshot comes from cache: no second store read.
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", nil))
	require.EqualValues(t, 1, store.snapshotLoads.Load())

	// Past the TTL the next read goes back to the store.
	time.Sleep(250 * time.Millisecond)
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", nil))
	require.EqualValues(t, 2, store.snapshotLoads.Load())
}

func TestShopDataRequiresSession(t *testing.T) {
	e := newEnv(t, 1000)
	owner := e.client(t)
	registerAndSignIn(t, e, owner, "u1@example.com", "brew-co")

	anon := e.client(t)
	require.Equal(t, http.StatusUnauthorized,
		getJSON(t, anon, e.srv.URL+"/api/shop-data?shopName=brew-co", nil))

	// The public variant needs no session.
	var snap shops.Snapshot
	require.Equal(t, http.StatusOK,
		getJSON(t, anon, e.srv.URL+"/api/shop-data/public?shopName=brew-co", &snap))
	require.Equal(t, "brew-co", snap.Shop.Slug)
}

func TestShopDataOwnershipEnforced(t *testing.T) {
	e := newEnv(t, 1000)
	u1 := e.client(t)
	registerAndSignIn(t, e, u1, "u1@example.com", "brew-co")
	u2 := e.client(t)
	registerAndSignIn(t, e, u2, "u2@example.com", "roast-lab")

	require.Equal(t, http.StatusForbidden,
		getJSON(t, u2, e.srv.URL+"/api/shop-data?shopName=brew-co", nil))
	require.Equal(t, http.StatusNotFound,
		getJSON(t, u1, e.srv.URL+"/api/shop-data?shopName=ghost-shop", nil))
}

func TestAdminPageStateMachine(t *testing.T) {
	e := newEnv(t, 1000)
	u1 := e.client(t)
	registerAndSignIn(t, e, u1, "u1@example.com", "brew-co")
	u2 := e.client(t)
	registerAndSignIn(t, e, u2, "u2@example.com", "roast-lab")

	// Owner reaches their admin page.
	var page struct {
		Page string     `json:"page"`
		Shop shops.Shop `json:"shop"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, u1, e.srv.URL+"/brew-co/admin", &page))
	require.Equal(t, "admin", page.Page)
	require.Equal(t, "brew-co", page.Shop.Slug)

	// A signed-in non-owner is redirected to their own admin page.
	resp, err := u2.Get(e.srv.URL + "/brew-co/admin")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/roast-lab/admin", resp.Header.Get("Location"))

	// No session at all goes to login.
	anon := e.client(t)
	resp, err = anon.Get(e.srv.URL + "/brew-co/admin")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	// Bare /admin bounces the owner to their slugged page.
	resp, err = u1.Get(e.srv.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/brew-co/admin", resp.Header.Get("Location"))
}

func TestPublicStorefrontPage(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	anon := e.client(t)
	var page struct {
		Page string         `json:"page"`
		Data shops.Snapshot `json:"data"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, anon, e.srv.URL+"/brew-co", &page))
	require.Equal(t, "storefront", page.Page)
	require.Equal(t, "brew-co", page.Data.Shop.Slug)

	require.Equal(t, http.StatusNotFound, getJSON(t, anon, e.srv.URL+"/ghost-shop", nil))
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	csrfTok := registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	var snap shops.Snapshot
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", &snap))
	shopID := snap.Shop.ID

	resp := postJSON(t, c, e.srv.URL+"/api/products", map[string]any{
		"shop_id": shopID, "name": "Espresso", "description": "Strong", "price": 3.5,
	}, csrfTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct {
		ShopName string        `json:"shopName"`
		Product  shops.Product `json:"product"`
	}
	decode(t, resp, &created)
	require.Equal(t, "brew-co", created.ShopName)
	require.NotEmpty(t, created.Product.ID)

	resp = postJSON(t, c, e.srv.URL+"/api/products/update", map[string]any{
		"product_id": created.Product.ID, "name": "Doppio", "price": 4.5,
	}, csrfTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, http.StatusOK,
		getJSON(t, c, e.srv.URL+"/api/shop-data/public?shopName=brew-co&productId="+created.Product.ID, &snap))
	require.Len(t, snap.Products, 1)
	require.Equal(t, "Doppio", snap.Products[0].Name)

	resp = postJSON(t, c, e.srv.URL+"/api/products/delete", map[string]any{
		"product_id": created.Product.ID,
	}, csrfTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, http.StatusNotFound,
		getJSON(t, c, e.srv.URL+"/api/shop-data/public?shopName=brew-co&productId="+created.Product.ID, nil))
}

func TestProductValidationRejected(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	csrfTok := registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	var snap shops.Snapshot
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", &snap))

	for _, body := range []map[string]any{
		{"shop_id": snap.Shop.ID, "name": "", "price": 3.5},
		{"shop_id": snap.Shop.ID, "name": "Espresso", "price": -1},
		{"shop_id": snap.Shop.ID, "name": "Espresso", "price": 3.5, "image_url": "not-a-url"},
	} {
		resp := postJSON(t, c, e.srv.URL+"/api/products", body, csrfTok)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestCrossTenantProductDeleteForbidden(t *testing.T) {
	e := newEnv(t, 1000)
	u1 := e.client(t)
	u1CSRF := registerAndSignIn(t, e, u1, "u1@example.com", "brew-co")
	u2 := e.client(t)
	u2CSRF := registerAndSignIn(t, e, u2, "u2@example.com", "roast-lab")

	var snap shops.Snapshot
	require.Equal(t, http.StatusOK, getJSON(t, u1, e.srv.URL+"/api/shop-data?shopName=brew-co", &snap))
	resp := postJSON(t, u1, e.srv.URL+"/api/products", map[string]any{
		"shop_id": snap.Shop.ID, "name": "Espresso", "price": 3.5,
	}, u1CSRF)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct {
		Product shops.Product `json:"product"`
	}
	decode(t, resp, &created)

	// u2's session and CSRF token are both perfectly valid. Ownership is
	// what fails.
	resp = postJSON(t, u2, e.srv.URL+"/api/products/delete", map[string]any{
		"product_id": created.Product.ID,
	}, u2CSRF)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// And creating into u1's shop is equally rejected.
	resp = postJSON(t, u2, e.srv.URL+"/api/products", map[string]any{
		"shop_id": snap.Shop.ID, "name": "Sneaky", "price": 1,
	}, u2CSRF)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The product survived both attempts.
	require.Equal(t, http.StatusOK,
		getJSON(t, u1, e.srv.URL+"/api/shop-data/public?shopName=brew-co&productId="+created.Product.ID, nil))
}

func TestCSRFRequiredOnMutations(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	// Missing header.
	resp := postJSON(t, c, e.srv.URL+"/api/products", map[string]any{
		"shop_id": "x", "name": "Espresso", "price": 3.5,
	}, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Mismatched header.
	resp = postJSON(t, c, e.srv.URL+"/api/products", map[string]any{
		"shop_id": "x", "name": "Espresso", "price": 3.5,
	}, "f00dbabe")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestWriteRateLimit(t *testing.T) {
	e := newEnv(t, 5)
	c := e.client(t)

	// The limiter runs before CSRF, so these all count against the window
	// and fail the CSRF check until the window is exhausted.
	for i := 0; i < 5; i++ {
		resp := postJSON(t, c, e.srv.URL+"/api/products", map[string]any{}, "")
		require.Equal(t, http.StatusForbidden, resp.StatusCode, "request %d", i+1)
		resp.Body.Close()
	}
	resp := postJSON(t, c, e.srv.URL+"/api/products", map[string]any{}, "")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()

	// A different client identity still has budget.
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/products", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	other, err := c.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, other.StatusCode)
	other.Body.Close()
}

func TestRegisterDuplicateSlugRollsBackUser(t *testing.T) {
	e := newEnv(t, 1000)
	u1 := e.client(t)
	registerAndSignIn(t, e, u1, "u1@example.com", "brew-co")

	u2 := e.client(t)
	var tok struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, u2, e.srv.URL+"/api/csrf-token", &tok))
	resp := postJSON(t, u2, e.srv.URL+"/api/register", map[string]string{
		"email": "u2@example.com", "password": "hunter22", "shopName": "brew-co",
	}, tok.CSRFToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	e.provider.mu.Lock()
	defer e.provider.mu.Unlock()
	require.Contains(t, e.provider.deleted, "id-u2@example.com",
		"orphaned identity deleted after shop insert failure")
	require.NotContains(t, e.provider.users, "u2@example.com")
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	var tok struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/csrf-token", &tok))

	for name, body := range map[string]map[string]string{
		"missing fields": {"email": "x@example.com"},
		"slug too short": {"email": "x@example.com", "password": "p", "shopName": "ab"},
		"slug charset":   {"email": "x@example.com", "password": "p", "shopName": "Brew Co!"},
	} {
		resp := postJSON(t, c, e.srv.URL+"/api/register", body, tok.CSRFToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
		resp.Body.Close()
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t, 1000)
	u1 := e.client(t)
	registerAndSignIn(t, e, u1, "u1@example.com", "brew-co")

	u2 := e.client(t)
	var tok struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, u2, e.srv.URL+"/api/csrf-token", &tok))
	resp := postJSON(t, u2, e.srv.URL+"/api/register", map[string]string{
		"email": "u1@example.com", "password": "hunter22", "shopName": "roast-lab",
	}, tok.CSRFToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	require.Equal(t, "User already registered", body.Error)
}

func TestSessionRefreshOnExpiry(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	csrfTok := registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	// Overwrite the session with one already at its expiry instant; the
	// next request must refresh through the provider and still succeed.
	resp := postJSON(t, c, e.srv.URL+"/api/auth/set-session", map[string]any{
		"access_token":  "tok-u1@example.com",
		"refresh_token": "rt-u1@example.com",
		"expires_at":    time.Now().Unix(),
	}, csrfTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, http.StatusOK,
		getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", nil))
}

func TestSetSessionValidation(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	resp := postJSON(t, c, e.srv.URL+"/api/auth/set-session", map[string]any{
		"access_token": "tok-only",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutClearsSession(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	resp := postJSON(t, c, e.srv.URL+"/api/logout", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized,
		getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", nil))
}

func TestHealthz(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	var out map[string]bool
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/healthz", &out))
	require.True(t, out["ok"])
}

func TestSettingsUpdate(t *testing.T) {
	e := newEnv(t, 1000)
	c := e.client(t)
	csrfTok := registerAndSignIn(t, e, c, "u1@example.com", "brew-co")

	var snap shops.Snapshot
	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/shop-data?shopName=brew-co", &snap))

	resp := postJSON(t, c, e.srv.URL+"/api/shop-settings", map[string]any{
		"shop_id": snap.Shop.ID, "primary_color": "#ff0000", "secondary_color": "#00ff00",
	}, csrfTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, getJSON(t, c, e.srv.URL+"/api/shop-data/public?shopName=brew-co", &snap))
	require.Equal(t, "#ff0000", snap.Settings.PrimaryColor)

	// Bad color form rejected.
	resp = postJSON(t, c, e.srv.URL+"/api/shop-settings", map[string]any{
		"shop_id": snap.Shop.ID, "primary_color": "red", "secondary_color": "#00ff00",
	}, csrfTok)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
