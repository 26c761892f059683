// cmd/identity-stub/main.go
//
// Small in-memory identity provider for local development. Speaks just
// enough of the GoTrue dialect for the storefront service: signup,
// password and refresh-token grants, user introspection, logout and
// admin delete, plus a JWKS endpoint so the service can run in jwks
// verification mode against it.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"tiendita/pkg/logger"
)

const tokenTTL = time.Hour

type user struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

type stub struct {
	mu      sync.Mutex
	byEmail map[string]*user
	byID    map[string]*user
	refresh map[string]string // refresh token -> user id
	issuer  string
	signKey jwk.Key
	pubSet  jwk.Set
}

func newStub(issuer string) (*stub, error) {
	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	key, err := jwk.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	_ = key.Set(jwk.KeyIDKey, uuid.NewString())
	_ = key.Set(jwk.AlgorithmKey, jwa.RS256)
	pub, err := key.PublicKey()
	if err != nil {
		return nil, err
	}
	set := jwk.NewSet()
	_ = set.AddKey(pub)
	return &stub{
		byEmail: map[string]*user{},
		byID:    map[string]*user{},
		refresh: map[string]string{},
		issuer:  issuer,
		signKey: key,
		pubSet:  set,
	}, nil
}

func (s *stub) issue(u *user) (map[string]any, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(s.issuer).
		Subject(u.ID).
		Claim("email", u.Email).
		IssuedAt(now).
		Expiration(now.Add(tokenTTL)).
		Build()
	if err != nil {
		return nil, err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, s.signKey))
	if err != nil {
		return nil, err
	}
	rt := randomToken()
	s.refresh[rt] = u.ID
	return map[string]any{
		"access_token":  string(signed),
		"refresh_token": rt,
		"expires_at":    now.Add(tokenTTL).Unix(),
		"expires_in":    int64(tokenTTL.Seconds()),
		"user":          u,
	}, nil
}

func randomToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *stub) userFromBearer(r *http.Request) *user {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		return nil
	}
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKeySet(s.pubSet), jwt.WithValidate(true), jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil
	}
	return s.byID[tok.Subject()]
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func fail(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"msg": msg})
}

func main() {
	addr := os.Getenv("IDENTITY_STUB_ADDR")
	if addr == "" {
		addr = ":9999"
	}
	issuer := os.Getenv("IDENTITY_STUB_ISSUER")
	if issuer == "" {
		issuer = "http://localhost" + addr
	}
	log := logger.New(os.Getenv("APP_ENV"))
	defer log.Sync()

	s, err := newStub(issuer)
	if err != nil {
		log.Fatalw("stub init", "err", err)
	}

	r := chi.NewRouter()

	r.Post("/signup", func(w http.ResponseWriter, req *http.Request) {
		var in struct{ Email, Password string }
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
			fail(w, http.StatusBadRequest, "email and password are required")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, exists := s.byEmail[in.Email]; exists {
			fail(w, http.StatusUnprocessableEntity, "User already registered")
			return
		}
		u := &user{ID: uuid.NewString(), Email: in.Email, Password: in.Password}
		s.byEmail[in.Email] = u
		s.byID[u.ID] = u
		respond(w, http.StatusOK, map[string]any{"user": u})
	})

	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch req.URL.Query().Get("grant_type") {
		case "password":
			var in struct{ Email, Password string }
			_ = json.NewDecoder(req.Body).Decode(&in)
			u := s.byEmail[in.Email]
			if u == nil || u.Password != in.Password {
				fail(w, http.StatusBadRequest, "Invalid login credentials")
				return
			}
			out, err := s.issue(u)
			if err != nil {
				fail(w, http.StatusInternalServerError, "signing failed")
				return
			}
			respond(w, http.StatusOK, out)
		case "refresh_token":
			var in struct {
				RefreshToken string `json:"refresh_token"`
			}
			_ = json.NewDecoder(req.Body).Decode(&in)
			id, ok := s.refresh[in.RefreshToken]
			if !ok {
				fail(w, http.StatusBadRequest, "Invalid Refresh Token")
				return
			}
			delete(s.refresh, in.RefreshToken)
			out, err := s.issue(s.byID[id])
			if err != nil {
				fail(w, http.StatusInternalServerError, "signing failed")
				return
			}
			respond(w, http.StatusOK, out)
		default:
			fail(w, http.StatusBadRequest, "unsupported grant_type")
		}
	})

	r.Get("/user", func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		u := s.userFromBearer(req)
		if u == nil {
			fail(w, http.StatusUnauthorized, "invalid token")
			return
		}
		respond(w, http.StatusOK, u)
	})

	r.Post("/logout", func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		u := s.userFromBearer(req)
		if u == nil {
			fail(w, http.StatusUnauthorized, "invalid token")
			return
		}
		for rt, id := range s.refresh {
			if id == u.ID {
				delete(s.refresh, rt)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Delete("/admin/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		u := s.byID[chi.URLParam(req, "id")]
		if u == nil {
			fail(w, http.StatusNotFound, "user not found")
			return
		}
		delete(s.byID, u.ID)
		delete(s.byEmail, u.Email)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/.well-known/jwks.json", func(w http.ResponseWriter, req *http.Request) {
		respond(w, http.StatusOK, s.pubSet)
	})

	log.Infow("identity-stub listening", "addr", addr, "issuer", issuer)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalw("ListenAndServe", "err", err)
	}
}
