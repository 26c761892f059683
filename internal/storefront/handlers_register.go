package storefront

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tiendita/internal/shops"
	"tiendita/pkg/authn"
	"tiendita/pkg/ratelimit"
)

type registerBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ShopName string `json:"shopName"`
}

// register creates an identity with the provider, then the shop. If the
// shop insert fails the identity is deleted again so a half-registered
// account cannot linger. Rate-limited: it is an unauthenticated write.
func (a *App) register(w http.ResponseWriter, r *http.Request) {
	if err := a.limiter.Allow(r.Context(), ratelimit.ClientKey(r)); err != nil {
		if errors.Is(err, ratelimit.ErrLimited) {
			rateLimitRejectedTotal.WithLabelValues("register").Inc()
			writeError(w, http.StatusTooManyRequests, "rate-limited", "too many requests, retry later")
			return
		}
		a.log.Errorw("rate limiter failure", "err", err)
		writeError(w, http.StatusInternalServerError, "upstream-failure", "rate limiter unavailable")
		return
	}

	var b registerBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "bad json")
		return
	}
	if b.Email == "" || b.Password == "" || b.ShopName == "" {
		writeError(w, http.StatusBadRequest, "validation", "email, password and shopName are required")
		return
	}
	slug := strings.ToLower(strings.TrimSpace(b.ShopName))
	if err := shops.ValidateSlug(slug); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	id, err := a.auth.SignUp(r.Context(), b.Email, b.Password)
	if err != nil {
		var apiErr *authn.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadRequest, "validation", apiErr.Message)
			return
		}
		a.log.Errorw("sign up failed upstream", "err", err)
		writeError(w, http.StatusInternalServerError, "upstream-failure", "could not create user")
		return
	}

	shop, err := a.store.CreateShop(r.Context(), id.ID, slug)
	if err != nil {
		// Roll back the identity so the email can be reused.
		if delErr := a.auth.DeleteUser(r.Context(), id.ID); delErr != nil {
			a.log.Errorw("rollback user delete failed", "user", id.ID, "err", delErr)
		}
		switch {
		case errors.Is(err, shops.ErrSlugTaken),
			errors.Is(err, shops.ErrOwnerHasShop),
			errors.Is(err, shops.ErrSlugLength),
			errors.Is(err, shops.ErrSlugCharset):
			writeError(w, http.StatusBadRequest, "validation", err.Error())
		default:
			a.log.Errorw("shop create failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "could not create shop")
		}
		return
	}
	writeJSON(w, map[string]string{"shopName": shop.Slug}, http.StatusOK)
}
