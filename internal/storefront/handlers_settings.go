package storefront

import (
	"encoding/json"
	"net/http"
	"strings"

	"tiendita/internal/shops"
)

type settingsBody struct {
	ShopID         string  `json:"shop_id"`
	PrimaryColor   string  `json:"primary_color"`
	SecondaryColor string  `json:"secondary_color"`
	LogoURL        *string `json:"logo_url"`
}

// updateSettings stores the shop's presentation settings. Same defenses
// as the product mutations: rate limit, CSRF, session, ownership.
func (a *App) updateSettings(w http.ResponseWriter, r *http.Request) {
	if !a.guardWrite(w, r, "settings-update") {
		return
	}
	id, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	var b settingsBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "bad json")
		return
	}
	if b.ShopID == "" || strings.TrimSpace(b.PrimaryColor) == "" || strings.TrimSpace(b.SecondaryColor) == "" {
		writeError(w, http.StatusBadRequest, "validation", "shop_id, primary_color and secondary_color are required")
		return
	}
	s := shops.Settings{
		PrimaryColor:   strings.TrimSpace(b.PrimaryColor),
		SecondaryColor: strings.TrimSpace(b.SecondaryColor),
		LogoURL:        b.LogoURL,
	}
	if err := shops.ValidateSettings(s); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	own, err := a.ownShop(w, r, id.ID)
	if err != nil {
		return
	}
	if own.ID != b.ShopID {
		writeError(w, http.StatusForbidden, "forbidden", "not authorized: shop does not belong to the user")
		return
	}
	if err := a.store.UpsertSettings(r.Context(), b.ShopID, s); err != nil {
		a.log.Errorw("settings upsert failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not save settings")
		return
	}
	writeJSON(w, map[string]string{"message": "settings saved"}, http.StatusOK)
}
