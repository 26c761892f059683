package storefront

import (
	"errors"
	"net/http"

	"tiendita/internal/shops"
)

// shopData serves the owner dashboard snapshot: session + ownership
// required. Snapshots are cached per (shop, identity) for the configured
// TTL; a stale read after the owner's own edit is accepted within that
// window.
func (a *App) shopData(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("shopName")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "validation", "shopName is required")
		return
	}
	id, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}

	key := slug + "\n" + id.ID
	if snap, ok := a.snaps.Get(key); ok {
		cacheHitsTotal.Inc()
		writeJSON(w, snap, http.StatusOK)
		return
	}
	cacheMissesTotal.Inc()

	shop, err := a.store.ShopBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, shops.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not-found", "shop not found")
			return
		}
		a.log.Errorw("shop resolve failed", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, "upstream-failure", "could not load shop")
		return
	}
	if shop.OwnerID != id.ID {
		writeError(w, http.StatusForbidden, "forbidden", "not authorized: shop does not belong to the user")
		return
	}

	snap, err := shops.LoadSnapshot(r.Context(), a.store, slug)
	if err != nil {
		a.log.Errorw("snapshot load failed", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, "upstream-failure", "could not load shop data")
		return
	}
	a.snaps.Put(key, snap)
	writeJSON(w, snap, http.StatusOK)
}

// shopDataPublic serves the storefront snapshot without authentication,
// keyed by slug and an optional product id. Never cached: the public path
// always re-reads the store.
func (a *App) shopDataPublic(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("shopName")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "validation", "shopName is required")
		return
	}
	snap, err := shops.LoadSnapshot(r.Context(), a.store, slug)
	if err != nil {
		if errors.Is(err, shops.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not-found", "shop not found")
			return
		}
		a.log.Errorw("snapshot load failed", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, "upstream-failure", "could not load shop data")
		return
	}
	if productID := r.URL.Query().Get("productId"); productID != "" {
		var only []shops.Product
		for _, p := range snap.Products {
			if p.ID == productID {
				only = append(only, p)
			}
		}
		if only == nil {
			writeError(w, http.StatusNotFound, "not-found", "product not found")
			return
		}
		snap.Products = only
	}
	writeJSON(w, snap, http.StatusOK)
}
