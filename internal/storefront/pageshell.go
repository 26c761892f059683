package storefront

import (
	"errors"
	"net/http"
	"strings"

	"tiendita/internal/shops"
	"tiendita/pkg/middleware"
)

// pageShell answers page-level GETs. The authorization gate has already
// run: admin pages arrive with identity and shop in context, public
// storefront pages arrive unauthenticated. Rendering is the front-end's
// job; the shell returns the data the page boots from.
func (a *App) pageShell(w http.ResponseWriter, r *http.Request) {
	if shop, ok := middleware.ShopFrom(r.Context()); ok {
		// Admin page for a shop the caller owns.
		writeJSON(w, map[string]any{"page": "admin", "shop": shop}, http.StatusOK)
		return
	}

	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segs) == 1 && segs[0] != "" {
		// Public storefront page: existence is the only check, and a
		// missing shop is a plain 404 (distinct from ownership denials).
		snap, err := shops.LoadSnapshot(r.Context(), a.store, segs[0])
		if err != nil {
			if errors.Is(err, shops.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not-found", "shop not found")
				return
			}
			a.log.Errorw("storefront load failed", "slug", segs[0], "err", err)
			writeError(w, http.StatusInternalServerError, "upstream-failure", "could not load shop")
			return
		}
		writeJSON(w, map[string]any{"page": "storefront", "data": snap}, http.StatusOK)
		return
	}

	writeJSON(w, map[string]any{"page": "app", "path": r.URL.Path}, http.StatusOK)
}
