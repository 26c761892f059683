package storefront

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tiendita/internal/shops"
)

type productBody struct {
	ShopID      string  `json:"shop_id"`
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
}

func (b productBody) product() shops.Product {
	name := strings.TrimSpace(b.Name)
	desc := strings.TrimSpace(b.Description)
	return shops.Product{
		ID:          b.ProductID,
		ShopID:      b.ShopID,
		Name:        name,
		Description: desc,
		Price:       b.Price,
		ImageURL:    b.ImageURL,
	}
}

// createProduct adds a catalog item. Ownership of the target shop is
// re-checked here even though the page gate enforces it too: this
// endpoint is reachable directly.
func (a *App) createProduct(w http.ResponseWriter, r *http.Request) {
	if !a.guardWrite(w, r, "product-create") {
		return
	}
	id, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	var b productBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "bad json")
		return
	}
	if b.ShopID == "" {
		writeError(w, http.StatusBadRequest, "validation", "shop_id is required")
		return
	}
	p := b.product()
	if err := shops.ValidateProduct(p); err != nil {
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
	created, err := a.store.CreateProduct(r.Context(), p)
	if err != nil {
		a.log.Errorw("product create failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not create product")
		return
	}
	writeJSON(w, map[string]any{"shopName": own.Slug, "product": created}, http.StatusOK)
}

// updateProduct edits a catalog item after walking product -> shop ->
// owner.
func (a *App) updateProduct(w http.ResponseWriter, r *http.Request) {
	if !a.guardWrite(w, r, "product-update") {
		return
	}
	id, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	var b productBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "bad json")
		return
	}
	if b.ProductID == "" {
		writeError(w, http.StatusBadRequest, "validation", "product_id is required")
		return
	}
	p := b.product()
	if err := shops.ValidateProduct(p); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if !a.productOwned(w, r, id.ID, b.ProductID) {
		return
	}
	if err := a.store.UpdateProduct(r.Context(), p); err != nil {
		a.log.Errorw("product update failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not update product")
		return
	}
	writeJSON(w, map[string]string{"message": "product updated"}, http.StatusOK)
}

// deleteProduct removes a catalog item, same ownership walk as update.
func (a *App) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if !a.guardWrite(w, r, "product-delete") {
		return
	}
	id, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	var b productBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "bad json")
		return
	}
	if b.ProductID == "" {
		writeError(w, http.StatusBadRequest, "validation", "product_id is required")
		return
	}
	if !a.productOwned(w, r, id.ID, b.ProductID) {
		return
	}
	if err := a.store.DeleteProduct(r.Context(), b.ProductID); err != nil {
		a.log.Errorw("product delete failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not delete product")
		return
	}
	writeJSON(w, map[string]string{"message": "product deleted"}, http.StatusOK)
}

// ownShop loads the caller's shop, writing the response on failure.
func (a *App) ownShop(w http.ResponseWriter, r *http.Request, ownerID string) (shops.Shop, error) {
	own, err := a.store.ShopByOwner(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, shops.ErrNotFound) {
			writeError(w, http.StatusForbidden, "forbidden", "not authorized: user has no shop")
		} else {
			a.log.Errorw("own shop resolve failed", "err", err)
			writeError(w, http.StatusInternalServerError, "upstream-failure", "could not resolve shop")
		}
		return shops.Shop{}, err
	}
	return own, nil
}

// productOwned verifies the product belongs to a shop owned by ownerID.
// 404 for an unknown product, 403 for someone else's; errors are written
// before returning false.
func (a *App) productOwned(w http.ResponseWriter, r *http.Request, ownerID, productID string) bool {
	p, err := a.store.ProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, shops.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "not-found", "product not found")
		} else {
			a.log.Errorw("product resolve failed", "err", err)
			writeError(w, http.StatusInternalServerError, "upstream-failure", "could not resolve product")
		}
		return false
	}
	own, err := a.ownShop(w, r, ownerID)
	if err != nil {
		return false
	}
	if p.ShopID != own.ID {
		writeError(w, http.StatusForbidden, "forbidden", "not authorized: product does not belong to the user")
		return false
	}
	return true
}
