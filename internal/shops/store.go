package shops

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("shop not found")
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("shop name is not available")
	ErrOwnerHasShop    = errors.New("owner already has a shop")
)

// Store is the privileged (non-session-scoped) data access for shops.
// Privileged because public storefront pages must resolve shops without
// the visitor being authenticated; ownership checks happen above this
// layer.
type Store interface {
	CreateShop(ctx context.Context, ownerID, slug string) (Shop, error)
	ShopBySlug(ctx context.Context, slug string) (Shop, error)
	// ShopByOwner returns the owner's shop, oldest first when legacy data
	// holds more than one.
	ShopByOwner(ctx context.Context, ownerID string) (Shop, error)

	SettingsByShop(ctx context.Context, shopID string) (Settings, error)
	UpsertSettings(ctx context.Context, shopID string, s Settings) error

	ProductsByShop(ctx context.Context, shopID string) ([]Product, error)
	ProductByID(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// LoadSnapshot resolves a shop by slug and bundles its settings and
// catalog. Missing settings synthesize defaults; a missing shop is
// ErrNotFound.
func LoadSnapshot(ctx context.Context, s Store, slug string) (Snapshot, error) {
	shop, err := s.ShopBySlug(ctx, slug)
	if err != nil {
		return Snapshot{}, err
	}
	settings, err := s.SettingsByShop(ctx, shop.ID)
	if err != nil {
		return Snapshot{}, err
	}
	products, err := s.ProductsByShop(ctx, shop.ID)
	if err != nil {
		return Snapshot{}, err
	}
	if products == nil {
		products = []Product{}
	}
	return Snapshot{Shop: shop, Settings: settings, Products: products}, nil
}
