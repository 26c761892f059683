// pkg/middleware/context.go
package middleware

import (
	"context"

	"tiendita/internal/shops"
	"tiendita/pkg/authn"
)

type ctxIdentityKey struct{}
type ctxShopKey struct{}

// WithIdentity stores the verified identity in context.
func WithIdentity(ctx context.Context, id authn.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey{}, id)
}

// IdentityFrom extracts the verified identity, if any.
func IdentityFrom(ctx context.Context) (authn.Identity, bool) {
	if v := ctx.Value(ctxIdentityKey{}); v != nil {
		if id, ok := v.(authn.Identity); ok {
			return id, true
		}
	}
	return authn.Identity{}, false
}

// WithShop stores the resolved shop in context.
func WithShop(ctx context.Context, s shops.Shop) context.Context {
	return context.WithValue(ctx, ctxShopKey{}, s)
}

// ShopFrom extracts the resolved shop, if any.
func ShopFrom(ctx context.Context) (shops.Shop, bool) {
	if v := ctx.Value(ctxShopKey{}); v != nil {
		if s, ok := v.(shops.Shop); ok {
			return s, true
		}
	}
	return shops.Shop{}, false
}
