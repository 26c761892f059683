package shops

import "time"

// Shop is the unit of multi-tenant isolation: a unique slug addressed as a
// path segment, owned by exactly one identity. The slug is immutable after
// creation.
type Shop struct {
	ID        string    `json:"id"`
	Slug      string    `json:"shop_name"`
	OwnerID   string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings holds per-shop presentation attributes. A shop without a stored
// row gets DefaultSettings.
type Settings struct {
	PrimaryColor   string  `json:"primary_color"`
	SecondaryColor string  `json:"secondary_color"`
	LogoURL        *string `json:"logo_url"`
}

// DefaultSettings is synthesized when a shop has no stored settings.
func DefaultSettings() Settings {
	return Settings{PrimaryColor: "#2563eb", SecondaryColor: "#1f2937"}
}

// Product is a catalog item belonging to one shop.
type Product struct {
	ID          string  `json:"id"`
	ShopID      string  `json:"shop_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
}

// Snapshot is the resolved shop+settings+catalog bundle served to
// storefront pages and the owner dashboard.
type Snapshot struct {
	Shop     Shop      `json:"shop"`
	Settings Settings  `json:"settings"`
	Products []Product `json:"products"`
}
