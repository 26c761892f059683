package shops

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) Store {
	t.Helper()
	return NewMemoryStore(zap.NewNop().Sugar())
}

func TestValidateSlug(t *testing.T) {
	require.NoError(t, ValidateSlug("brew-co"))
	require.NoError(t, ValidateSlug("abc"))
	require.NoError(t, ValidateSlug("shop-123"))

	require.ErrorIs(t, ValidateSlug("ab"), ErrSlugLength)
	require.ErrorIs(t, ValidateSlug(strings.Repeat("a", 21)), ErrSlugLength)
	require.ErrorIs(t, ValidateSlug("Brew-Co"), ErrSlugCharset)
	require.ErrorIs(t, ValidateSlug("brew co"), ErrSlugCharset)
	require.ErrorIs(t, ValidateSlug("brew_co"), ErrSlugCharset)
}

func TestCreateShop(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	shop, err := s.CreateShop(ctx, "u1", "brew-co")
	require.NoError(t, err)
	require.NotEmpty(t, shop.ID)
	require.Equal(t, "brew-co", shop.Slug)
	require.Equal(t, "u1", shop.OwnerID)

	_, err = s.CreateShop(ctx, "u2", "brew-co")
	require.ErrorIs(t, err, ErrSlugTaken)

	_, err = s.CreateShop(ctx, "u1", "second-shop")
	require.ErrorIs(t, err, ErrOwnerHasShop)

	_, err = s.CreateShop(ctx, "u3", "x")
	require.ErrorIs(t, err, ErrSlugLength)
}

func TestShopLookups(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	created, err := s.CreateShop(ctx, "u1", "brew-co")
	require.NoError(t, err)

	bySlug, err := s.ShopBySlug(ctx, "brew-co")
	require.NoError(t, err)
	require.Equal(t, created.ID, bySlug.ID)

	// Slug lookup is case-insensitive; the stored slug is lowercase.
	bySlug, err = s.ShopBySlug(ctx, "Brew-Co")
	require.NoError(t, err)
	require.Equal(t, created.ID, bySlug.ID)

	byOwner, err := s.ShopByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, created.ID, byOwner.ID)

	_, err = s.ShopBySlug(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.ShopByOwner(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsDefaultAndUpsert(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	shop, err := s.CreateShop(ctx, "u1", "brew-co")
	require.NoError(t, err)

	got, err := s.SettingsByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), got)

	logo := "https://cdn.example.com/logo.png"
	want := Settings{PrimaryColor: "#ff0000", SecondaryColor: "#00ff00", LogoURL: &logo}
	require.NoError(t, s.UpsertSettings(ctx, shop.ID, want))

	got, err = s.SettingsByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestProductLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	shop, err := s.CreateShop(ctx, "u1", "brew-co")
	require.NoError(t, err)

	created, err := s.CreateProduct(ctx, Product{ShopID: shop.ID, Name: "Espresso", Price: 3.5})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.ProductByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Espresso", got.Name)

	created.Name = "Doppio"
	created.Price = 4.5
	require.NoError(t, s.UpdateProduct(ctx, created))
	got, err = s.ProductByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Doppio", got.Name)
	require.Equal(t, 4.5, got.Price)

	list, err := s.ProductsByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteProduct(ctx, created.ID))
	_, err = s.ProductByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, s.DeleteProduct(ctx, created.ID), ErrProductNotFound)
	require.ErrorIs(t, s.UpdateProduct(ctx, created), ErrProductNotFound)
}

func TestUpdateProductKeepsShopBinding(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, err := s.CreateShop(ctx, "u1", "brew-co")
	require.NoError(t, err)
	b, err := s.CreateShop(ctx, "u2", "roast-lab")
	require.NoError(t, err)

	p, err := s.CreateProduct(ctx, Product{ShopID: a.ID, Name: "Espresso", Price: 3.5})
	require.NoError(t, err)

	// An update cannot move a product between shops.
	p.ShopID = b.ID
	require.NoError(t, s.UpdateProduct(ctx, p))
	got, err := s.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ShopID)
}

func TestLoadSnapshot(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	shop, err := s.CreateShop(ctx, "u1", "brew-co")
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, Product{ShopID: shop.ID, Name: "Espresso", Price: 3.5})
	require.NoError(t, err)

	snap, err := LoadSnapshot(ctx, s, "brew-co")
	require.NoError(t, err)
	require.Equal(t, shop.ID, snap.Shop.ID)
	require.Equal(t, DefaultSettings(), snap.Settings)
	require.Len(t, snap.Products, 1)

	_, err = LoadSnapshot(ctx, s, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestValidateProduct(t *testing.T) {
	good := Product{Name: "Espresso", Description: "Strong", Price: 3.5}
	require.NoError(t, ValidateProduct(good))

	cases := []struct {
		name string
		mut  func(p *Product)
	}{
		{"empty name", func(p *Product) { p.Name = " " }},
		{"name too long", func(p *Product) { p.Name = strings.Repeat("x", 101) }},
		{"description too long", func(p *Product) { p.Description = strings.Repeat("x", 501) }},
		{"zero price", func(p *Product) { p.Price = 0 }},
		{"negative price", func(p *Product) { p.Price = -1 }},
		{"bad image url", func(p *Product) { u := "ftp://example.com/x.png"; p.ImageURL = &u }},
		{"long image url", func(p *Product) { u := "https://e.com/" + strings.Repeat("x", 500); p.ImageURL = &u }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := good
			c.mut(&p)
			require.Error(t, ValidateProduct(p))
		})
	}

	u := "https://cdn.example.com/espresso.png"
	good.ImageURL = &u
	require.NoError(t, ValidateProduct(good))
}

func TestValidateSettings(t *testing.T) {
	require.NoError(t, ValidateSettings(Settings{PrimaryColor: "#2563eb", SecondaryColor: "#1f2937"}))
	require.Error(t, ValidateSettings(Settings{PrimaryColor: "blue", SecondaryColor: "#1f2937"}))
	require.Error(t, ValidateSettings(Settings{PrimaryColor: "#2563eb", SecondaryColor: "#1f29"}))

	bad := "javascript:alert(1)"
	require.Error(t, ValidateSettings(Settings{PrimaryColor: "#2563eb", SecondaryColor: "#1f2937", LogoURL: &bad}))
	ok := "https://cdn.example.com/logo.svg"
	require.NoError(t, ValidateSettings(Settings{PrimaryColor: "#2563eb", SecondaryColor: "#1f2937", LogoURL: &ok}))
}
