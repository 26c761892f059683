// internal/shops/postgres.go
package shops

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed shop store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shops (
  id uuid PRIMARY KEY,
  shop_name text UNIQUE NOT NULL,
  user_id text NOT NULL,
  created_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS shops_user_idx ON shops(user_id);
CREATE TABLE IF NOT EXISTS shop_settings (
  shop_id uuid PRIMARY KEY REFERENCES shops(id) ON DELETE CASCADE,
  primary_color text NOT NULL,
  secondary_color text NOT NULL,
  logo_url text
);
CREATE TABLE IF NOT EXISTS products (
  id uuid PRIMARY KEY,
  shop_id uuid NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
  name text NOT NULL,
  description text,
  price numeric NOT NULL,
  image_url text
);
CREATE INDEX IF NOT EXISTS products_shop_idx ON products(shop_id);
`)
	return err
}

// SeedFromEnv ingests initial shop data. jsonSeed format (SHOP_SEED_JSON):
// [{"id":"...","shop_name":"...","user_id":"..."}]
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed string) error {
	if jsonSeed == "" {
		return nil
	}
	var entries []struct {
		ID       string `json:"id"`
		ShopName string `json:"shop_name"`
		UserID   string `json:"user_id"`
	}
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		_, _ = dbPool.Exec(ctx, `INSERT INTO shops(id,shop_name,user_id)
		  VALUES ($1,$2,$3)
		  ON CONFLICT (shop_name) DO NOTHING`, e.ID, strings.ToLower(e.ShopName), e.UserID)
	}
	return nil
}

func (p *pgStore) CreateShop(ctx context.Context, ownerID, slug string) (Shop, error) {
	slug = strings.ToLower(slug)
	if err := ValidateSlug(slug); err != nil {
		return Shop{}, err
	}
	shop := Shop{ID: uuid.NewString(), Slug: slug, OwnerID: ownerID}
	err := p.dbPool.QueryRow(ctx, `INSERT INTO shops(id,shop_name,user_id)
	  VALUES ($1,$2,$3) RETURNING created_at`, shop.ID, shop.Slug, shop.OwnerID).Scan(&shop.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "user") {
				return Shop{}, ErrOwnerHasShop
			}
			return Shop{}, ErrSlugTaken
		}
		return Shop{}, err
	}
	return shop, nil
}

func (p *pgStore) ShopBySlug(ctx context.Context, slug string) (Shop, error) {
	var s Shop
	err := p.dbPool.QueryRow(ctx, `SELECT id,shop_name,user_id,created_at FROM shops WHERE shop_name=$1`,
		strings.ToLower(slug)).Scan(&s.ID, &s.Slug, &s.OwnerID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shop{}, ErrNotFound
	}
	if err != nil {
		return Shop{}, err
	}
	return s, nil
}

func (p *pgStore) ShopByOwner(ctx context.Context, ownerID string) (Shop, error) {
	var s Shop
	err := p.dbPool.QueryRow(ctx, `SELECT id,shop_name,user_id,created_at FROM shops
	  WHERE user_id=$1 ORDER BY created_at LIMIT 1`, ownerID).Scan(&s.ID, &s.Slug, &s.OwnerID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shop{}, ErrNotFound
	}
	if err != nil {
		return Shop{}, err
	}
	return s, nil
}

func (p *pgStore) SettingsByShop(ctx context.Context, shopID string) (Settings, error) {
	var s Settings
	err := p.dbPool.QueryRow(ctx, `SELECT primary_color,secondary_color,logo_url
	  FROM shop_settings WHERE shop_id=$1`, shopID).Scan(&s.PrimaryColor, &s.SecondaryColor, &s.LogoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (p *pgStore) UpsertSettings(ctx context.Context, shopID string, s Settings) error {
	_, err := p.dbPool.Exec(ctx, `INSERT INTO shop_settings(shop_id,primary_color,secondary_color,logo_url)
	  VALUES ($1,$2,$3,$4)
	  ON CONFLICT (shop_id) DO UPDATE SET primary_color=EXCLUDED.primary_color,
	    secondary_color=EXCLUDED.secondary_color, logo_url=EXCLUDED.logo_url`,
		shopID, s.PrimaryColor, s.SecondaryColor, s.LogoURL)
	return err
}

func (p *pgStore) ProductsByShop(ctx context.Context, shopID string) ([]Product, error) {
	rows, err := p.dbPool.Query(ctx, `SELECT id,shop_id,name,COALESCE(description,''),price,image_url
	  FROM products WHERE shop_id=$1 ORDER BY id`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var pr Product
		if err := rows.Scan(&pr.ID, &pr.ShopID, &pr.Name, &pr.Description, &pr.Price, &pr.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (p *pgStore) ProductByID(ctx context.Context, id string) (Product, error) {
	var pr Product
	err := p.dbPool.QueryRow(ctx, `SELECT id,shop_id,name,COALESCE(description,''),price,image_url
	  FROM products WHERE id=$1`, id).Scan(&pr.ID, &pr.ShopID, &pr.Name, &pr.Description, &pr.Price, &pr.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return pr, nil
}

func (p *pgStore) CreateProduct(ctx context.Context, pr Product) (Product, error) {
	pr.ID = uuid.NewString()
	_, err := p.dbPool.Exec(ctx, `INSERT INTO products(id,shop_id,name,description,price,image_url)
	  VALUES ($1,$2,$3,$4,$5,$6)`, pr.ID, pr.ShopID, pr.Name, pr.Description, pr.Price, pr.ImageURL)
	if err != nil {
		return Product{}, err
	}
	return pr, nil
}

func (p *pgStore) UpdateProduct(ctx context.Context, pr Product) error {
	tag, err := p.dbPool.Exec(ctx, `UPDATE products SET name=$2,description=$3,price=$4,image_url=$5
	  WHERE id=$1`, pr.ID, pr.Name, pr.Description, pr.Price, pr.ImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (p *pgStore) DeleteProduct(ctx context.Context, id string) error {
	tag, err := p.dbPool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
