// internal/shops/memory.go
package shops

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memStore struct {
	log *zap.SugaredLogger

	mu       sync.RWMutex
	bySlug   map[string]Shop
	settings map[string]Settings // shopID -> settings
	products map[string]Product  // productID -> product
}

// NewMemoryStore builds the in-process store used for dev and tests.
func NewMemoryStore(log *zap.SugaredLogger) Store {
	return &memStore{
		log:      log,
		bySlug:   map[string]Shop{},
		settings: map[string]Settings{},
		products: map[string]Product{},
	}
}

func (m *memStore) CreateShop(ctx context.Context, ownerID, slug string) (Shop, error) {
	slug = strings.ToLower(slug)
	if err := ValidateSlug(slug); err != nil {
		return Shop{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bySlug[slug]; ok {
		return Shop{}, ErrSlugTaken
	}
	for _, s := range m.bySlug {
		if s.OwnerID == ownerID {
			return Shop{}, ErrOwnerHasShop
		}
	}
	shop := Shop{ID: uuid.NewString(), Slug: slug, OwnerID: ownerID, CreatedAt: time.Now().UTC()}
	m.bySlug[slug] = shop
	return shop, nil
}

func (m *memStore) ShopBySlug(ctx context.Context, slug string) (Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.bySlug[strings.ToLower(slug)]; ok {
		return s, nil
	}
	return Shop{}, ErrNotFound
}

func (m *memStore) ShopByOwner(ctx context.Context, ownerID string) (Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var owned []Shop
	for _, s := range m.bySlug {
		if s.OwnerID == ownerID {
			owned = append(owned, s)
		}
	}
	if len(owned) == 0 {
		return Shop{}, ErrNotFound
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.Before(owned[j].CreatedAt) })
	return owned[0], nil
}

func (m *memStore) SettingsByShop(ctx context.Context, shopID string) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.settings[shopID]; ok {
		return s, nil
	}
	return DefaultSettings(), nil
}

func (m *memStore) UpsertSettings(ctx context.Context, shopID string, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[shopID] = s
	return nil
}

func (m *memStore) ProductsByShop(ctx context.Context, shopID string) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Product
	for _, p := range m.products {
		if p.ShopID == shopID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ProductByID(ctx context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return Product{}, ErrProductNotFound
}

func (m *memStore) CreateProduct(ctx context.Context, p Product) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	m.products[p.ID] = p
	return p, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.products[p.ID]
	if !ok {
		return ErrProductNotFound
	}
	p.ShopID = cur.ShopID
	m.products[p.ID] = p
	return nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}
