package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/sheet-store/internal/catalog"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// memoryProductRepository server ish davomida (fallback when no Postgres DSN is set)
type memoryProductRepository struct {
	mu     sync.RWMutex
	rows   []entity.Product
	index  map[entity.ProductKey]int
	nextID int64
}

// NewMemoryProductRepository in-memory product repository yaratish
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{
		index:  make(map[entity.ProductKey]int),
		nextID: 1,
	}
}

func (m *memoryProductRepository) Upsert(_ context.Context, product entity.Product) (repository.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	key := product.Key()
	if i, ok := m.index[key]; ok {
		cur := m.rows[i]
		cur.Pack = product.Pack
		cur.ExpiryDate = product.ExpiryDate
		cur.Qty = product.Qty
		cur.PQty = product.PQty
		cur.MRP = product.MRP
		cur.Category = product.Category
		cur.Image = product.Image
		cur.UpdatedAt = now
		m.rows[i] = cur
		return repository.Updated, nil
	}

	product.ID = m.nextID
	m.nextID++
	product.CreatedAt = now
	product.UpdatedAt = now
	m.index[key] = len(m.rows)
	m.rows = append(m.rows, product)
	return repository.Inserted, nil
}

func (m *memoryProductRepository) FindByName(_ context.Context, itemName string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []entity.Product
	for _, p := range m.rows {
		if p.ItemName == itemName {
			res = append(res, p)
		}
	}
	catalog.SortFirstExpiring(res)
	return res, nil
}

func (m *memoryProductRepository) FindByKey(_ context.Context, key entity.ProductKey) (entity.Product, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[key]
	if !ok {
		return entity.Product{}, false, nil
	}
	return m.rows[i], true, nil
}

func (m *memoryProductRepository) List(_ context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]entity.Product, 0, len(m.rows))
	for _, p := range m.rows {
		if catalog.MatchesFilter(p, filter) {
			res = append(res, p)
		}
	}
	return res, nil
}

func (m *memoryProductRepository) Categories(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var res []string
	for _, p := range m.rows {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		res = append(res, p.Category)
	}
	sort.Strings(res)
	return res, nil
}

func (m *memoryProductRepository) DecrementStock(_ context.Context, key entity.ProductKey, qty int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[key]
	if !ok || qty <= 0 || m.rows[i].Qty < qty {
		return false, nil
	}
	m.rows[i].Qty -= qty
	m.rows[i].UpdatedAt = time.Now()
	return true, nil
}

func (m *memoryProductRepository) IncrementStock(_ context.Context, key entity.ProductKey, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[key]
	if !ok || qty <= 0 {
		return nil
	}
	m.rows[i].Qty += qty
	m.rows[i].UpdatedAt = time.Now()
	return nil
}
