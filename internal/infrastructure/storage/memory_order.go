package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// memoryOrderRepository fallback order store (server ish davomida)
type memoryOrderRepository struct {
	mu   sync.RWMutex
	data map[string]entity.Order
}

// NewMemoryOrderRepository in-memory order repository
func NewMemoryOrderRepository() repository.OrderRepository {
	return &memoryOrderRepository{data: make(map[string]entity.Order)}
}

func (m *memoryOrderRepository) Save(_ context.Context, ord entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ord.CreatedAt.IsZero() {
		ord.CreatedAt = time.Now()
	}
	if ord.UpdatedAt.IsZero() {
		ord.UpdatedAt = ord.CreatedAt
	}
	ord.Items = append([]entity.OrderLineItem(nil), ord.Items...)
	m.data[ord.ID] = ord
	return nil
}

func (m *memoryOrderRepository) Get(_ context.Context, id string) (entity.Order, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ord, ok := m.data[id]
	return ord, ok, nil
}

func (m *memoryOrderRepository) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) (entity.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ord, ok := m.data[id]
	if !ok {
		return entity.Order{}, false, nil
	}
	ord.Status = status
	ord.UpdatedAt = time.Now()
	m.data[id] = ord
	return ord, true, nil
}

func (m *memoryOrderRepository) ListByUser(_ context.Context, userID string) ([]entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []entity.Order
	for _, v := range m.data {
		if v.UserID == userID {
			res = append(res, v)
		}
	}
	sortNewestFirst(res)
	return res, nil
}

func (m *memoryOrderRepository) ListAll(_ context.Context) ([]entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]entity.Order, 0, len(m.data))
	for _, v := range m.data {
		res = append(res, v)
	}
	sortNewestFirst(res)
	return res, nil
}

// simple order by CreatedAt desc
func sortNewestFirst(orders []entity.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
