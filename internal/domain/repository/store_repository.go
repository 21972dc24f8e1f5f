package repository

import (
	"context"

	"github.com/yourusername/sheet-store/internal/domain/entity"
)

// UpsertResult tells whether Upsert created a row.
type UpsertResult int

const (
	Updated UpsertResult = iota
	Inserted
)

// ProductRepository primary store of catalog batches
type ProductRepository interface {
	// Upsert matches on (ItemName, BatchNo) and overwrites pack, expiry, qty, pqty, mrp,
	// category and image; inserts when no match exists.
	Upsert(ctx context.Context, product entity.Product) (UpsertResult, error)

	// FindByName all batches of an item, first-expiring first.
	FindByName(ctx context.Context, itemName string) ([]entity.Product, error)

	// FindByKey one batch; ok=false when absent.
	FindByKey(ctx context.Context, key entity.ProductKey) (entity.Product, bool, error)

	// List catalog rows matching the filter (sorting is done by the caller).
	List(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error)

	// Categories distinct non-empty categories.
	Categories(ctx context.Context) ([]string, error)

	// DecrementStock subtracts qty only if the stored qty is at least qty.
	// ok=false means the stock changed underneath the caller.
	DecrementStock(ctx context.Context, key entity.ProductKey, qty int) (ok bool, err error)

	// IncrementStock adds qty back (compensation).
	IncrementStock(ctx context.Context, key entity.ProductKey, qty int) error
}

// OrderRepository durable order store; orders are never deleted
type OrderRepository interface {
	Save(ctx context.Context, order entity.Order) error
	Get(ctx context.Context, id string) (entity.Order, bool, error)
	// UpdateStatus returns the updated order; ok=false when the id is unknown.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (entity.Order, bool, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
}
