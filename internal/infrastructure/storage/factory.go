package storage

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// Stores bundles the repositories the service runs on.
type Stores struct {
	Products repository.ProductRepository
	Orders   repository.OrderRepository

	db *sql.DB
}

// Backend "postgres" or "memory".
func (s *Stores) Backend() string {
	if s.db != nil {
		return "postgres"
	}
	return "memory"
}

// Close releases the database pool, if any.
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewMemoryStores in-memory stores for tests and local runs.
func NewMemoryStores() *Stores {
	return &Stores{
		Products: NewMemoryProductRepository(),
		Orders:   NewMemoryOrderRepository(),
	}
}

// NewStoresFromDSN DSN berilsa Postgres, aks holda memory
func NewStoresFromDSN(ctx context.Context, dsn string, opts ConnectOptions) *Stores {
	if strings.TrimSpace(dsn) == "" {
		log.Printf("[storage] POSTGRES_DSN not set, using in-memory stores")
		return NewMemoryStores()
	}
	db, err := OpenPostgres(ctx, dsn, opts)
	if err != nil {
		log.Printf("[storage] Postgres ulanmadi, memory store ga qaytdi: %v", err)
		return NewMemoryStores()
	}
	products, err := NewPostgresProductRepository(ctx, db)
	if err != nil {
		log.Printf("[storage] %v, using in-memory stores", err)
		_ = db.Close()
		return NewMemoryStores()
	}
	orders, err := NewPostgresOrderRepository(ctx, db)
	if err != nil {
		log.Printf("[storage] %v, using in-memory stores", err)
		_ = db.Close()
		return NewMemoryStores()
	}
	log.Printf("[storage] using Postgres")
	return &Stores{Products: products, Orders: orders, db: db}
}
