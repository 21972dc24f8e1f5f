package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	items JSONB NOT NULL,
	total_price NUMERIC NOT NULL DEFAULT 0,
	total_qty INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	customer_name TEXT NOT NULL DEFAULT '',
	customer_phone TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id);`

const orderColumns = `id, user_id, items, total_price, total_qty, status, customer_name, customer_phone, created_at, updated_at`

// postgresOrderRepository persistent saqlash
type postgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository creates the orders table if needed.
func NewPostgresOrderRepository(ctx context.Context, db *sql.DB) (repository.OrderRepository, error) {
	if _, err := db.ExecContext(ctx, ordersSchema); err != nil {
		return nil, fmt.Errorf("create orders table: %w", err)
	}
	return &postgresOrderRepository{db: db}, nil
}

func (p *postgresOrderRepository) Save(ctx context.Context, ord entity.Order) error {
	if ord.CreatedAt.IsZero() {
		ord.CreatedAt = time.Now()
	}
	if ord.UpdatedAt.IsZero() {
		ord.UpdatedAt = ord.CreatedAt
	}
	items, err := json.Marshal(ord.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
	INSERT INTO orders (`+orderColumns+`)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (id) DO UPDATE SET
		status=EXCLUDED.status,
		updated_at=EXCLUDED.updated_at`,
		ord.ID, ord.UserID, string(items), ord.TotalPrice, ord.TotalQty, string(ord.Status),
		ord.CustomerName, ord.CustomerPhone, ord.CreatedAt, ord.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save order %s: %w", ord.ID, err)
	}
	return nil
}

func (p *postgresOrderRepository) Get(ctx context.Context, id string) (entity.Order, bool, error) {
	res, err := p.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	if err != nil || len(res) == 0 {
		return entity.Order{}, false, err
	}
	return res[0], true, nil
}

func (p *postgresOrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (entity.Order, bool, error) {
	res, err := p.query(ctx, `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING `+orderColumns, string(status), id)
	if err != nil {
		return entity.Order{}, false, fmt.Errorf("update order %s status: %w", id, err)
	}
	if len(res) == 0 {
		return entity.Order{}, false, nil
	}
	return res[0], true, nil
}

func (p *postgresOrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return p.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (p *postgresOrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	return p.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (p *postgresOrderRepository) query(ctx context.Context, query string, args ...interface{}) ([]entity.Order, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []entity.Order
	for rows.Next() {
		var ord entity.Order
		var items []byte
		var status string
		if err := rows.Scan(&ord.ID, &ord.UserID, &items, &ord.TotalPrice, &ord.TotalQty, &status,
			&ord.CustomerName, &ord.CustomerPhone, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &ord.Items); err != nil {
			return nil, fmt.Errorf("decode order %s items: %w", ord.ID, err)
		}
		ord.Status = entity.OrderStatus(status)
		res = append(res, ord)
	}
	return res, rows.Err()
}
