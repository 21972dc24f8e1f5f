package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	item_name TEXT NOT NULL,
	pack TEXT NOT NULL DEFAULT '',
	batch_no TEXT NOT NULL DEFAULT '',
	expiry_date DATE,
	qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
	pqty INTEGER NOT NULL DEFAULT 0,
	mrp NUMERIC NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT 'Uncategorized',
	image TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (item_name, batch_no)
);
CREATE INDEX IF NOT EXISTS products_item_name_idx ON products (item_name);`

const productColumns = `id, item_name, pack, batch_no, expiry_date, qty, pqty, mrp, category, image, created_at, updated_at`

type postgresProductRepository struct {
	db *sql.DB
}

// NewPostgresProductRepository creates the products table if needed.
func NewPostgresProductRepository(ctx context.Context, db *sql.DB) (repository.ProductRepository, error) {
	if _, err := db.ExecContext(ctx, productsSchema); err != nil {
		return nil, fmt.Errorf("create products table: %w", err)
	}
	return &postgresProductRepository{db: db}, nil
}

func (p *postgresProductRepository) Upsert(ctx context.Context, product entity.Product) (repository.UpsertResult, error) {
	var inserted bool
	// xmax is 0 only for freshly inserted tuples
	err := p.db.QueryRowContext(ctx, `
	INSERT INTO products (item_name, pack, batch_no, expiry_date, qty, pqty, mrp, category, image)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	ON CONFLICT (item_name, batch_no) DO UPDATE SET
		pack=EXCLUDED.pack,
		expiry_date=EXCLUDED.expiry_date,
		qty=EXCLUDED.qty,
		pqty=EXCLUDED.pqty,
		mrp=EXCLUDED.mrp,
		category=EXCLUDED.category,
		image=EXCLUDED.image,
		updated_at=NOW()
	RETURNING (xmax = 0)`,
		product.ItemName, product.Pack, product.BatchNo, nullDate(product.ExpiryDate),
		product.Qty, product.PQty, product.MRP, product.Category, product.Image,
	).Scan(&inserted)
	if err != nil {
		return repository.Updated, fmt.Errorf("upsert product %s/%s: %w", product.ItemName, product.BatchNo, err)
	}
	if inserted {
		return repository.Inserted, nil
	}
	return repository.Updated, nil
}

func (p *postgresProductRepository) FindByName(ctx context.Context, itemName string) ([]entity.Product, error) {
	return p.query(ctx, `SELECT `+productColumns+` FROM products
	WHERE item_name=$1 ORDER BY expiry_date ASC NULLS LAST, batch_no ASC`, itemName)
}

func (p *postgresProductRepository) FindByKey(ctx context.Context, key entity.ProductKey) (entity.Product, bool, error) {
	rows, err := p.query(ctx, `SELECT `+productColumns+` FROM products
	WHERE item_name=$1 AND batch_no=$2`, key.ItemName, key.BatchNo)
	if err != nil || len(rows) == 0 {
		return entity.Product{}, false, err
	}
	return rows[0], true, nil
}

func (p *postgresProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	return p.query(ctx, `SELECT `+productColumns+` FROM products
	WHERE ($1 = '' OR item_name ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR category ILIKE '%' || $2 || '%')
	ORDER BY id`, filter.Search, filter.Category)
}

func (p *postgresProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (p *postgresProductRepository) DecrementStock(ctx context.Context, key entity.ProductKey, qty int) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	res, err := p.db.ExecContext(ctx, `
	UPDATE products SET qty = qty - $1, updated_at = NOW()
	WHERE item_name=$2 AND batch_no=$3 AND qty >= $1`, qty, key.ItemName, key.BatchNo)
	if err != nil {
		return false, fmt.Errorf("decrement %s/%s: %w", key.ItemName, key.BatchNo, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (p *postgresProductRepository) IncrementStock(ctx context.Context, key entity.ProductKey, qty int) error {
	if qty <= 0 {
		return nil
	}
	_, err := p.db.ExecContext(ctx, `
	UPDATE products SET qty = qty + $1, updated_at = NOW()
	WHERE item_name=$2 AND batch_no=$3`, qty, key.ItemName, key.BatchNo)
	if err != nil {
		return fmt.Errorf("increment %s/%s: %w", key.ItemName, key.BatchNo, err)
	}
	return nil
}

func (p *postgresProductRepository) query(ctx context.Context, query string, args ...interface{}) ([]entity.Product, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []entity.Product
	for rows.Next() {
		var prod entity.Product
		var expiry sql.NullTime
		if err := rows.Scan(&prod.ID, &prod.ItemName, &prod.Pack, &prod.BatchNo, &expiry,
			&prod.Qty, &prod.PQty, &prod.MRP, &prod.Category, &prod.Image,
			&prod.CreatedAt, &prod.UpdatedAt); err != nil {
			return nil, err
		}
		if expiry.Valid {
			d := time.Date(expiry.Time.Year(), expiry.Time.Month(), expiry.Time.Day(), 0, 0, 0, 0, time.UTC)
			prod.ExpiryDate = &d
		}
		res = append(res, prod)
	}
	return res, rows.Err()
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
