package repository

import (
	"context"

	"github.com/yourusername/sheet-store/internal/domain/entity"
)

// CatalogSource upstream stock rows. Implementations return an empty slice,
// not an error, when the source is unreachable or empty.
type CatalogSource interface {
	GetRows(ctx context.Context, rangeA1 string) ([]entity.RawRow, error)
}

// LedgerSink append-only external ledger
type LedgerSink interface {
	AppendRow(ctx context.Context, rangeA1 string, values []interface{}) error
}

// SheetRangeStore range maintenance used for the hidden-product list.
// The sheet has no delete-by-value, so removals read, filter, clear and rewrite.
// ReadRange reports upstream failures so a failed read is never rewritten as
// an empty list.
type SheetRangeStore interface {
	ReadRange(ctx context.Context, rangeA1 string) ([]entity.RawRow, error)
	UpdateRange(ctx context.Context, rangeA1 string, rows [][]interface{}) error
	ClearRange(ctx context.Context, rangeA1 string) error
}

// OrderNotifier pushes a short notice about a new order to the shop admins.
type OrderNotifier interface {
	NotifyOrder(ctx context.Context, order entity.Order) error
}
