package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory products parsed before any category header land here.
const DefaultCategory = "Uncategorized"

// CatalogColumns is the fixed width of a stock sheet row:
// itemName, pack, batchNo, expiryDate, qty, pqty, mrp.
const CatalogColumns = 7

// RawRow one spreadsheet row as returned by the source, possibly shorter than
// CatalogColumns when trailing cells are empty.
type RawRow []string

// NormalizedRow a cleaned, fixed-width stock row.
type NormalizedRow struct {
	ItemName   string
	Pack       string
	BatchNo    string
	ExpiryDate string
	Qty        string
	PQty       string
	MRP        string
}

// Product one batch of an item as known to the catalog.
// Identity is (ItemName, BatchNo); Qty is the available-to-sell count.
type Product struct {
	ID         int64           `json:"id,omitempty"`
	ItemName   string          `json:"itemName"`
	Pack       string          `json:"pack"`
	BatchNo    string          `json:"batchNo"`
	ExpiryDate *time.Time      `json:"expiryDate"`
	Qty        int             `json:"qty"`
	PQty       int             `json:"pqty"`
	MRP        decimal.Decimal `json:"mrp"`
	Category   string          `json:"category"`
	Image      string          `json:"image"`
	CreatedAt  time.Time       `json:"createdAt,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt,omitempty"`
}

// ProductKey store identity of a product batch.
type ProductKey struct {
	ItemName string
	BatchNo  string
}

// Key returns the (ItemName, BatchNo) identity.
func (p Product) Key() ProductKey {
	return ProductKey{ItemName: p.ItemName, BatchNo: p.BatchNo}
}

// ProductFilter catalog read options.
type ProductFilter struct {
	Search    string // case-insensitive substring of ItemName
	Category  string // case-insensitive substring of Category
	SortBy    string
	SortOrder string // "asc" | "desc"
}
