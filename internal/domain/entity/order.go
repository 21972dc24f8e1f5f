package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus buyurtma holati
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusCompleted OrderStatus = "completed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	// StatusPending legacy default kept readable for old orders.
	StatusPending OrderStatus = "pending"
)

var knownStatuses = []OrderStatus{StatusPlaced, StatusCompleted, StatusShipped, StatusDelivered, StatusPending}

// KnownStatuses returns every settable status.
func KnownStatuses() []OrderStatus {
	out := make([]OrderStatus, len(knownStatuses))
	copy(out, knownStatuses)
	return out
}

// ParseOrderStatus accepts any known status name, case-insensitive.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, st := range knownStatuses {
		if string(st) == raw {
			return st, true
		}
	}
	return "", false
}

// OrderLineItem price and quantity snapshot taken when the order was placed.
type OrderLineItem struct {
	ItemName string          `json:"itemName"`
	Qty      int             `json:"qty"`
	MRP      decimal.Decimal `json:"mrp"`
}

// Total returns Qty × MRP.
func (l OrderLineItem) Total() decimal.Decimal {
	return l.MRP.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Order immutable record of a sale; only Status changes after creation.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Items         []OrderLineItem `json:"items"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TotalQty      int             `json:"totalQty"`
	Status        OrderStatus     `json:"status"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ComputeTotals returns Σ(qty × mrp) and Σ qty over items.
func ComputeTotals(items []OrderLineItem) (decimal.Decimal, int) {
	total := decimal.Zero
	qty := 0
	for _, it := range items {
		total = total.Add(it.Total())
		qty += it.Qty
	}
	return total, qty
}

// Account authenticated caller, as provided by the auth layer.
type Account struct {
	ID    string
	Name  string
	Admin bool
}

// PlaceOrderRequest order placement input.
// TotalPrice and TotalQty are informational; the server recomputes them.
type PlaceOrderRequest struct {
	Items         []OrderLineItem  `json:"items"`
	TotalPrice    *decimal.Decimal `json:"totalPrice,omitempty"`
	TotalQty      *int             `json:"totalQty,omitempty"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
}

// StockRequest one line presented to the stock ledger.
type StockRequest struct {
	ItemName string
	Qty      int
}

// LedgerEntry per-product sale aggregate mirrored to the external ledger sheet.
type LedgerEntry struct {
	OrderID      string
	Timestamp    time.Time
	Product      string
	Qty          int
	MRP          decimal.Decimal
	Total        decimal.Decimal
	CustomerName string
	Phone        string
}
