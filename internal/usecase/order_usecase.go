package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/sheet-store/internal/domain/apperr"
	"github.com/yourusername/sheet-store/internal/domain/constants"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
	"github.com/yourusername/sheet-store/internal/worker"
)

// JobSubmitter background queue for best-effort side effects.
type JobSubmitter interface {
	Submit(job worker.Job) bool
}

// OrderUseCase buyurtmalar bilan bog'liq business logic
type OrderUseCase interface {
	PlaceOrder(ctx context.Context, account entity.Account, req entity.PlaceOrderRequest) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*entity.Order, error)
	GetOrder(ctx context.Context, account entity.Account, id string) (*entity.Order, error)
	ListMyOrders(ctx context.Context, account entity.Account) ([]entity.Order, error)
	ListOrders(ctx context.Context) ([]entity.Order, error)
}

// OrderDeps collaborators of the order use case. Jobs, Sink and Notifier may
// be nil; the matching side effect is then skipped.
type OrderDeps struct {
	Orders      repository.OrderRepository
	Ledger      *StockLedger
	Jobs        JobSubmitter
	Sink        repository.LedgerSink
	LedgerRange string
	Notifier    repository.OrderNotifier

	Now   func() time.Time
	NewID func() string
}

type orderUseCase struct {
	deps OrderDeps
}

// NewOrderUseCase yangi OrderUseCase
func NewOrderUseCase(deps OrderDeps) OrderUseCase {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return uuid.New().String() }
	}
	if deps.LedgerRange == "" {
		deps.LedgerRange = constants.DefaultLedgerRange
	}
	return &orderUseCase{deps: deps}
}

func validateOrder(req entity.PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return apperr.Validation("No order items")
	}
	if len(req.Items) > constants.MaxOrderLines {
		return apperr.Validation("Too many order items (max %d)", constants.MaxOrderLines)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return apperr.Validation("Customer phone is required")
	}
	for _, it := range req.Items {
		name := strings.TrimSpace(it.ItemName)
		if name == "" {
			return apperr.Validation("Item name is required")
		}
		if it.Qty <= 0 || it.Qty > constants.MaxLineQty {
			return apperr.Validation("Invalid quantity for %s", name)
		}
		if it.MRP.IsNegative() {
			return apperr.Validation("Invalid price for %s", name)
		}
	}
	return nil
}

func (u *orderUseCase) PlaceOrder(ctx context.Context, account entity.Account, req entity.PlaceOrderRequest) (*entity.Order, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}

	items := make([]entity.OrderLineItem, len(req.Items))
	stock := make([]entity.StockRequest, len(req.Items))
	for i, it := range req.Items {
		it.ItemName = strings.TrimSpace(it.ItemName)
		items[i] = it
		stock[i] = entity.StockRequest{ItemName: it.ItemName, Qty: it.Qty}
	}

	allocs, err := u.deps.Ledger.ReserveAndDecrement(ctx, stock)
	if err != nil {
		return nil, err
	}

	totalPrice, totalQty := entity.ComputeTotals(items)
	if req.TotalPrice != nil && !req.TotalPrice.Equal(totalPrice) {
		log.Printf("[orders] client total %s differs from computed %s, using computed", req.TotalPrice.String(), totalPrice.String())
	}
	if req.TotalQty != nil && *req.TotalQty != totalQty {
		log.Printf("[orders] client qty %d differs from computed %d, using computed", *req.TotalQty, totalQty)
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		customerName = account.Name
	}

	now := u.deps.Now()
	ord := entity.Order{
		ID:            u.deps.NewID(),
		UserID:        account.ID,
		Items:         items,
		TotalPrice:    totalPrice,
		TotalQty:      totalQty,
		Status:        entity.StatusPlaced,
		CustomerName:  customerName,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := u.deps.Orders.Save(ctx, ord); err != nil {
		// stock was taken for an order that does not exist
		u.deps.Ledger.Release(context.WithoutCancel(ctx), allocs)
		return nil, fmt.Errorf("save order: %w", err)
	}
	log.Printf("[orders] order %s placed (user=%s, lines=%d, qty=%d, total=%s)", ord.ID, ord.UserID, len(ord.Items), ord.TotalQty, ord.TotalPrice.String())

	u.mirror(ord)
	return &ord, nil
}

// mirror queues the ledger rows and the admin notification; never blocks.
func (u *orderUseCase) mirror(ord entity.Order) {
	if u.deps.Jobs == nil {
		return
	}
	if u.deps.Sink != nil {
		for _, entry := range BuildLedgerEntries(ord) {
			row := LedgerRow(entry)
			rng := u.deps.LedgerRange
			product := entry.Product
			u.deps.Jobs.Submit(worker.Job{
				Name: "ledger " + ord.ID + " " + product,
				Run: func(ctx context.Context) error {
					return u.deps.Sink.AppendRow(ctx, rng, row)
				},
			})
		}
	}
	if u.deps.Notifier != nil {
		u.deps.Jobs.Submit(worker.Job{
			Name: "notify " + ord.ID,
			Run: func(ctx context.Context) error {
				return u.deps.Notifier.NotifyOrder(ctx, ord)
			},
		})
	}
}

// BuildLedgerEntries one entry per distinct product: quantities and line
// totals summed, unit price taken from the first line of that product.
func BuildLedgerEntries(ord entity.Order) []entity.LedgerEntry {
	idx := make(map[string]int)
	var entries []entity.LedgerEntry
	for _, it := range ord.Items {
		if i, ok := idx[it.ItemName]; ok {
			entries[i].Qty += it.Qty
			entries[i].Total = entries[i].Total.Add(it.Total())
			continue
		}
		idx[it.ItemName] = len(entries)
		entries = append(entries, entity.LedgerEntry{
			OrderID:      ord.ID,
			Timestamp:    ord.CreatedAt,
			Product:      it.ItemName,
			Qty:          it.Qty,
			MRP:          it.MRP,
			Total:        it.Total(),
			CustomerName: ord.CustomerName,
			Phone:        ord.CustomerPhone,
		})
	}
	return entries
}

// LedgerRow sheet row: timestamp, product, qty, mrp, total, customer, phone.
func LedgerRow(e entity.LedgerEntry) []interface{} {
	return []interface{}{
		e.Timestamp.Local().Format(constants.LedgerTimestampLayout),
		e.Product,
		e.Qty,
		e.MRP.String(),
		e.Total.String(),
		e.CustomerName,
		e.Phone,
	}
}

func (u *orderUseCase) UpdateStatus(ctx context.Context, id string, raw string) (*entity.Order, error) {
	status, ok := entity.ParseOrderStatus(raw)
	if !ok {
		allowed := make([]string, 0, len(entity.KnownStatuses()))
		for _, st := range entity.KnownStatuses() {
			allowed = append(allowed, string(st))
		}
		return nil, apperr.Validation("Invalid status %q. Allowed: %s", raw, strings.Join(allowed, ", "))
	}
	ord, found, err := u.deps.Orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !found {
		return nil, apperr.OrderNotFound(id)
	}
	log.Printf("[orders] order %s status -> %s", id, status)
	return &ord, nil
}

// GetOrder returns the order to its owner or an admin; anyone else gets not found.
func (u *orderUseCase) GetOrder(ctx context.Context, account entity.Account, id string) (*entity.Order, error) {
	ord, found, err := u.deps.Orders.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if !found || (!account.Admin && ord.UserID != account.ID) {
		return nil, apperr.OrderNotFound(id)
	}
	return &ord, nil
}

func (u *orderUseCase) ListMyOrders(ctx context.Context, account entity.Account) ([]entity.Order, error) {
	orders, err := u.deps.Orders.ListByUser(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (u *orderUseCase) ListOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := u.deps.Orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
