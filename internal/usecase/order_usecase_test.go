package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sheet-store/internal/domain/apperr"
	"github.com/yourusername/sheet-store/internal/domain/constants"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
	"github.com/yourusername/sheet-store/internal/infrastructure/storage"
)

var fixedNow = time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

type orderFixture struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	jobs     *syncJobs
	sink     *stubSink
	notifier *stubNotifier
	uc       OrderUseCase
}

func newOrderFixture(t *testing.T, products ...entity.Product) *orderFixture {
	t.Helper()
	f := &orderFixture{
		products: seedProducts(t, products...),
		orders:   storage.NewMemoryOrderRepository(),
		jobs:     &syncJobs{},
		sink:     &stubSink{},
		notifier: &stubNotifier{},
	}
	f.uc = NewOrderUseCase(OrderDeps{
		Orders:      f.orders,
		Ledger:      NewStockLedger(f.products),
		Jobs:        f.jobs,
		Sink:        f.sink,
		LedgerRange: "Orders!A:G",
		Notifier:    f.notifier,
		Now:         func() time.Time { return fixedNow },
		NewID:       func() string { return "ord-1" },
	})
	return f
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var buyer = entity.Account{ID: "u1", Name: "Ann Buyer"}

func TestPlaceOrder_Success(t *testing.T) {
	f := newOrderFixture(t,
		entity.Product{ItemName: "Aspirin", BatchNo: "A1", Qty: 10},
		entity.Product{ItemName: "Zinc", BatchNo: "Z1", Qty: 5},
	)
	clientTotal := money("1")

	ord, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items: []entity.OrderLineItem{
			{ItemName: "Aspirin", Qty: 2, MRP: money("3.5")},
			{ItemName: " Zinc ", Qty: 1, MRP: money("10")},
		},
		TotalPrice:    &clientTotal,
		CustomerPhone: " 555-0101 ",
	})

	require.NoError(t, err)
	assert.Equal(t, "ord-1", ord.ID)
	assert.Equal(t, entity.StatusPlaced, ord.Status)
	assert.True(t, ord.TotalPrice.Equal(money("17")), "server recomputes totals, got %s", ord.TotalPrice)
	assert.Equal(t, 3, ord.TotalQty)
	assert.Equal(t, "Ann Buyer", ord.CustomerName)
	assert.Equal(t, "555-0101", ord.CustomerPhone)
	assert.Equal(t, "Zinc", ord.Items[1].ItemName)

	assert.Equal(t, 8, qtyOf(t, f.products, "Aspirin", "A1"))
	assert.Equal(t, 4, qtyOf(t, f.products, "Zinc", "Z1"))

	stored, found, err := f.orders.Get(context.Background(), "ord-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "u1", stored.UserID)

	require.Len(t, f.sink.rows, 2)
	assert.Equal(t, "Orders!A:G", f.sink.rng)
	assert.Equal(t, []interface{}{fixedNow.Local().Format("02/01/2006, 15:04:05"), "Aspirin", 2, "3.5", "7", "Ann Buyer", "555-0101"}, f.sink.rows[0])
	require.Len(t, f.notifier.orders, 1)
	assert.Equal(t, "ord-1", f.notifier.orders[0].ID)
}

func TestPlaceOrder_RejectedOrderLeavesStock(t *testing.T) {
	f := newOrderFixture(t,
		entity.Product{ItemName: "A", BatchNo: "a1", Qty: 5},
		entity.Product{ItemName: "B", BatchNo: "b1", Qty: 2},
	)

	_, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items: []entity.OrderLineItem{
			{ItemName: "A", Qty: 3, MRP: money("1")},
			{ItemName: "B", Qty: 3, MRP: money("1")},
		},
		CustomerPhone: "555",
	})

	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for B. Available: 2", err.Error())
	assert.Equal(t, 5, qtyOf(t, f.products, "A", "a1"))
	all, _ := f.orders.ListAll(context.Background())
	assert.Empty(t, all)
	assert.Empty(t, f.sink.rows)
	assert.Empty(t, f.jobs.names)
}

func TestPlaceOrder_Validation(t *testing.T) {
	f := newOrderFixture(t, entity.Product{ItemName: "A", BatchNo: "a1", Qty: 5})
	cases := map[string]entity.PlaceOrderRequest{
		"No order items":             {CustomerPhone: "555"},
		"Customer phone is required": {Items: []entity.OrderLineItem{{ItemName: "A", Qty: 1}}, CustomerPhone: "  "},
		"Invalid quantity for A":     {Items: []entity.OrderLineItem{{ItemName: "A", Qty: 0}}, CustomerPhone: "555"},
		"Invalid price for A":        {Items: []entity.OrderLineItem{{ItemName: "A", Qty: 1, MRP: money("-1")}}, CustomerPhone: "555"},
		"Item name is required":      {Items: []entity.OrderLineItem{{ItemName: " ", Qty: 1}}, CustomerPhone: "555"},
	}
	for want, req := range cases {
		t.Run(want, func(t *testing.T) {
			_, err := f.uc.PlaceOrder(context.Background(), buyer, req)
			require.True(t, apperr.IsValidation(err), "got %v", err)
			assert.Equal(t, want, err.Error())
		})
	}
	assert.Equal(t, 5, qtyOf(t, f.products, "A", "a1"))
}

func TestPlaceOrder_RejectsOverflowingQuantity(t *testing.T) {
	f := newOrderFixture(t, entity.Product{ItemName: "A", BatchNo: "a1", Qty: 5})
	half := math.MaxInt/2 + 1

	for _, items := range [][]entity.OrderLineItem{
		{{ItemName: "A", Qty: half, MRP: money("1")}, {ItemName: "A", Qty: half, MRP: money("1")}},
		{{ItemName: "A", Qty: constants.MaxLineQty + 1, MRP: money("1")}},
		{{ItemName: "A", Qty: constants.MaxLineQty, MRP: money("1")}, {ItemName: "A", Qty: 1, MRP: money("1")}},
	} {
		order, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{Items: items, CustomerPhone: "555"})
		require.True(t, apperr.IsValidation(err), "got %v", err)
		assert.Nil(t, order)
	}

	assert.Equal(t, 5, qtyOf(t, f.products, "A", "a1"))
	all, _ := f.orders.ListAll(context.Background())
	assert.Empty(t, all)
}

func TestPlaceOrder_LedgerGroupsPerProduct(t *testing.T) {
	f := newOrderFixture(t,
		entity.Product{ItemName: "A", BatchNo: "a1", Qty: 10},
		entity.Product{ItemName: "B", BatchNo: "b1", Qty: 10},
	)

	_, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items: []entity.OrderLineItem{
			{ItemName: "A", Qty: 2, MRP: money("10")},
			{ItemName: "B", Qty: 1, MRP: money("4")},
			{ItemName: "A", Qty: 1, MRP: money("12")},
		},
		CustomerName:  "Shop 7",
		CustomerPhone: "555",
	})

	require.NoError(t, err)
	require.Len(t, f.sink.rows, 2)
	a := f.sink.rows[0]
	assert.Equal(t, "A", a[1])
	assert.Equal(t, 3, a[2])
	assert.Equal(t, "10", a[3], "first unit price")
	assert.Equal(t, "32", a[4], "sum of line totals")
	assert.Equal(t, "Shop 7", a[5])
	assert.Equal(t, 7, qtyOf(t, f.products, "A", "a1"))
}

func TestPlaceOrder_SinkFailureIsSwallowed(t *testing.T) {
	f := newOrderFixture(t, entity.Product{ItemName: "A", BatchNo: "a1", Qty: 10})
	f.sink.err = errors.New("sheet offline")

	ord, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items:         []entity.OrderLineItem{{ItemName: "A", Qty: 1, MRP: money("2")}},
		CustomerPhone: "555",
	})

	require.NoError(t, err)
	require.NotNil(t, ord)
	require.NotEmpty(t, f.jobs.errs)
	assert.Error(t, f.jobs.errs[0])
	_, found, _ := f.orders.Get(context.Background(), ord.ID)
	assert.True(t, found)
}

func TestPlaceOrder_FullQueueStillSucceeds(t *testing.T) {
	f := newOrderFixture(t, entity.Product{ItemName: "A", BatchNo: "a1", Qty: 10})
	f.jobs.reject = true

	_, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items:         []entity.OrderLineItem{{ItemName: "A", Qty: 1, MRP: money("2")}},
		CustomerPhone: "555",
	})

	require.NoError(t, err)
	assert.Empty(t, f.sink.rows)
}

func TestPlaceOrder_SaveFailureRestoresStock(t *testing.T) {
	products := seedProducts(t, entity.Product{ItemName: "A", BatchNo: "a1", Qty: 4})
	uc := NewOrderUseCase(OrderDeps{
		Orders: failingOrders{storage.NewMemoryOrderRepository()},
		Ledger: NewStockLedger(products),
	})

	_, err := uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items:         []entity.OrderLineItem{{ItemName: "A", Qty: 3, MRP: money("2")}},
		CustomerPhone: "555",
	})

	require.Error(t, err)
	assert.False(t, apperr.IsValidation(err))
	assert.Equal(t, 4, qtyOf(t, products, "A", "a1"))
}

func TestUpdateStatus(t *testing.T) {
	f := newOrderFixture(t, entity.Product{ItemName: "A", BatchNo: "a1", Qty: 10})
	_, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items:         []entity.OrderLineItem{{ItemName: "A", Qty: 1, MRP: money("2")}},
		CustomerPhone: "555",
	})
	require.NoError(t, err)

	ord, err := f.uc.UpdateStatus(context.Background(), "ord-1", "Shipped")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusShipped, ord.Status)

	ord, err = f.uc.UpdateStatus(context.Background(), "ord-1", "placed")
	require.NoError(t, err, "any known status may be set at any time")
	assert.Equal(t, entity.StatusPlaced, ord.Status)

	_, err = f.uc.UpdateStatus(context.Background(), "ord-1", "teleported")
	assert.True(t, apperr.IsValidation(err))

	_, err = f.uc.UpdateStatus(context.Background(), "nope", "shipped")
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Order not found", err.Error())
}

func TestGetOrder_OwnerOrAdmin(t *testing.T) {
	f := newOrderFixture(t, entity.Product{ItemName: "A", BatchNo: "a1", Qty: 10})
	_, err := f.uc.PlaceOrder(context.Background(), buyer, entity.PlaceOrderRequest{
		Items:         []entity.OrderLineItem{{ItemName: "A", Qty: 1, MRP: money("2")}},
		CustomerPhone: "555",
	})
	require.NoError(t, err)

	_, err = f.uc.GetOrder(context.Background(), buyer, "ord-1")
	assert.NoError(t, err)
	_, err = f.uc.GetOrder(context.Background(), entity.Account{ID: "admin", Admin: true}, "ord-1")
	assert.NoError(t, err)
	_, err = f.uc.GetOrder(context.Background(), entity.Account{ID: "u2"}, "ord-1")
	assert.True(t, apperr.IsNotFound(err))

	mine, err := f.uc.ListMyOrders(context.Background(), buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	others, err := f.uc.ListMyOrders(context.Background(), entity.Account{ID: "u2"})
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestBuildLedgerEntries_OrderPreserved(t *testing.T) {
	entries := BuildLedgerEntries(entity.Order{
		ID: "x",
		Items: []entity.OrderLineItem{
			{ItemName: "B", Qty: 1, MRP: money("1")},
			{ItemName: "A", Qty: 1, MRP: money("1")},
			{ItemName: "B", Qty: 2, MRP: money("1")},
		},
	})
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].Product)
	assert.Equal(t, 3, entries[0].Qty)
	assert.Equal(t, "A", entries[1].Product)
}
