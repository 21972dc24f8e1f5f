package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

func date(y int, m time.Month) *time.Time {
	d := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestMemoryProduct_UpsertByNameAndBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	res, err := repo.Upsert(ctx, entity.Product{ItemName: "Aspirin", BatchNo: "A1", Qty: 5, Category: "Pain"})
	require.NoError(t, err)
	assert.Equal(t, repository.Inserted, res)

	res, err = repo.Upsert(ctx, entity.Product{ItemName: "Aspirin", BatchNo: "A1", Qty: 9, MRP: decimal.NewFromInt(3), Category: "Analgesics"})
	require.NoError(t, err)
	assert.Equal(t, repository.Updated, res)

	got, ok, err := repo.FindByKey(ctx, entity.ProductKey{ItemName: "Aspirin", BatchNo: "A1"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9, got.Qty)
	assert.Equal(t, "Analgesics", got.Category)
	assert.Equal(t, int64(1), got.ID)

	all, err := repo.List(ctx, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryProduct_FindByNameFirstExpiring(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	for _, p := range []entity.Product{
		{ItemName: "Zinc", BatchNo: "late", ExpiryDate: date(2028, 1)},
		{ItemName: "Zinc", BatchNo: "none"},
		{ItemName: "Zinc", BatchNo: "early", ExpiryDate: date(2026, 6)},
		{ItemName: "Iron", BatchNo: "x"},
	} {
		_, err := repo.Upsert(ctx, p)
		require.NoError(t, err)
	}

	batches, err := repo.FindByName(ctx, "Zinc")
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, []string{"early", "late", "none"}, []string{batches[0].BatchNo, batches[1].BatchNo, batches[2].BatchNo})
}

func TestMemoryProduct_ConditionalDecrement(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	key := entity.ProductKey{ItemName: "A", BatchNo: "1"}
	_, err := repo.Upsert(ctx, entity.Product{ItemName: "A", BatchNo: "1", Qty: 1})
	require.NoError(t, err)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.DecrementStock(ctx, key, 1)
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	got, _, _ := repo.FindByKey(ctx, key)
	assert.Equal(t, 0, got.Qty)

	require.NoError(t, repo.IncrementStock(ctx, key, 4))
	got, _, _ = repo.FindByKey(ctx, key)
	assert.Equal(t, 4, got.Qty)
}

func TestMemoryProduct_Categories(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	for _, p := range []entity.Product{
		{ItemName: "a", BatchNo: "1", Category: "Syrups"},
		{ItemName: "b", BatchNo: "1", Category: "Antibiotics"},
		{ItemName: "c", BatchNo: "1", Category: "Syrups"},
		{ItemName: "d", BatchNo: "1"},
	} {
		_, err := repo.Upsert(ctx, p)
		require.NoError(t, err)
	}

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Antibiotics", "Syrups"}, cats)
}

func TestMemoryOrder_StatusAndListing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, entity.Order{ID: "o1", UserID: "u1", Status: entity.StatusPlaced, CreatedAt: base}))
	require.NoError(t, repo.Save(ctx, entity.Order{ID: "o2", UserID: "u1", Status: entity.StatusPlaced, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Save(ctx, entity.Order{ID: "o3", UserID: "u2", Status: entity.StatusPlaced, CreatedAt: base}))

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o2", mine[0].ID)

	updated, ok, err := repo.UpdateStatus(ctx, "o1", entity.StatusShipped)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.StatusShipped, updated.Status)

	_, ok, err = repo.UpdateStatus(ctx, "missing", entity.StatusShipped)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestParseDSN(t *testing.T) {
	info, ok := parseDSN("postgres://app:secret@db:6543/shop?sslmode=require")
	require.True(t, ok)
	assert.Equal(t, dsnInfo{User: "app", Password: "secret", Host: "db", Port: "6543", DBName: "shop", SSLMode: "require"}, info)
	assert.Equal(t, "postgres://app:secret@db:6543/postgres?sslmode=require", info.withDB("postgres"))

	info, ok = parseDSN("host=localhost user=app dbname='shop'")
	require.True(t, ok)
	assert.Equal(t, "5432", info.Port)
	assert.Equal(t, "disable", info.SSLMode)
	assert.Equal(t, "shop", info.DBName)

	_, ok = parseDSN("   ")
	assert.False(t, ok)
}

func TestNewStoresFromDSN_EmptyFallsBackToMemory(t *testing.T) {
	stores := NewStoresFromDSN(context.Background(), "", ConnectOptions{})
	assert.Equal(t, "memory", stores.Backend())
	assert.NoError(t, stores.Close())
}
