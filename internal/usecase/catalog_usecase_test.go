package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sheet-store/internal/domain/apperr"
	"github.com/yourusername/sheet-store/internal/domain/entity"
)

var stockRows = []entity.RawRow{
	{"Item", "Pack", "Batch", "Expiry", "Qty", "PQty", "MRP"},
	{"Antibiotics"},
	{"Amoxicillin", "10x10", "B1", "2026-01-01", "50", "0", "120"},
	{"", "10x10", "B2", "2027-01-01", "30", "0", "120"},
	{"Total", "", "", "", "80", "", ""},
	{"Analgesics"},
	{"Aspirin", "1x10", "A1", "", "5", "", "2"},
}

func newCatalog(t *testing.T, src *stubSource, hidden []string) (CatalogUseCase, *stubRangeStore) {
	t.Helper()
	store := &stubRangeStore{}
	for _, n := range hidden {
		store.rows = append(store.rows, entity.RawRow{n})
	}
	uc := NewCatalogUseCase(src, seedProducts(t), NewHiddenProductsUseCase(store, "HiddenProducts!A:A"),
		CatalogOptions{Range: "Stock!A2:G", HeaderRows: 1})
	return uc, store
}

func TestCatalogSync_UpsertsParsedRows(t *testing.T) {
	src := &stubSource{rows: stockRows}
	uc, _ := newCatalog(t, src, nil)

	res, err := uc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Stock!A2:G", src.rng)
	assert.Equal(t, SyncResult{Rows: 7, Parsed: 3, Inserted: 3}, res)

	again, err := uc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, again.Updated)
	assert.Equal(t, 0, again.Inserted)

	products, err := uc.ListProducts(context.Background(), entity.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Antibiotics", products[1].Category)
	assert.Equal(t, "Amoxicillin", products[1].ItemName)
	assert.Equal(t, "B2", products[1].BatchNo)
}

func TestCatalogSync_NoDataLeavesStoreUntouched(t *testing.T) {
	src := &stubSource{rows: stockRows}
	uc, _ := newCatalog(t, src, nil)
	_, err := uc.Sync(context.Background())
	require.NoError(t, err)

	src.rows = nil
	_, err = uc.Sync(context.Background())

	assert.True(t, apperr.IsNoData(err))
	products, _ := uc.ListProducts(context.Background(), entity.ProductFilter{})
	assert.Len(t, products, 3)
}

func TestCatalogSync_OnlyHeaders(t *testing.T) {
	uc, _ := newCatalog(t, &stubSource{rows: stockRows[:2]}, nil)

	_, err := uc.Sync(context.Background())

	assert.True(t, apperr.IsValidation(err))
}

func TestCatalogSync_SourceError(t *testing.T) {
	uc, _ := newCatalog(t, &stubSource{err: errors.New("workbook locked")}, nil)
	_, err := uc.Sync(context.Background())
	require.Error(t, err)
	assert.False(t, apperr.IsNoData(err))
}

func TestReconcile_UnseenRowsKept(t *testing.T) {
	uc, _ := newCatalog(t, &stubSource{}, nil)
	ctx := context.Background()

	_, err := uc.Reconcile(ctx, []entity.Product{
		{ItemName: "A", BatchNo: "1", Qty: 1},
		{ItemName: "B", BatchNo: "1", Qty: 1},
	})
	require.NoError(t, err)

	res, err := uc.Reconcile(ctx, []entity.Product{{ItemName: "A", BatchNo: "1", Qty: 9}})
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Parsed: 1, Updated: 1}, res)

	b, err := uc.GetProduct(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Qty)
	a, err := uc.GetProduct(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 9, a.Qty)
}

func TestListProducts_HidesAndSorts(t *testing.T) {
	uc, _ := newCatalog(t, &stubSource{rows: stockRows}, []string{"ASPIRIN"})
	_, err := uc.Sync(context.Background())
	require.NoError(t, err)

	products, err := uc.ListProducts(context.Background(), entity.ProductFilter{SortBy: "qty"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 30, products[0].Qty)
	assert.Equal(t, 50, products[1].Qty)

	_, err = uc.GetProduct(context.Background(), "aspirin")
	assert.True(t, apperr.IsNotFound(err))

	first, err := uc.GetProduct(context.Background(), "Amoxicillin")
	require.NoError(t, err)
	assert.Equal(t, "B1", first.BatchNo, "first-expiring batch")

	filtered, err := uc.ListProducts(context.Background(), entity.ProductFilter{Category: "analg"})
	require.NoError(t, err)
	assert.Empty(t, filtered)

	cats, err := uc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Analgesics", "Antibiotics"}, cats)
}

func TestHiddenProducts_AddRemove(t *testing.T) {
	store := &stubRangeStore{}
	store.rows = []entity.RawRow{{"Zinc"}}
	uc := NewHiddenProductsUseCase(store, "HiddenProducts!A:A")
	ctx := context.Background()

	names, err := uc.Add(ctx, " aspirin ")
	require.NoError(t, err)
	assert.Equal(t, []string{"aspirin", "Zinc"}, names)
	assert.Equal(t, "HiddenProducts!A1", store.updatedAt)

	names, err = uc.Add(ctx, "ZINC")
	require.NoError(t, err)
	assert.Len(t, names, 2, "duplicates are not added")

	names, err = uc.Remove(ctx, "Aspirin")
	require.NoError(t, err)
	assert.Equal(t, []string{"Zinc"}, names)

	_, err = uc.Remove(ctx, "Aspirin")
	assert.True(t, apperr.IsNotFound(err))

	_, err = uc.Add(ctx, "  ")
	assert.True(t, apperr.IsValidation(err))

	assert.True(t, uc.HiddenSet(ctx).Contains("zinc"))
}

func TestHiddenProducts_WriteFailure(t *testing.T) {
	store := &stubRangeStore{failWrite: true}
	uc := NewHiddenProductsUseCase(store, "HiddenProducts!A:A")
	_, err := uc.Add(context.Background(), "Aspirin")
	assert.Error(t, err)
}

func TestHiddenProducts_ReadFailureLeavesSheet(t *testing.T) {
	store := &stubRangeStore{}
	store.rows = []entity.RawRow{{"Zinc"}, {"Iron"}}
	store.err = errors.New("503 backend unavailable")
	uc := NewHiddenProductsUseCase(store, "HiddenProducts!A:A")
	ctx := context.Background()

	_, err := uc.Add(ctx, "Aspirin")
	assert.ErrorContains(t, err, "read hidden products")
	_, err = uc.Remove(ctx, "Zinc")
	assert.ErrorContains(t, err, "read hidden products")

	assert.Empty(t, store.cleared)
	assert.Empty(t, store.updatedAt)
	assert.Len(t, store.rows, 2)
	assert.Nil(t, uc.HiddenSet(ctx))
}

func TestFirstCell(t *testing.T) {
	assert.Equal(t, "HiddenProducts!A1", firstCell("HiddenProducts!A:A"))
	assert.Equal(t, "Hidden!B3", firstCell("Hidden!B3:B"))
	assert.Equal(t, "A1", firstCell("A:A"))
}
