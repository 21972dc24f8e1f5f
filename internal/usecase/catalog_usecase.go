package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/sheet-store/internal/catalog"
	"github.com/yourusername/sheet-store/internal/domain/apperr"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// SyncResult counts of one reconciliation pass.
type SyncResult struct {
	Rows     int `json:"rows"`
	Parsed   int `json:"count"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// CatalogUseCase catalog ingestion and customer-facing catalog reads
type CatalogUseCase interface {
	// Sync pulls the configured range from the live source and reconciles it.
	Sync(ctx context.Context) (SyncResult, error)
	// SyncFrom reconciles from another source, e.g. an uploaded workbook.
	SyncFrom(ctx context.Context, src repository.CatalogSource, rangeA1 string) (SyncResult, error)
	Reconcile(ctx context.Context, products []entity.Product) (SyncResult, error)

	ListProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, itemName string) (entity.Product, error)

	// RunPeriodicSync blocks, syncing every interval until ctx is done.
	RunPeriodicSync(ctx context.Context, interval time.Duration)
}

// CatalogOptions stock range layout
type CatalogOptions struct {
	Range      string
	HeaderRows int
}

type catalogUseCase struct {
	source   repository.CatalogSource
	products repository.ProductRepository
	hidden   HiddenProductsUseCase
	opts     CatalogOptions

	// one reconciliation at a time
	syncMu sync.Mutex
}

// NewCatalogUseCase yangi CatalogUseCase yaratish. hidden may be nil.
func NewCatalogUseCase(
	source repository.CatalogSource,
	products repository.ProductRepository,
	hidden HiddenProductsUseCase,
	opts CatalogOptions,
) CatalogUseCase {
	if opts.HeaderRows < 0 {
		opts.HeaderRows = 0
	}
	return &catalogUseCase{
		source:   source,
		products: products,
		hidden:   hidden,
		opts:     opts,
	}
}

func (u *catalogUseCase) Sync(ctx context.Context) (SyncResult, error) {
	return u.SyncFrom(ctx, u.source, u.opts.Range)
}

func (u *catalogUseCase) SyncFrom(ctx context.Context, src repository.CatalogSource, rangeA1 string) (SyncResult, error) {
	u.syncMu.Lock()
	defer u.syncMu.Unlock()

	rows, err := src.GetRows(ctx, rangeA1)
	if err != nil {
		return SyncResult{}, fmt.Errorf("read catalog rows: %w", err)
	}
	if len(rows) == 0 {
		return SyncResult{}, apperr.ErrNoData
	}
	total := len(rows)
	if u.opts.HeaderRows >= len(rows) {
		rows = nil
	} else {
		rows = rows[u.opts.HeaderRows:]
	}

	products := catalog.Parse(rows)
	if len(products) == 0 {
		return SyncResult{Rows: total}, apperr.Validation("no valid products to sync")
	}

	res, err := u.Reconcile(ctx, products)
	res.Rows = total
	if err != nil {
		return res, err
	}
	log.Printf("[catalog] sync done (rows=%d, products=%d, inserted=%d, updated=%d)", res.Rows, res.Parsed, res.Inserted, res.Updated)
	return res, nil
}

// Reconcile upserts each record by (itemName, batchNo). Records missing from
// the input are left untouched.
func (u *catalogUseCase) Reconcile(ctx context.Context, products []entity.Product) (SyncResult, error) {
	res := SyncResult{Parsed: len(products)}
	for _, p := range products {
		outcome, err := u.products.Upsert(ctx, p)
		if err != nil {
			return res, fmt.Errorf("reconcile %s/%s: %w", p.ItemName, p.BatchNo, err)
		}
		if outcome == repository.Inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

func (u *catalogUseCase) ListProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	products, err := u.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products = catalog.FilterHidden(products, u.hiddenSet(ctx))
	catalog.SortProducts(products, filter)
	return products, nil
}

func (u *catalogUseCase) Categories(ctx context.Context) ([]string, error) {
	cats, err := u.products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// GetProduct returns the first-expiring batch of a visible item.
func (u *catalogUseCase) GetProduct(ctx context.Context, itemName string) (entity.Product, error) {
	name := strings.TrimSpace(itemName)
	if name == "" {
		return entity.Product{}, apperr.Validation("Product name is required")
	}
	if u.hiddenSet(ctx).Contains(name) {
		return entity.Product{}, apperr.ProductNotFound(name)
	}
	batches, err := u.products.FindByName(ctx, name)
	if err != nil {
		return entity.Product{}, fmt.Errorf("find product %s: %w", name, err)
	}
	if len(batches) == 0 {
		return entity.Product{}, apperr.ProductNotFound(name)
	}
	return batches[0], nil
}

func (u *catalogUseCase) RunPeriodicSync(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log.Printf("[catalog] periodic sync every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := u.Sync(ctx); err != nil {
				log.Printf("[catalog] periodic sync failed: %v", err)
			}
		}
	}
}

func (u *catalogUseCase) hiddenSet(ctx context.Context) catalog.HiddenSet {
	if u.hidden == nil {
		return nil
	}
	return u.hidden.HiddenSet(ctx)
}
