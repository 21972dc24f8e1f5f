package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/sheet-store/internal/catalog"
	"github.com/yourusername/sheet-store/internal/domain/apperr"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// HiddenProductsUseCase admin-maintained list of item names kept out of
// customer catalog reads. The list lives in a single sheet column.
type HiddenProductsUseCase interface {
	List(ctx context.Context) ([]string, error)
	HiddenSet(ctx context.Context) catalog.HiddenSet
	Add(ctx context.Context, name string) ([]string, error)
	Remove(ctx context.Context, name string) ([]string, error)
}

type hiddenProductsUseCase struct {
	store   repository.SheetRangeStore
	rangeA1 string

	// serializes read-modify-write cycles on the sheet
	mu sync.Mutex
}

// NewHiddenProductsUseCase binds the hidden list to rangeA1 ("HiddenProducts!A:A").
func NewHiddenProductsUseCase(store repository.SheetRangeStore, rangeA1 string) HiddenProductsUseCase {
	return &hiddenProductsUseCase{store: store, rangeA1: rangeA1}
}

func (u *hiddenProductsUseCase) List(ctx context.Context) ([]string, error) {
	rows, err := u.store.ReadRange(ctx, u.rangeA1)
	if err != nil {
		return nil, fmt.Errorf("read hidden products: %w", err)
	}
	return catalog.HiddenNamesFromRows(rows), nil
}

// HiddenSet never fails: an unreadable list hides nothing.
func (u *hiddenProductsUseCase) HiddenSet(ctx context.Context) catalog.HiddenSet {
	names, err := u.List(ctx)
	if err != nil {
		log.Printf("[catalog] hidden list unavailable, showing all products: %v", err)
		return nil
	}
	return catalog.NewHiddenSet(names)
}

func (u *hiddenProductsUseCase) Add(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(catalog.NormalizeCell(name))
	if name == "" {
		return nil, apperr.Validation("Product name is required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	names, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	if catalog.NewHiddenSet(names).Contains(name) {
		return names, nil
	}
	names, err = u.rewrite(ctx, append(names, name))
	if err != nil {
		return nil, err
	}
	log.Printf("[catalog] hidden product added: %s", name)
	return names, nil
}

func (u *hiddenProductsUseCase) Remove(ctx context.Context, name string) ([]string, error) {
	key := catalog.HiddenKey(name)
	if key == "" {
		return nil, apperr.Validation("Product name is required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	names, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	kept := names[:0:0]
	for _, n := range names {
		if catalog.HiddenKey(n) != key {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(names) {
		return nil, &apperr.NotFoundError{Kind: "hidden product", Key: name}
	}
	kept, err = u.rewrite(ctx, kept)
	if err != nil {
		return nil, err
	}
	log.Printf("[catalog] hidden product removed: %s", name)
	return kept, nil
}

// rewrite clears the column and writes names back sorted.
func (u *hiddenProductsUseCase) rewrite(ctx context.Context, names []string) ([]string, error) {
	sorted := append([]string(nil), names...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return catalog.HiddenKey(sorted[i]) < catalog.HiddenKey(sorted[j])
	})
	if err := u.store.ClearRange(ctx, u.rangeA1); err != nil {
		return nil, fmt.Errorf("clear hidden products: %w", err)
	}
	rows := make([][]interface{}, len(sorted))
	for i, n := range sorted {
		rows[i] = []interface{}{n}
	}
	if err := u.store.UpdateRange(ctx, firstCell(u.rangeA1), rows); err != nil {
		return nil, fmt.Errorf("write hidden products: %w", err)
	}
	return sorted, nil
}

// firstCell turns "HiddenProducts!A:A" into "HiddenProducts!A1".
func firstCell(rangeA1 string) string {
	sheet, ref := "", rangeA1
	if idx := strings.LastIndex(rangeA1, "!"); idx >= 0 {
		sheet, ref = rangeA1[:idx+1], rangeA1[idx+1:]
	}
	if idx := strings.Index(ref, ":"); idx >= 0 {
		ref = ref[:idx]
	}
	if strings.TrimRight(ref, "0123456789") == ref {
		ref += "1"
	}
	return sheet + ref
}
