package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/sheet-store/internal/domain/apperr"
	"github.com/yourusername/sheet-store/internal/domain/constants"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// keyedMutex one lock per item name, created on demand and dropped when idle.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// lockAll acquires every key in sorted order so two callers with overlapping
// sets cannot deadlock. The returned func releases them.
func (k *keyedMutex) lockAll(keys []string) func() {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	held := make([]string, 0, len(sorted))
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		k.mu.Lock()
		l, ok := k.locks[key]
		if !ok {
			l = &refLock{}
			k.locks[key] = l
		}
		l.refs++
		k.mu.Unlock()

		l.mu.Lock()
		held = append(held, key)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			key := held[i]
			k.mu.Lock()
			l := k.locks[key]
			l.refs--
			if l.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
			l.mu.Unlock()
		}
	}
}

// Allocation stock taken from one batch.
type Allocation struct {
	Key entity.ProductKey
	Qty int
}

// StockLedger validates and commits stock decrements for an order as one unit.
type StockLedger struct {
	products repository.ProductRepository
	locks    *keyedMutex
}

// NewStockLedger yangi StockLedger
func NewStockLedger(products repository.ProductRepository) *StockLedger {
	return &StockLedger{products: products, locks: newKeyedMutex()}
}

type stockLine struct {
	name string
	qty  int
}

// mergeLines sums duplicate item names, keeping first-seen order. Every line
// and every sum must stay within (0, constants.MaxLineQty].
func mergeLines(lines []entity.StockRequest) ([]stockLine, error) {
	idx := make(map[string]int, len(lines))
	var merged []stockLine
	for _, l := range lines {
		name := strings.TrimSpace(l.ItemName)
		if l.Qty <= 0 || l.Qty > constants.MaxLineQty {
			return nil, apperr.Validation("Invalid quantity for %s", name)
		}
		if i, ok := idx[name]; ok {
			// both operands are bounded, so the sum cannot wrap
			if merged[i].qty+l.Qty > constants.MaxLineQty {
				return nil, apperr.Validation("Invalid quantity for %s", name)
			}
			merged[i].qty += l.Qty
			continue
		}
		idx[name] = len(merged)
		merged = append(merged, stockLine{name: name, qty: l.Qty})
	}
	return merged, nil
}

// ReserveAndDecrement checks every line against current stock and then
// decrements all of them. Either every line is applied or none is: the first
// failing line (in request order) is reported and earlier decrements are
// undone. Batches of an item are drawn first-expiring first.
func (l *StockLedger) ReserveAndDecrement(ctx context.Context, lines []entity.StockRequest) ([]Allocation, error) {
	merged, err := mergeLines(lines)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(merged))
	for i, m := range merged {
		names[i] = m.name
	}
	unlock := l.locks.lockAll(names)
	defer unlock()

	batches := make([][]entity.Product, len(merged))
	for i, m := range merged {
		rows, err := l.products.FindByName(ctx, m.name)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, apperr.ProductNotFound(m.name)
		}
		if avail := available(rows); avail < m.qty {
			return nil, &apperr.InsufficientStockError{Item: m.name, Available: avail, Requested: m.qty}
		}
		batches[i] = rows
	}

	var applied []Allocation
	for i, m := range merged {
		remaining := m.qty
		for _, b := range batches[i] {
			if remaining == 0 {
				break
			}
			take := min(b.Qty, remaining)
			if take <= 0 {
				continue
			}
			ok, err := l.products.DecrementStock(ctx, b.Key(), take)
			if err != nil {
				l.Release(ctx, applied)
				return nil, err
			}
			if !ok {
				// stock moved under us (e.g. a concurrent catalog sync)
				l.Release(ctx, applied)
				return nil, l.insufficient(ctx, m)
			}
			applied = append(applied, Allocation{Key: b.Key(), Qty: take})
			remaining -= take
		}
		if remaining > 0 {
			l.Release(ctx, applied)
			return nil, l.insufficient(ctx, m)
		}
	}
	return applied, nil
}

// Release puts allocated stock back. Failures are logged; there is nothing
// left to roll back to.
func (l *StockLedger) Release(ctx context.Context, allocs []Allocation) {
	for _, a := range allocs {
		if err := l.products.IncrementStock(ctx, a.Key, a.Qty); err != nil {
			log.Printf("[ledger] failed to restore %d of %s/%s: %v", a.Qty, a.Key.ItemName, a.Key.BatchNo, err)
		}
	}
}

func (l *StockLedger) insufficient(ctx context.Context, m stockLine) error {
	avail := 0
	if rows, err := l.products.FindByName(ctx, m.name); err == nil {
		avail = available(rows)
	}
	return &apperr.InsufficientStockError{Item: m.name, Available: avail, Requested: m.qty}
}

func available(rows []entity.Product) int {
	total := 0
	for _, r := range rows {
		if r.Qty > 0 {
			total += r.Qty
		}
	}
	return total
}
