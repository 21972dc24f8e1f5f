package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/yourusername/sheet-store/internal/domain/entity"
)

// SortableFields product fields accepted by SortProducts.
var SortableFields = []string{"itemName", "pack", "batchNo", "expiryDate", "qty", "pqty", "mrp", "category"}

// MatchesFilter applies search and category substring matching, case-insensitive.
func MatchesFilter(p entity.Product, f entity.ProductFilter) bool {
	if s := strings.TrimSpace(f.Search); s != "" && !strings.Contains(strings.ToLower(p.ItemName), strings.ToLower(s)) {
		return false
	}
	if c := strings.TrimSpace(f.Category); c != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(c)) {
		return false
	}
	return true
}

// SortProducts sorts in place by f.SortBy; numeric fields compare numerically,
// text fields case-insensitively. Unknown or empty SortBy leaves order untouched.
func SortProducts(products []entity.Product, f entity.ProductFilter) {
	less := productLess(f.SortBy)
	if less == nil {
		return
	}
	desc := strings.EqualFold(f.SortOrder, "desc")
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func productLess(field string) func(a, b entity.Product) bool {
	text := func(get func(entity.Product) string) func(a, b entity.Product) bool {
		return func(a, b entity.Product) bool {
			return strings.ToLower(get(a)) < strings.ToLower(get(b))
		}
	}
	switch field {
	case "itemName":
		return text(func(p entity.Product) string { return p.ItemName })
	case "pack":
		return text(func(p entity.Product) string { return p.Pack })
	case "batchNo":
		return text(func(p entity.Product) string { return p.BatchNo })
	case "category":
		return text(func(p entity.Product) string { return p.Category })
	case "qty":
		return func(a, b entity.Product) bool { return a.Qty < b.Qty }
	case "pqty":
		return func(a, b entity.Product) bool { return a.PQty < b.PQty }
	case "mrp":
		return func(a, b entity.Product) bool { return a.MRP.LessThan(b.MRP) }
	case "expiryDate":
		return func(a, b entity.Product) bool { return expiryBefore(a.ExpiryDate, b.ExpiryDate) }
	default:
		return nil
	}
}

// expiryBefore orders dated batches first, earliest first; undated last.
func expiryBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// SortFirstExpiring orders batches of one item for stock allocation:
// earliest expiry first, undated last, then by batch number.
func SortFirstExpiring(batches []entity.Product) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if expiryBefore(a.ExpiryDate, b.ExpiryDate) {
			return true
		}
		if expiryBefore(b.ExpiryDate, a.ExpiryDate) {
			return false
		}
		return a.BatchNo < b.BatchNo
	})
}
