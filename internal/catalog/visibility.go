package catalog

import (
	"strings"

	"github.com/yourusername/sheet-store/internal/domain/entity"
	"golang.org/x/text/cases"
)

// HiddenSet case-insensitive set of item names kept out of customer reads.
type HiddenSet map[string]struct{}

// HiddenKey normalizes a name for HiddenSet membership.
func HiddenKey(name string) string {
	// Caser is stateful, so one per call.
	return cases.Fold().String(NormalizeCell(name))
}

// NewHiddenSet builds the set, skipping blank names.
func NewHiddenSet(names []string) HiddenSet {
	set := make(HiddenSet, len(names))
	for _, n := range names {
		if key := HiddenKey(n); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is hidden.
func (s HiddenSet) Contains(name string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[HiddenKey(name)]
	return ok
}

// FilterHidden returns the products whose names are not hidden, preserving order.
func FilterHidden(products []entity.Product, hidden HiddenSet) []entity.Product {
	if len(hidden) == 0 {
		return products
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if hidden.Contains(p.ItemName) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// HiddenNamesFromRows flattens a single-column range into names.
func HiddenNamesFromRows(rows []entity.RawRow) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if name := strings.TrimSpace(NormalizeCell(row[0])); name != "" {
			names = append(names, name)
		}
	}
	return names
}
