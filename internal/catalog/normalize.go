package catalog

import (
	"strings"

	"github.com/yourusername/sheet-store/internal/domain/entity"
)

// cellNoise characters human-edited sheets leave inside cells
var cellNoise = strings.NewReplacer("\r", "", "\n", "", "\t", "", "\u00a0", "")

// NormalizeCell strips embedded CR, LF, TAB and NBSP, then trims.
func NormalizeCell(raw string) string {
	return strings.TrimSpace(cellNoise.Replace(raw))
}

// NormalizeRow pads the row to entity.CatalogColumns and cleans every cell.
// Cells beyond the seventh are ignored.
func NormalizeRow(raw entity.RawRow) entity.NormalizedRow {
	var cells [entity.CatalogColumns]string
	for i := 0; i < entity.CatalogColumns && i < len(raw); i++ {
		cells[i] = NormalizeCell(raw[i])
	}
	return entity.NormalizedRow{
		ItemName:   cells[0],
		Pack:       cells[1],
		BatchNo:    cells[2],
		ExpiryDate: cells[3],
		Qty:        cells[4],
		PQty:       cells[5],
		MRP:        cells[6],
	}
}
