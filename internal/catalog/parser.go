package catalog

import (
	"strings"

	"github.com/yourusername/sheet-store/internal/domain/entity"
)

// RowKind classification of one normalized stock row
type RowKind int

const (
	RowBlank RowKind = iota
	RowCategory
	RowOrphan
	RowTotal
	RowData
)

func (k RowKind) String() string {
	switch k {
	case RowBlank:
		return "blank"
	case RowCategory:
		return "category"
	case RowOrphan:
		return "orphan"
	case RowTotal:
		return "total"
	case RowData:
		return "data"
	default:
		return "unknown"
	}
}

var totalNames = map[string]struct{}{
	"total":    {},
	"subtotal": {},
	"sum":      {},
}

// ParserState carry-forward state of one parse run. Never persisted.
type ParserState struct {
	LastItemName    string
	HasLastItem     bool
	CurrentCategory string
}

// NewParserState starting state of every ingestion pass.
func NewParserState() ParserState {
	return ParserState{CurrentCategory: entity.DefaultCategory}
}

// Classify decides what a row means given the carried state. The returned
// name is the effective item name for continuation and data rows.
func Classify(state ParserState, row entity.NormalizedRow) (RowKind, string) {
	if row.ItemName == "" && row.Pack == "" && row.BatchNo == "" &&
		row.ExpiryDate == "" && row.Qty == "" && row.MRP == "" {
		return RowBlank, ""
	}

	// Header wins over totals: a "Total" row with no batch opens a section.
	if row.ItemName != "" && row.BatchNo == "" {
		return RowCategory, row.ItemName
	}

	name := row.ItemName
	if name == "" {
		if !state.HasLastItem {
			return RowOrphan, ""
		}
		name = state.LastItemName
	}

	if isTotalName(name) {
		return RowTotal, name
	}
	return RowData, name
}

// Step is the parser reducer: it consumes one row and returns the next state
// and the record the row produced, if any.
func Step(state ParserState, row entity.NormalizedRow) (ParserState, *entity.Product) {
	kind, name := Classify(state, row)
	switch kind {
	case RowCategory:
		state.CurrentCategory = name
		return state, nil
	case RowData:
		if row.ItemName != "" {
			state.LastItemName = row.ItemName
			state.HasLastItem = true
		}
		return state, &entity.Product{
			ItemName:   name,
			Pack:       row.Pack,
			BatchNo:    row.BatchNo,
			ExpiryDate: ParseExpiry(row.ExpiryDate),
			Qty:        ParseCount(row.Qty),
			PQty:       ParseCount(row.PQty),
			MRP:        ParseMoney(row.MRP),
			Category:   state.CurrentCategory,
		}
	default:
		return state, nil
	}
}

// Parse folds Step over the rows in order, starting from NewParserState.
func Parse(rows []entity.RawRow) []entity.Product {
	state := NewParserState()
	products := make([]entity.Product, 0, len(rows))
	for _, raw := range rows {
		var p *entity.Product
		state, p = Step(state, NormalizeRow(raw))
		if p != nil {
			products = append(products, *p)
		}
	}
	return products
}

func isTotalName(name string) bool {
	_, ok := totalNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
