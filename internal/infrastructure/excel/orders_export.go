package excel

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/sheet-store/internal/domain/entity"
)

const (
	summarySheet = "Summary"
	ordersSheet  = "Orders"
	itemsSheet   = "Items"
)

var (
	orderHeaders = []string{"CreatedAt", "OrderID", "UserID", "Status", "Customer", "Phone", "TotalQty", "TotalPrice", "Lines"}
	itemHeaders  = []string{"OrderID", "CreatedAt", "Product", "Qty", "MRP", "Total"}
)

// BuildOrdersXLSX renders orders into a workbook with a summary sheet, one row
// per order and one row per order line.
func BuildOrdersXLSX(orders []entity.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{ordersSheet, itemsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	revenue := decimal.Zero
	units := 0
	byStatus := make(map[entity.OrderStatus]int)
	for _, ord := range orders {
		revenue = revenue.Add(ord.TotalPrice)
		units += ord.TotalQty
		byStatus[ord.Status]++
	}
	summary := [][]interface{}{
		{"Orders", len(orders)},
		{"Units sold", units},
		{"Revenue", revenue.StringFixed(2)},
	}
	for _, st := range entity.KnownStatuses() {
		if n := byStatus[st]; n > 0 {
			summary = append(summary, []interface{}{"Status " + string(st), n})
		}
	}
	if err := writeRows(f, summarySheet, 1, summary); err != nil {
		return nil, err
	}

	if err := writeHeader(f, ordersSheet, orderHeaders); err != nil {
		return nil, err
	}
	if err := writeHeader(f, itemsSheet, itemHeaders); err != nil {
		return nil, err
	}

	var orderRows, itemRows [][]interface{}
	for _, ord := range orders {
		created := formatTime(ord)
		orderRows = append(orderRows, []interface{}{
			created,
			ord.ID,
			ord.UserID,
			string(ord.Status),
			ord.CustomerName,
			ord.CustomerPhone,
			ord.TotalQty,
			ord.TotalPrice.StringFixed(2),
			len(ord.Items),
		})
		for _, it := range ord.Items {
			itemRows = append(itemRows, []interface{}{
				ord.ID,
				created,
				it.ItemName,
				it.Qty,
				it.MRP.StringFixed(2),
				it.Total().StringFixed(2),
			})
		}
	}
	if err := writeRows(f, ordersSheet, 2, orderRows); err != nil {
		return nil, err
	}
	if err := writeRows(f, itemsSheet, 2, itemRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(ord entity.Order) string {
	if ord.CreatedAt.IsZero() {
		return ""
	}
	return ord.CreatedAt.UTC().Format("2006-01-02 15:04:05")
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return writeRows(f, sheet, 1, [][]interface{}{row})
}

func writeRows(f *excelize.File, sheet string, firstRow int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, firstRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
