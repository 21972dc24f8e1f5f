package excel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// WorkbookSource reads catalog rows from a local .xlsx workbook, addressed
// with the same A1 ranges as the live spreadsheet ("Stock!A2:G").
type WorkbookSource struct {
	open func() (*excelize.File, error)
}

var _ repository.CatalogSource = (*WorkbookSource)(nil)

// NewFileSource opens path on every read.
func NewFileSource(path string) *WorkbookSource {
	return &WorkbookSource{open: func() (*excelize.File, error) {
		return excelize.OpenFile(path)
	}}
}

// NewReaderSource buffers the workbook from r.
func NewReaderSource(r io.Reader) (*WorkbookSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return &WorkbookSource{open: func() (*excelize.File, error) {
		return excelize.OpenReader(bytes.NewReader(data))
	}}, nil
}

// GetRows returns the cells inside rangeA1. A range without a sheet name
// reads the first sheet.
func (s *WorkbookSource) GetRows(_ context.Context, rangeA1 string) ([]entity.RawRow, error) {
	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rng, err := parseRange(rangeA1)
	if err != nil {
		return nil, err
	}
	sheet := rng.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var rows []entity.RawRow
	for i, cells := range all {
		rowNum := i + 1
		if rowNum < rng.StartRow || (rng.EndRow > 0 && rowNum > rng.EndRow) {
			continue
		}
		rows = append(rows, cut(cells, rng.StartCol, rng.EndCol))
	}
	return rows, nil
}

func cut(cells []string, startCol, endCol int) entity.RawRow {
	from := startCol - 1
	if from >= len(cells) {
		return entity.RawRow{}
	}
	to := len(cells)
	if endCol > 0 && endCol < to {
		to = endCol
	}
	row := make(entity.RawRow, to-from)
	copy(row, cells[from:to])
	return row
}

// a1Range bounds are 1-based; zero End* means open-ended.
type a1Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

func parseRange(raw string) (a1Range, error) {
	rng := a1Range{StartCol: 1, StartRow: 1}
	ref := strings.TrimSpace(raw)
	idx := strings.LastIndex(ref, "!")
	if idx >= 0 {
		rng.Sheet = strings.Trim(ref[:idx], "'")
		ref = ref[idx+1:]
	}
	if ref == "" {
		return rng, nil
	}
	parts := strings.SplitN(ref, ":", 2)
	var err error
	if rng.StartCol, rng.StartRow, err = parseBound(parts[0]); err != nil {
		if idx < 0 && len(parts) == 1 {
			// bare sheet name
			return a1Range{Sheet: strings.Trim(ref, "'"), StartCol: 1, StartRow: 1}, nil
		}
		return a1Range{}, fmt.Errorf("invalid range %q: %w", raw, err)
	}
	if rng.StartCol == 0 {
		rng.StartCol = 1
	}
	if rng.StartRow == 0 {
		rng.StartRow = 1
	}
	if len(parts) == 2 {
		if rng.EndCol, rng.EndRow, err = parseBound(parts[1]); err != nil {
			return a1Range{}, fmt.Errorf("invalid range %q: %w", raw, err)
		}
	}
	return rng, nil
}

// parseBound accepts "B2", "B" or "2"; missing parts come back as 0.
func parseBound(ref string) (col, row int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	letters := strings.TrimRight(ref, "0123456789")
	digits := ref[len(letters):]
	switch {
	case letters != "" && digits != "":
		return excelize.CellNameToCoordinates(ref)
	case letters != "":
		col, err = excelize.ColumnNameToNumber(letters)
		return col, 0, err
	case digits != "":
		_, row, err = excelize.CellNameToCoordinates("A" + digits)
		return 0, row, err
	default:
		return 0, 0, fmt.Errorf("empty bound")
	}
}
