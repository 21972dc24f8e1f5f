package sheets

import (
	"context"
	"log"

	"github.com/yourusername/sheet-store/internal/domain/entity"
)

// Disabled stands in for the Sheets client when no credentials are configured:
// reads come back empty and writes are dropped.
type Disabled struct{}

func (Disabled) GetRows(context.Context, string) ([]entity.RawRow, error) {
	return nil, nil
}

func (Disabled) ReadRange(context.Context, string) ([]entity.RawRow, error) {
	return nil, nil
}

func (Disabled) AppendRow(_ context.Context, rangeA1 string, _ []interface{}) error {
	log.Printf("[sheets] disabled, ledger row for %s not written", rangeA1)
	return nil
}

func (Disabled) UpdateRange(context.Context, string, [][]interface{}) error { return nil }

func (Disabled) ClearRange(context.Context, string) error { return nil }
