package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const tokenURI = "https://oauth2.googleapis.com/token"

// Credentials service-account identity used to reach the spreadsheet.
type Credentials struct {
	ClientEmail string
	PrivateKey  string
}

func (c Credentials) json() ([]byte, error) {
	if strings.TrimSpace(c.ClientEmail) == "" || strings.TrimSpace(c.PrivateKey) == "" {
		return nil, fmt.Errorf("google service account credentials are empty")
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": c.ClientEmail,
		"private_key":  c.PrivateKey,
		"token_uri":    tokenURI,
	})
}

// Client Google Sheets values API over one spreadsheet.
type Client struct {
	srv     *gsheets.Service
	sheetID string
}

var _ repository.CatalogSource = (*Client)(nil)
var _ repository.SheetRangeStore = (*Client)(nil)
var _ repository.LedgerSink = (*Client)(nil)

// NewClient authenticates with the service account and binds to sheetID.
func NewClient(ctx context.Context, creds Credentials, sheetID string, opts ...option.ClientOption) (*Client, error) {
	raw, err := creds.json()
	if err != nil {
		return nil, err
	}
	opts = append([]option.ClientOption{
		option.WithCredentialsJSON(raw),
		option.WithScopes(gsheets.SpreadsheetsScope),
	}, opts...)
	return newClient(ctx, sheetID, opts...)
}

func newClient(ctx context.Context, sheetID string, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(sheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}
	return &Client{srv: srv, sheetID: sheetID}, nil
}

// GetRows reads a range as rows of display strings. Upstream failures are
// logged and reported as an empty result.
func (c *Client) GetRows(ctx context.Context, rangeA1 string) ([]entity.RawRow, error) {
	rows, err := c.ReadRange(ctx, rangeA1)
	if err != nil {
		log.Printf("[sheets] %v", err)
		return nil, nil
	}
	return rows, nil
}

// ReadRange is GetRows without the empty-on-failure fallback.
func (c *Client) ReadRange(ctx context.Context, rangeA1 string) ([]entity.RawRow, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.sheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rangeA1, err)
	}
	rows := make([]entity.RawRow, 0, len(resp.Values))
	for _, cells := range resp.Values {
		row := make(entity.RawRow, len(cells))
		for i, cell := range cells {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow appends one row after the last non-empty row of the range.
func (c *Client) AppendRow(ctx context.Context, rangeA1 string, values []interface{}) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{values}}
	_, err := c.srv.Spreadsheets.Values.Append(c.sheetID, rangeA1, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rangeA1, err)
	}
	return nil
}

// UpdateRange overwrites the range starting at its top-left cell.
func (c *Client) UpdateRange(ctx context.Context, rangeA1 string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	vr := &gsheets.ValueRange{Values: rows}
	_, err := c.srv.Spreadsheets.Values.Update(c.sheetID, rangeA1, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rangeA1, err)
	}
	return nil
}

// ClearRange empties every cell in the range.
func (c *Client) ClearRange(ctx context.Context, rangeA1 string) error {
	_, err := c.srv.Spreadsheets.Values.Clear(c.sheetID, rangeA1, &gsheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rangeA1, err)
	}
	return nil
}
