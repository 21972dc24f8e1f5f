package constants

import "time"

// Sheet range defaults
const (
	// DefaultCatalogRange stock sheet, header row included
	DefaultCatalogRange = "Stock!A2:G"

	// DefaultCatalogHeaderRows rows skipped at the top of the catalog range
	DefaultCatalogHeaderRows = 1

	// DefaultLedgerRange sales ledger sheet
	DefaultLedgerRange = "Orders!A:G"

	// DefaultHiddenRange admin-hidden product names, one per row
	DefaultHiddenRange = "HiddenProducts!A:A"
)

// Ledger mirror worker defaults
const (
	DefaultLedgerWorkers     = 2
	DefaultLedgerQueueSize   = 256
	DefaultLedgerMaxAttempts = 3
	DefaultLedgerTimeout     = 20 * time.Second
	DefaultLedgerBackoff     = 2 * time.Second
)

// Postgres connection retry defaults
const (
	DefaultPostgresConnectAttempts = 20
	DefaultPostgresConnectDelay    = 2 * time.Second
)

// HTTP defaults
const (
	DefaultPort = "5000"

	// MaxOrderLines upper bound of lines in one order request
	MaxOrderLines = 200

	// MaxLineQty upper bound of one item's quantity in an order, summed over
	// duplicate lines. Keeps totals well inside the INTEGER qty column.
	MaxLineQty = 1_000_000
)

// LedgerTimestampLayout timestamp column format in the ledger sheet
const LedgerTimestampLayout = "02/01/2006, 15:04:05"
