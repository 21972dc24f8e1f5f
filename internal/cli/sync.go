package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yourusername/sheet-store/internal/infrastructure/excel"
	"github.com/yourusername/sheet-store/internal/usecase"
	"github.com/yourusername/sheet-store/pkg/logger"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the catalog from the stock sheet once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			warnMemory(a)

			res, err := a.catalog.Sync(cmd.Context())
			if err != nil {
				return err
			}
			printSync(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

// NewImportCommand creates the import-xlsx command.
func NewImportCommand() *cobra.Command {
	var (
		file    string
		rangeA1 string
	)

	cmd := &cobra.Command{
		Use:   "import-xlsx",
		Short: "Reconcile the catalog from a local .xlsx stock workbook",
		Long: `Reads the stock layout (item, pack, batch, expiry, qty, pqty, mrp) from a
workbook exported from the stock sheet and reconciles it into the store.
The range defaults to CATALOG_RANGE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			warnMemory(a)

			if rangeA1 == "" {
				rangeA1 = a.cfg.Catalog.Range
			}
			res, err := a.catalog.SyncFrom(cmd.Context(), excel.NewFileSource(file), rangeA1)
			if err != nil {
				return err
			}
			printSync(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the .xlsx workbook")
	cmd.Flags().StringVar(&rangeA1, "range", "", "A1 range to read, e.g. Stock!A2:G")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printSync(w io.Writer, res usecase.SyncResult) {
	fmt.Fprintf(w, "Synced %d products from %d rows (%d new, %d updated)\n", res.Parsed, res.Rows, res.Inserted, res.Updated)
}

func warnMemory(a *app) {
	if a.stores.Backend() == "memory" {
		logger.InfoLogger.Println("⚠️ In-memory store: changes are lost when this command exits")
	}
}
