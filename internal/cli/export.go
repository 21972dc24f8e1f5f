package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourusername/sheet-store/internal/infrastructure/excel"
)

// NewExportCommand creates the export-orders command.
func NewExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-orders",
		Short: "Write every order to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			orders, err := a.orders.ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			data, err := excel.BuildOrdersXLSX(orders)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders to %s\n", len(orders), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "orders.xlsx", "output file")

	return cmd
}
