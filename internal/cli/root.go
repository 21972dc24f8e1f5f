package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/yourusername/sheet-store/config"
	"github.com/yourusername/sheet-store/pkg/logger"
)

// NewRootCommand creates the sheet-store command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet-store",
		Short: "Spreadsheet-backed catalog and ordering service",
		Long: `sheet-store serves a product catalog reconciled from a Google Sheet,
takes customer orders against that stock and mirrors every sale to a
ledger sheet.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init()
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewSyncCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}

// loadApp reads configuration and wires the dependency graph.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg)
}
