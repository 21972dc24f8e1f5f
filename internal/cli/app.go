package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/sheet-store/config"
	"github.com/yourusername/sheet-store/internal/domain/repository"
	"github.com/yourusername/sheet-store/internal/infrastructure/notify"
	"github.com/yourusername/sheet-store/internal/infrastructure/sheets"
	"github.com/yourusername/sheet-store/internal/infrastructure/storage"
	"github.com/yourusername/sheet-store/internal/usecase"
	"github.com/yourusername/sheet-store/internal/worker"
	"github.com/yourusername/sheet-store/pkg/logger"
)

// sheetBackend everything the service reads from and writes to the spreadsheet.
type sheetBackend interface {
	repository.CatalogSource
	repository.LedgerSink
	repository.SheetRangeStore
}

// app dependency graph shared by every command
type app struct {
	cfg     *config.Config
	stores  *storage.Stores
	sheet   sheetBackend
	pool    *worker.Pool
	hidden  usecase.HiddenProductsUseCase
	catalog usecase.CatalogUseCase
	orders  usecase.OrderUseCase
}

// newApp wires stores, the spreadsheet client and the use cases. The worker
// pool is created but not started.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	applyTimezone(cfg.Timezone)

	stores := storage.NewStoresFromDSN(ctx, cfg.PostgresDSN, storage.ConnectOptions{
		Attempts: cfg.PostgresConnectAttempts,
		Delay:    cfg.PostgresConnectDelay,
	})
	logger.InfoLogger.Printf("✅ Storage tayyor (%s)", stores.Backend())

	sheet, err := newSheetBackend(ctx, cfg.Google)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}

	pool := worker.New(worker.Options{
		Workers:     cfg.Ledger.Workers,
		QueueSize:   cfg.Ledger.QueueSize,
		MaxAttempts: cfg.Ledger.MaxAttempts,
		Timeout:     cfg.Ledger.Timeout,
		Backoff:     cfg.Ledger.Backoff,
	})

	hidden := usecase.NewHiddenProductsUseCase(sheet, cfg.Catalog.HiddenRange)
	catalog := usecase.NewCatalogUseCase(sheet, stores.Products, hidden, usecase.CatalogOptions{
		Range:      cfg.Catalog.Range,
		HeaderRows: cfg.Catalog.HeaderRows,
	})
	orders := usecase.NewOrderUseCase(usecase.OrderDeps{
		Orders:      stores.Orders,
		Ledger:      usecase.NewStockLedger(stores.Products),
		Jobs:        pool,
		Sink:        sheet,
		LedgerRange: cfg.Ledger.Range,
		Notifier:    notify.NewTelegramNotifier(cfg.TelegramToken, cfg.AdminChatID, cfg.AdminChatThreadID),
	})

	return &app{
		cfg:     cfg,
		stores:  stores,
		sheet:   sheet,
		pool:    pool,
		hidden:  hidden,
		catalog: catalog,
		orders:  orders,
	}, nil
}

func newSheetBackend(ctx context.Context, g config.GoogleConfig) (sheetBackend, error) {
	if !g.Enabled() {
		logger.InfoLogger.Println("Google Sheets credentials yo'q, sheet integration o'chirilgan")
		return sheets.Disabled{}, nil
	}
	client, err := sheets.NewClient(ctx, sheets.Credentials{
		ClientEmail: g.ClientEmail,
		PrivateKey:  g.PrivateKey,
	}, g.SheetID)
	if err != nil {
		return nil, fmt.Errorf("google sheets client: %w", err)
	}
	logger.InfoLogger.Println("✅ Google Sheets client tayyor")
	return client, nil
}

func (a *app) Close() {
	a.pool.Shutdown()
	if err := a.stores.Close(); err != nil {
		logger.ErrorLogger.Printf("storage close: %v", err)
	}
}

// applyTimezone sets time.Local; unknown names keep the host zone.
func applyTimezone(name string) {
	if name == "" {
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.ErrorLogger.Printf("TIMEZONE %q not loaded: %v", name, err)
		return
	}
	time.Local = loc
}
