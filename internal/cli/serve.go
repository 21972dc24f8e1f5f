package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourusername/sheet-store/internal/delivery/rest"
	"github.com/yourusername/sheet-store/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	drainTimeout    = 30 * time.Second
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var syncOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), syncOnStart)
		},
	}
	cmd.Flags().BoolVar(&syncOnStart, "sync-on-start", true, "reconcile the catalog from the sheet before serving")

	return cmd
}

func runServe(parent context.Context, syncOnStart bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.stores.Close()

	// ledger jobs outlive the signal so queued rows are still written
	poolCtx, cancelPool := context.WithCancel(context.Background())
	defer cancelPool()
	a.pool.Start(poolCtx)

	if syncOnStart {
		if res, err := a.catalog.Sync(ctx); err != nil {
			logger.ErrorLogger.Printf("initial catalog sync failed: %v", err)
		} else {
			logger.InfoLogger.Printf("✅ Catalog synced: %d products (%d new)", res.Parsed, res.Inserted)
		}
	}
	go a.catalog.RunPeriodicSync(ctx, a.cfg.Catalog.SyncInterval)

	router := rest.NewRouter(rest.RouterDeps{
		Catalog:        a.catalog,
		Hidden:         a.hidden,
		Orders:         a.orders,
		Auth:           rest.NewAuthenticator(a.cfg.JWTSecret),
		AllowedOrigins: a.cfg.AllowedOrigins,
		ImportRange:    a.cfg.Catalog.Range,
	})
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoLogger.Printf("🚀 Server starting on port %s", a.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.InfoLogger.Println("⏳ Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Printf("Server forced to shutdown: %v", err)
	}

	drainPool(a, cancelPool)
	logger.InfoLogger.Println("✅ Server stopped gracefully")
	return nil
}

// drainPool waits for queued ledger jobs, abandoning retries after drainTimeout.
func drainPool(a *app, cancel context.CancelFunc) {
	done := make(chan struct{})
	go func() {
		a.pool.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		logger.ErrorLogger.Printf("ledger queue not drained after %s, abandoning retries", drainTimeout)
		cancel()
		<-done
	}
}
