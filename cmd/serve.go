package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"api_inventory/api"
	"api_inventory/internal/expenditures"
	"api_inventory/internal/reports"
	"api_inventory/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Example: `  api-inventory serve
  INVENTORY_APP_PORT=9000 api-inventory serve --config ./config.toml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Dependencies{
		Sales:          sales.NewService(sales.NewGormStorage(a.db.DB), a.log.Named("sales")),
		Expenditures:   expenditures.NewService(expenditures.NewGormStorage(a.db.DB), a.log.Named("expenditures")),
		Reports:        reports.NewService(reports.NewGormLedger(a.db.DB), a.log.Named("reports")),
		Logger:         a.log,
		RequestTimeout: a.cfg.HTTP.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + a.cfg.App.Port,
		Handler:      router,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("app", a.cfg.App.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.log.Info("Server exited gracefully")
	return nil
}
