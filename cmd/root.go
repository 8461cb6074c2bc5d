package cmd

import (
	"fmt"
	"os"
	"time"

	"api_inventory/internal/config"
	"api_inventory/internal/database"
	"api_inventory/internal/expenditures"
	"api_inventory/internal/logger"
	"api_inventory/internal/sales"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const slowQueryThreshold = 200 * time.Millisecond

var configPath string

var rootCmd = &cobra.Command{
	Use:   "api-inventory",
	Short: "Inventory and sales backend with income statement reporting",
	Long: `api-inventory records sales and operating expenditures and derives a
simplified income statement (revenue, refunds, gross profit, operating
expenses, net income) for today or any UTC time range.

Configuration is read from config.toml (or --config) and INVENTORY_* environment
variables; a .env file in the working directory is loaded first when present.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file (default ./config.toml)")
}

// app is what every subcommand needs: configuration, a logger and the store.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *database.Database
}

// models lists every table the sqlite driver creates from gorm models.
func models() []any {
	return append([]any{&sales.Sale{}}, expenditures.Models()...)
}

// bootstrap loads configuration and opens the store. With autoMigrate set,
// sqlite stores get their tables created; postgres relies on the migrate command.
func bootstrap(autoMigrate bool) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	gormLog := logger.NewGormLogger(log.Named("gorm"), logger.GormLevel(cfg.Log.Level), slowQueryThreshold)
	db, err := database.Open(&cfg.Database, gormLog)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	if autoMigrate && db.Driver == "sqlite" {
		if err := db.AutoMigrate(models()...); err != nil {
			_ = db.Close()
			_ = log.Sync()
			return nil, err
		}
	}

	log.Debug("bootstrap complete",
		zap.String("env", cfg.App.Env),
		zap.String("driver", db.Driver),
	)
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}
