package cmd

import (
	"fmt"
	"slices"

	"api_inventory/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the schema",
	Long:      "Postgres runs the embedded SQL migrations; sqlite creates or drops tables from the models.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, args []string) error {
	direction := database.Up
	if len(args) == 1 {
		direction = database.Direction(args[0])
	}

	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	a.log.Info("running migrations", zap.String("driver", a.db.Driver), zap.String("direction", string(direction)))

	switch {
	case a.db.Driver == "postgres":
		err = database.Migrate(a.cfg.Database.DSN(), direction)
	case direction == database.Up:
		err = a.db.AutoMigrate(models()...)
	default:
		// Drop in reverse so expenditures go before their categories.
		tables := models()
		slices.Reverse(tables)
		err = a.db.DB.Migrator().DropTable(tables...)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	a.log.Info("migrations complete", zap.String("direction", string(direction)))
	return nil
}
