/*
main.go - Application entry point

PURPOSE:
  The `juros` command: serves the calculation API and exposes the same
  calculations on the command line.

COMMANDS:
  juros serve                          HTTP API (graceful shutdown)
  juros accrue --category CIVIL ...    Late-payment interest for debts
  juros coefficient YEAR [VALUE]       Devaluation coefficient
  juros tables seed|import|show|history  Reference table maintenance

GLOBAL FLAGS:
  --config     YAML configuration file (optional)
  --log-level  Overrides logging.level
  --db         SQLite reference tables; overrides database.path.
               Empty means the built-in tables, served from memory.

ENVIRONMENT:
  JUROS_SERVER_ADDRESS, JUROS_DATABASE_PATH, JUROS_LOGGING_LEVEL, ...
  (every config key, dots replaced by underscores)

SEE ALSO:
  - config/config.go: Configuration keys and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Table storage
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/juros-engine/calc"
	"github.com/warp/juros-engine/config"
	"github.com/warp/juros-engine/logging"
	"github.com/warp/juros-engine/rates"
	"github.com/warp/juros-engine/store/sqlite"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	dbPath     string

	conf   *config.Configuration
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "juros",
	Short: "Late-payment interest and devaluation coefficients",
	Long: `juros computes Portuguese late-payment interest (juros de mora) for
civil, commercial and State debts, and updates historical values with the
official devaluation coefficients.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite reference tables (overrides database.path)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfiguration(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		c.Database.Path = dbPath
	}

	l, err := logging.New(c.Logging, logLevel)
	if err != nil {
		return err
	}

	conf, logger = c, l
	return nil
}

// openTables returns the configured table source. A new SQLite file is
// seeded with the built-in tables on first use.
func openTables(ctx context.Context) (calc.TableStore, func() error, error) {
	if conf.Database.Path == "" {
		logger.Debug("using built-in tables", zap.String("op", "main.openTables"))
		return rates.NewStore(), func() error { return nil }, nil
	}

	store, err := openSQLite(ctx, conf.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func openSQLite(ctx context.Context, path string) (*sqlite.Store, error) {
	store, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	empty, err := store.IsEmpty(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	if empty {
		logger.Info("seeding empty table database with built-in tables",
			zap.String("op", "main.openSQLite"),
			zap.String("path", path),
		)
		if err := store.Seed(ctx, rates.Schedules(), rates.Devaluation(), "built-in"); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

// loadEngine opens the table source and loads validated tables from it.
func loadEngine(ctx context.Context) (*calc.Engine, calc.DevaluationTable, error) {
	store, closeStore, err := openTables(ctx)
	if err != nil {
		return nil, calc.DevaluationTable{}, err
	}
	defer closeStore()

	engine, table, err := calc.LoadEngine(ctx, store)
	if err != nil {
		return nil, calc.DevaluationTable{}, fmt.Errorf("failed to load tables: %w", err)
	}
	return engine, table, nil
}
