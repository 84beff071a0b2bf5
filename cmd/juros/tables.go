package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/juros-engine/calc"
	"github.com/warp/juros-engine/factory"
	"github.com/warp/juros-engine/rates"
	"github.com/warp/juros-engine/store/sqlite"
	"go.uber.org/zap"
)

var (
	seedForce     bool
	showFormat    string
	showCategory  string
	historyLimit  int
	errNoDatabase = errors.New("no table database configured (use --db or database.path)")
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Maintain the reference tables",
	Long: `Rate schedules and devaluation coefficients live either in the binary
(built-in) or in a SQLite file named by --db / database.path. These commands
seed that file, import newly published rates and print the current tables.`,
}

var tablesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in tables to the database",
	Args:  cobra.NoArgs,
	RunE:  runTablesSeed,
}

var tablesImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace tables from a JSON or YAML document",
	Long: `Reads a tables document (see factory/tables.go for the schema), validates
every table in it and replaces the matching tables in the database. Tables
not named in the document are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runTablesImport,
}

var tablesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current tables as a document",
	Args:  cobra.NoArgs,
	RunE:  runTablesShow,
}

var tablesHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent table replacements",
	Args:  cobra.NoArgs,
	RunE:  runTablesHistory,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(tablesSeedCmd, tablesImportCmd, tablesShowCmd, tablesHistoryCmd)

	tablesSeedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite tables already in the database")
	tablesShowCmd.Flags().StringVarP(&showFormat, "format", "f", "yaml", "yaml or json")
	tablesShowCmd.Flags().StringVarP(&showCategory, "category", "c", "", "show one category's schedule only")
	tablesHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries")
}

// requireDatabase opens the configured SQLite file without seeding it.
func requireDatabase() (*sqlite.Store, error) {
	if conf.Database.Path == "" {
		return nil, errNoDatabase
	}
	return sqlite.New(conf.Database.Path)
}

func runTablesSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := requireDatabase()
	if err != nil {
		return err
	}
	defer store.Close()

	empty, err := store.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty && !seedForce {
		return fmt.Errorf("%s already holds tables; use --force to overwrite", conf.Database.Path)
	}

	if err := store.Seed(ctx, rates.Schedules(), rates.Devaluation(), "built-in"); err != nil {
		return err
	}
	logger.Info("tables seeded", zap.String("op", "main.tablesSeed"), zap.String("path", conf.Database.Path))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %s with built-in tables\n", conf.Database.Path)
	return nil
}

func runTablesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tables, err := factory.NewTableFactory().Parse(data, factory.FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	store, err := requireDatabase()
	if err != nil {
		return err
	}
	defer store.Close()

	return importTables(ctx, store, tables, path, cmd.OutOrStdout())
}

func importTables(ctx context.Context, store *sqlite.Store, tables *factory.Tables, source string, out io.Writer) error {
	for _, c := range calc.Categories {
		s, ok := tables.Schedules[c]
		if !ok {
			continue
		}
		if err := store.ReplaceScheduleFrom(ctx, c, s, source); err != nil {
			return err
		}
		logger.Info("schedule replaced",
			zap.String("op", "main.tablesImport"),
			zap.Stringer("category", c),
			zap.Int("entries", len(s)),
		)
		fmt.Fprintf(out, "%s: %d entries\n", c, len(s))
	}
	if tables.Devaluation != nil {
		if err := store.ReplaceDevaluationFrom(ctx, *tables.Devaluation, source); err != nil {
			return err
		}
		logger.Info("devaluation table replaced",
			zap.String("op", "main.tablesImport"),
			zap.Int("ranges", len(tables.Devaluation.Ranges)),
		)
		fmt.Fprintf(out, "devaluation: %d ranges\n", len(tables.Devaluation.Ranges))
	}
	return nil
}

func runTablesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := factory.Format(showFormat)
	if format != factory.FormatYAML && format != factory.FormatJSON {
		return fmt.Errorf("unknown format %q (want yaml or json)", showFormat)
	}

	store, closeStore, err := openTables(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	schedules, err := store.Schedules(ctx)
	if err != nil {
		return err
	}

	f := factory.NewTableFactory()
	var doc factory.TablesDocument
	if showCategory != "" {
		c, err := calc.ParseCategory(showCategory)
		if err != nil {
			return err
		}
		doc = f.ToDocument(map[calc.Category]calc.Schedule{c: schedules[c]}, nil)
	} else {
		table, err := store.Devaluation(ctx)
		if err != nil {
			return err
		}
		doc = f.ToDocument(schedules, &table)
	}

	data, err := factory.Marshal(doc, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runTablesHistory(cmd *cobra.Command, args []string) error {
	store, err := requireDatabase()
	if err != nil {
		return err
	}
	defer store.Close()

	updates, err := store.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "APPLIED\tTABLE\tROWS\tSOURCE\tID")
	for _, u := range updates {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			u.AppliedAt.Format("2006-01-02 15:04:05"), u.Table, u.Rows, u.Source, u.ID)
	}
	return tw.Flush()
}
