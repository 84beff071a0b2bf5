/*
Package sqlite provides a SQLite-backed implementation of calc.TableWriter.

PURPOSE:
  Holds the operator-maintained reference tables (rate schedules per
  category and the devaluation coefficients) so a newly published semester
  rate can be imported without rebuilding the binary. Debts and results are
  never stored; every calculation stays a pure function of its inputs.

KEY TABLES:
  rate_entries:        One row per schedule entry, ordered by seq
  devaluation_meta:    Single row with first/reference year
  devaluation_ranges:  One row per coefficient range, ordered by seq
  table_updates:       Append-only audit of every replace (who ran what, when)

REPLACE SEMANTICS:
  ReplaceSchedule / ReplaceDevaluation validate first, then swap the whole
  table in one SQL transaction. An invalid table never reaches the database
  and readers never see half a table.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so `juros tables import`
  can run while a server reads.

USAGE:
  store, err := sqlite.New("./data/juros.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine, table, err := calc.LoadEngine(ctx, store)

SEE ALSO:
  - calc/store.go: Interface definitions
  - calc/store/memory.go: In-memory implementation
  - rates/: Built-in tables used by Seed
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/juros-engine/calc"
)

// Store implements calc.TableWriter using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Rate schedules, one row per entry
	CREATE TABLE IF NOT EXISTS rate_entries (
		category TEXT NOT NULL,
		seq INTEGER NOT NULL,
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		rate TEXT NOT NULL,
		PRIMARY KEY (category, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_rate_entries_category_from
		ON rate_entries(category, effective_from);

	-- Devaluation table header (single row)
	CREATE TABLE IF NOT EXISTS devaluation_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		first_year INTEGER NOT NULL,
		reference_year INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS devaluation_ranges (
		seq INTEGER PRIMARY KEY,
		min_year INTEGER,
		max_year INTEGER,
		coefficient TEXT NOT NULL
	);

	-- Audit of table replacements (append-only)
	CREATE TABLE IF NOT EXISTS table_updates (
		id TEXT PRIMARY KEY,
		table_name TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		source TEXT,
		applied_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_table_updates_applied_at
		ON table_updates(applied_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TABLE STORE (calc.TableStore interface)
// =============================================================================

// Schedules returns every stored category's schedule.
func (s *Store) Schedules(ctx context.Context) (map[calc.Category]calc.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, effective_from, effective_to, rate
		FROM rate_entries
		ORDER BY category, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate entries: %w", err)
	}
	defer rows.Close()

	schedules := make(map[calc.Category]calc.Schedule)
	for rows.Next() {
		var (
			categoryID string
			from       string
			to         sql.NullString
			rate       string
		)
		if err := rows.Scan(&categoryID, &from, &to, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate entry: %w", err)
		}

		category, err := calc.ParseCategory(categoryID)
		if err != nil {
			return nil, err
		}
		entry, err := scanRateEntry(from, to, rate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", category, err)
		}
		schedules[category] = append(schedules[category], entry)
	}

	return schedules, rows.Err()
}

// Devaluation returns the stored coefficient table, or calc.ErrTableNotFound
// when none has been written yet.
func (s *Store) Devaluation(ctx context.Context) (calc.DevaluationTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var table calc.DevaluationTable
	err := s.db.QueryRowContext(ctx,
		"SELECT first_year, reference_year FROM devaluation_meta WHERE id = 1",
	).Scan(&table.FirstYear, &table.ReferenceYear)
	if errors.Is(err, sql.ErrNoRows) {
		return calc.DevaluationTable{}, fmt.Errorf("%w: devaluation", calc.ErrTableNotFound)
	}
	if err != nil {
		return calc.DevaluationTable{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT min_year, max_year, coefficient FROM devaluation_ranges ORDER BY seq",
	)
	if err != nil {
		return calc.DevaluationTable{}, fmt.Errorf("failed to query devaluation ranges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			minYear, maxYear sql.NullInt64
			coefficient      string
		)
		if err := rows.Scan(&minYear, &maxYear, &coefficient); err != nil {
			return calc.DevaluationTable{}, fmt.Errorf("failed to scan devaluation range: %w", err)
		}
		coef, err := calc.ParseAmount(coefficient)
		if err != nil {
			return calc.DevaluationTable{}, err
		}
		table.Ranges = append(table.Ranges, calc.DevaluationRange{
			MinYear:     yearPtr(minYear),
			MaxYear:     yearPtr(maxYear),
			Coefficient: coef,
		})
	}

	return table, rows.Err()
}

// =============================================================================
// TABLE WRITER (calc.TableWriter interface)
// =============================================================================

// ReplaceSchedule validates sched, then swaps the category's rows.
func (s *Store) ReplaceSchedule(ctx context.Context, c calc.Category, sched calc.Schedule) error {
	return s.ReplaceScheduleFrom(ctx, c, sched, "")
}

// ReplaceScheduleFrom is ReplaceSchedule with the source recorded in the
// audit log (a file path, "built-in", ...).
func (s *Store) ReplaceScheduleFrom(ctx context.Context, c calc.Category, sched calc.Schedule, source string) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", calc.ErrUnknownCategory, c)
	}
	if err := sched.Validate(c.String()); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceScheduleTx(ctx, tx, c, sched, source)
	})
}

// ReplaceDevaluation validates t, then swaps the coefficient table.
func (s *Store) ReplaceDevaluation(ctx context.Context, t calc.DevaluationTable) error {
	return s.ReplaceDevaluationFrom(ctx, t, "")
}

// ReplaceDevaluationFrom is ReplaceDevaluation with the source recorded in
// the audit log.
func (s *Store) ReplaceDevaluationFrom(ctx context.Context, t calc.DevaluationTable, source string) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceDevaluationTx(ctx, tx, t, source)
	})
}

// Seed writes every schedule and the devaluation table in one transaction.
// All tables are validated before anything is written.
func (s *Store) Seed(ctx context.Context, schedules map[calc.Category]calc.Schedule, t calc.DevaluationTable, source string) error {
	for c, sched := range schedules {
		if !c.Valid() {
			return fmt.Errorf("%w: %s", calc.ErrUnknownCategory, c)
		}
		if err := sched.Validate(c.String()); err != nil {
			return err
		}
	}
	if err := t.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range calc.Categories {
			sched, ok := schedules[c]
			if !ok {
				continue
			}
			if err := replaceScheduleTx(ctx, tx, c, sched, source); err != nil {
				return err
			}
		}
		return replaceDevaluationTx(ctx, tx, t, source)
	})
}

// IsEmpty reports whether no table has been written yet.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM rate_entries) + (SELECT COUNT(*) FROM devaluation_meta)
	`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

// TableUpdate is one recorded table replacement.
type TableUpdate struct {
	ID        string
	Table     string
	Rows      int
	Source    string
	AppliedAt time.Time
}

// History returns the most recent table replacements, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]TableUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, table_name, row_count, source, applied_at
		FROM table_updates
		ORDER BY applied_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []TableUpdate
	for rows.Next() {
		var (
			u         TableUpdate
			source    sql.NullString
			appliedAt string
		)
		if err := rows.Scan(&u.ID, &u.Table, &u.Rows, &source, &appliedAt); err != nil {
			return nil, err
		}
		u.Source = source.String
		if u.AppliedAt, err = time.Parse(time.RFC3339, appliedAt); err != nil {
			return nil, fmt.Errorf("table update %s: bad applied_at %q: %w", u.ID, appliedAt, err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// =============================================================================
// TRANSACTION HELPERS
// =============================================================================

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}

	return sqlTx.Commit()
}

func replaceScheduleTx(ctx context.Context, tx *sql.Tx, c calc.Category, sched calc.Schedule, source string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM rate_entries WHERE category = ?", c.String()); err != nil {
		return fmt.Errorf("failed to clear %s schedule: %w", c, err)
	}

	for i, e := range sched {
		var to *string
		if e.EffectiveTo != nil {
			v := e.EffectiveTo.String()
			to = &v
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rate_entries (category, seq, effective_from, effective_to, rate)
			VALUES (?, ?, ?, ?, ?)
		`, c.String(), i, e.EffectiveFrom.String(), to, e.AnnualRatePercent.String())
		if err != nil {
			return fmt.Errorf("failed to insert %s row %d: %w", c, i, err)
		}
	}

	return recordUpdate(ctx, tx, "schedule:"+c.String(), len(sched), source)
}

func replaceDevaluationTx(ctx context.Context, tx *sql.Tx, t calc.DevaluationTable, source string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO devaluation_meta (id, first_year, reference_year)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_year = excluded.first_year,
			reference_year = excluded.reference_year
	`, t.FirstYear, t.ReferenceYear)
	if err != nil {
		return fmt.Errorf("failed to write devaluation header: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM devaluation_ranges"); err != nil {
		return fmt.Errorf("failed to clear devaluation ranges: %w", err)
	}
	for i, r := range t.Ranges {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO devaluation_ranges (seq, min_year, max_year, coefficient)
			VALUES (?, ?, ?, ?)
		`, i, nullYear(r.MinYear), nullYear(r.MaxYear), r.Coefficient.String())
		if err != nil {
			return fmt.Errorf("failed to insert devaluation row %d: %w", i, err)
		}
	}

	return recordUpdate(ctx, tx, "devaluation", len(t.Ranges), source)
}

func recordUpdate(ctx context.Context, tx *sql.Tx, table string, rows int, source string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO table_updates (id, table_name, row_count, source, applied_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), table, rows, nullString(source), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record table update: %w", err)
	}
	return nil
}

// Helper functions

func scanRateEntry(from string, to sql.NullString, rate string) (calc.RateEntry, error) {
	start, err := calc.ParseDate(from)
	if err != nil {
		return calc.RateEntry{}, err
	}
	pct, err := calc.ParseAmount(rate)
	if err != nil {
		return calc.RateEntry{}, err
	}
	entry := calc.RateEntry{EffectiveFrom: start, AnnualRatePercent: pct}
	if to.Valid {
		end, err := calc.ParseDate(to.String)
		if err != nil {
			return calc.RateEntry{}, err
		}
		entry.EffectiveTo = &end
	}
	return entry, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullYear(y *int) sql.NullInt64 {
	if y == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*y), Valid: true}
}

func yearPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return calc.YearPtr(int(v.Int64))
}

var _ calc.TableWriter = (*Store)(nil)
