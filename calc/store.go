/*
store.go - Source interface for reference tables

PURPOSE:
  Rate schedules and the devaluation table are static for the lifetime of a
  process, but where they come from is a deployment choice: the built-in
  tables compiled into the binary, or an operator-maintained SQLite file that
  can take a newly published semester rate without a rebuild.

READ-ONCE CONTRACT:
  Callers load tables once at startup (LoadEngine) and hand the resulting
  Engine / DevaluationTable to request handlers. Nothing re-reads a store
  while calculations run, so a calculation never sees a half-written table.

IMPLEMENTATIONS:
  - calc/store/memory.go: In-memory tables (built-ins, tests)
  - store/sqlite/sqlite.go: SQLite-backed tables

SEE ALSO:
  - factory/tables.go: Builds tables from JSON/YAML documents
  - cmd/juros/tables.go: Seeds and imports SQLite tables
*/
package calc

import "context"

// =============================================================================
// TABLE STORE
// =============================================================================

// TableStore provides the reference tables.
type TableStore interface {
	// Schedules returns every category's rate schedule.
	Schedules(ctx context.Context) (map[Category]Schedule, error)

	// Devaluation returns the coefficient table.
	Devaluation(ctx context.Context) (DevaluationTable, error)
}

// TableWriter replaces reference tables. Writes are validated first; an
// invalid table leaves the store unchanged.
type TableWriter interface {
	TableStore

	// ReplaceSchedule swaps a category's whole schedule.
	ReplaceSchedule(ctx context.Context, c Category, s Schedule) error

	// ReplaceDevaluation swaps the coefficient table.
	ReplaceDevaluation(ctx context.Context, t DevaluationTable) error
}

// LoadEngine reads and validates every table from the store.
func LoadEngine(ctx context.Context, store TableStore) (*Engine, DevaluationTable, error) {
	schedules, err := store.Schedules(ctx)
	if err != nil {
		return nil, DevaluationTable{}, err
	}
	for c, s := range schedules {
		if err := s.Validate(c.String()); err != nil {
			return nil, DevaluationTable{}, err
		}
	}
	table, err := store.Devaluation(ctx)
	if err != nil {
		return nil, DevaluationTable{}, err
	}
	if err := table.Validate(); err != nil {
		return nil, DevaluationTable{}, err
	}
	return NewEngine(schedules), table, nil
}
