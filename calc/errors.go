/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  The calculation core itself never fails: every debt, date pair and year maps
  to a defined result. Errors exist only at the boundary, where raw input
  (strings from HTTP, CLI flags, table documents) is turned into core values.

ERROR CATEGORIES:
  1. Input errors - Malformed dates, amounts, categories
  2. Table errors - Rate schedules or coefficient tables that break ordering
                    or coverage rules

USAGE:
  if errors.Is(err, calc.ErrInvalidDate) {
      // reject the request with 400
  }

SEE ALSO:
  - schedule.go: Schedule.Validate returns TableError
  - devaluation.go: DevaluationTable.Validate returns TableError
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package calc

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidAmount is returned when a monetary value is not a finite number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownCategory is returned when an interest category name is not recognised.
	ErrUnknownCategory = errors.New("unknown interest category")

	// ErrInvalidSchedule is returned when a rate schedule breaks its ordering rules.
	ErrInvalidSchedule = errors.New("invalid rate schedule")

	// ErrInvalidCoefficientTable is returned when a devaluation table breaks its
	// ordering or coverage rules.
	ErrInvalidCoefficientTable = errors.New("invalid devaluation table")

	// ErrTableNotFound is returned by stores that have no table for a category.
	ErrTableNotFound = errors.New("table not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TableError names the offending row of a reference table.
type TableError struct {
	Table  string // category id or "devaluation"
	Row    int    // zero-based index, -1 when the problem is table-wide
	Reason string
	kind   error
}

func (e *TableError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.Table, e.Reason)
	}
	return fmt.Sprintf("%s: %s row %d: %s", e.kind, e.Table, e.Row, e.Reason)
}

func (e *TableError) Unwrap() error {
	return e.kind
}

func scheduleError(table string, row int, format string, args ...any) *TableError {
	return &TableError{Table: table, Row: row, Reason: fmt.Sprintf(format, args...), kind: ErrInvalidSchedule}
}

func coefficientError(row int, format string, args ...any) *TableError {
	return &TableError{Table: "devaluation", Row: row, Reason: fmt.Sprintf(format, args...), kind: ErrInvalidCoefficientTable}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrInvalidCoefficientTable)
}

// IsNotFound returns true if the error indicates a missing table.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTableNotFound)
}
