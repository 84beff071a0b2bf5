/*
Package calc provides the late-payment interest and devaluation engine.

PURPOSE:
  This package computes Portuguese statutory late-payment interest ("juros de
  mora") over effective-dated rate schedules, and looks up historical currency
  devaluation coefficients. Both are pure functions over reference tables that
  are supplied once, at construction time.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal amounts rounded to cents
  - Debt: caller-owned principal + due date
  - AccrualSegment: one sub-interval of the debt's period at a single rate
  - CalculationResult: segments plus rounded totals

DESIGN PRINCIPLES:
  1. Totality: no input in the domain produces an error
  2. Precision: uses decimal.Decimal to avoid floating-point drift
  3. Immutability: results are built once and never modified
  4. Segment-local rounding: each segment rounds its own interest, totals sum
     the rounded values

USAGE:
  engine := calc.NewEngine(rates.Schedules())
  result := engine.Accrue(calc.Debt{
      ID:        "1",
      Principal: decimal.NewFromInt(1000),
      DueDate:   calc.NewDate(2024, time.January, 1),
  }, calc.NewDate(2024, time.January, 11), calc.Civil)

SEE ALSO:
  - accrual.go: Interest accrual algorithm
  - devaluation.go: Coefficient lookup
  - schedule.go: Rate tables and their validation
*/
package calc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal amounts, always rounded to cents on output
// =============================================================================

// CentPlaces is the number of decimal places kept on currency amounts.
const CentPlaces = 2

var (
	hundred    = decimal.NewFromInt(100)
	daysInYear = decimal.NewFromInt(365)
	one        = decimal.NewFromInt(1)
)

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// Amounts accepted at the boundary: at most MaxIntegerDigits digits before
// the point and MaxFractionDigits after it.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 20
)

// ParseAmount parses a decimal string such as "1000.50". Values outside the
// accepted magnitude or precision are rejected before any arithmetic runs.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	exp := int(d.Exponent())
	if exp < -MaxFractionDigits {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, MaxFractionDigits)
	}
	if exp > MaxIntegerDigits || d.NumDigits()+exp > MaxIntegerDigits {
		return decimal.Zero, fmt.Errorf("%w: %q exceeds %d integer digits", ErrInvalidAmount, s, MaxIntegerDigits)
	}
	return d, nil
}

// MustParseDecimal is for static tables; malformed input panics.
func MustParseDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// DEBT - Caller-supplied input, echoed back unchanged
// =============================================================================

type Debt struct {
	ID        string
	Principal decimal.Decimal
	DueDate   Date
}

// =============================================================================
// ACCRUAL SEGMENT - One rate applied over one sub-interval
// =============================================================================

type AccrualSegment struct {
	Start       Date
	End         Date
	RatePercent decimal.Decimal
	Days        int
	Interest    decimal.Decimal // rounded to cents

	// Extrapolated marks the trailing segment priced at the last known rate
	// after the schedule's final entry has ended.
	Extrapolated bool
}

// =============================================================================
// CALCULATION RESULT
// =============================================================================

type CalculationResult struct {
	Debt          Debt
	Segments      []AccrualSegment
	TotalInterest decimal.Decimal
	TotalValue    decimal.Decimal
}

// Days returns the sum of segment day counts.
func (r CalculationResult) Days() int {
	total := 0
	for _, s := range r.Segments {
		total += s.Days
	}
	return total
}
