package calc

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DEVALUATION - Year-indexed currency update coefficients
// =============================================================================

// DevaluationRange is one row of the coefficient table. Nil bounds are
// unbounded.
type DevaluationRange struct {
	MinYear     *int
	MaxYear     *int
	Coefficient decimal.Decimal
}

// Matches reports whether year falls within [MinYear, MaxYear].
func (r DevaluationRange) Matches(year int) bool {
	if r.MinYear != nil && year < *r.MinYear {
		return false
	}
	if r.MaxYear != nil && year > *r.MaxYear {
		return false
	}
	return true
}

// DevaluationTable maps years to coefficients that convert a historical
// amount into its ReferenceYear equivalent.
type DevaluationTable struct {
	Ranges []DevaluationRange

	// FirstYear is the oldest codified year. Earlier years use the first
	// range's coefficient.
	FirstYear int

	// ReferenceYear is the last codified year. Later years use 1.00.
	ReferenceYear int
}

// CoefficientFor returns the coefficient for year. It never fails: years
// outside [FirstYear, ReferenceYear] take the boundary values and an
// uncovered year falls back to 1.00.
func (t DevaluationTable) CoefficientFor(year int) decimal.Decimal {
	if year < t.FirstYear {
		if len(t.Ranges) == 0 {
			return one
		}
		return t.Ranges[0].Coefficient
	}
	if year > t.ReferenceYear {
		return one
	}
	for _, r := range t.Ranges {
		if r.Matches(year) {
			return r.Coefficient
		}
	}
	return one
}

// UpdatedValue converts a historical amount from year into ReferenceYear
// money, rounded to cents.
func (t DevaluationTable) UpdatedValue(historical decimal.Decimal, year int) decimal.Decimal {
	return Round2(historical.Mul(t.CoefficientFor(year)))
}

// Validate checks that ranges are ordered and non-overlapping, coefficients
// are positive, and each year of [FirstYear, ReferenceYear] is matched by
// exactly one range.
func (t DevaluationTable) Validate() error {
	if t.FirstYear > t.ReferenceYear {
		return coefficientError(-1, "first year %d after reference year %d", t.FirstYear, t.ReferenceYear)
	}
	if len(t.Ranges) == 0 {
		return coefficientError(-1, "no ranges")
	}
	for i, r := range t.Ranges {
		if !r.Coefficient.IsPositive() {
			return coefficientError(i, "coefficient %s must be positive", r.Coefficient)
		}
		if r.MinYear != nil && r.MaxYear != nil && *r.MaxYear < *r.MinYear {
			return coefficientError(i, "max year %d before min year %d", *r.MaxYear, *r.MinYear)
		}
		if i == 0 {
			continue
		}
		prev := t.Ranges[i-1]
		if prev.MaxYear == nil || r.MinYear == nil {
			return coefficientError(i, "only the first range may lack a min year and only the last a max year")
		}
		if *r.MinYear <= *prev.MaxYear {
			return coefficientError(i, "min year %d overlaps previous range ending %d", *r.MinYear, *prev.MaxYear)
		}
	}
	for year := t.FirstYear; year <= t.ReferenceYear; year++ {
		matches := 0
		for _, r := range t.Ranges {
			if r.Matches(year) {
				matches++
			}
		}
		if matches != 1 {
			return coefficientError(-1, "year %d matched by %d ranges", year, matches)
		}
	}
	return nil
}

// YearPtr is a convenience for building range bounds.
func YearPtr(y int) *int { return &y }
