package calc

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE SCHEDULE - Effective-dated annual rates for one category
// =============================================================================

// RateEntry is one row of a category's rate history. A nil EffectiveTo means
// the rate applies indefinitely.
type RateEntry struct {
	EffectiveFrom     Date
	EffectiveTo       *Date
	AnnualRatePercent decimal.Decimal
}

// Interval returns the entry's validity range.
func (e RateEntry) Interval() Interval {
	return Interval{Start: e.EffectiveFrom, End: e.EffectiveTo}
}

// Schedule is a category's rate history, ordered by EffectiveFrom.
// Gaps between entries are allowed.
type Schedule []RateEntry

// Last returns the most recent entry.
func (s Schedule) Last() (RateEntry, bool) {
	if len(s) == 0 {
		return RateEntry{}, false
	}
	return s[len(s)-1], true
}

// Clone returns a deep copy; EffectiveTo pointers are not shared.
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	for i, e := range s {
		if e.EffectiveTo != nil {
			to := *e.EffectiveTo
			e.EffectiveTo = &to
		}
		out[i] = e
	}
	return out
}

// RateOn returns the rate in force on d. Days falling in a gap, before the
// first entry, or after a closed final entry are not covered.
func (s Schedule) RateOn(d Date) (decimal.Decimal, bool) {
	for _, e := range s {
		if e.Interval().Contains(d) {
			return e.AnnualRatePercent, true
		}
	}
	return decimal.Zero, false
}

// Validate checks ordering: ascending, non-overlapping entries, a
// non-negative rate on every row, and only the last row open-ended.
func (s Schedule) Validate(table string) error {
	for i, e := range s {
		if e.AnnualRatePercent.IsNegative() {
			return scheduleError(table, i, "negative rate %s", e.AnnualRatePercent)
		}
		if e.EffectiveTo != nil && e.EffectiveTo.Before(e.EffectiveFrom) {
			return scheduleError(table, i, "effective_to %s before effective_from %s", e.EffectiveTo, e.EffectiveFrom)
		}
		if i == 0 {
			continue
		}
		prev := s[i-1]
		if prev.Interval().IsOpen() {
			return scheduleError(table, i-1, "only the last entry may be open-ended")
		}
		if !e.EffectiveFrom.After(prev.EffectiveFrom) {
			return scheduleError(table, i, "effective_from %s not after previous %s", e.EffectiveFrom, prev.EffectiveFrom)
		}
		if e.EffectiveFrom.Before(*prev.EffectiveTo) {
			return scheduleError(table, i, "overlaps previous entry ending %s", prev.EffectiveTo)
		}
	}
	return nil
}
