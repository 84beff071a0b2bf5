/*
accrual.go - Late-payment interest accrual over an effective-dated schedule

PURPOSE:
  Splits a debt's accrual period [due date, end date] across the category's
  rate history and prices each piece with simple daily interest.

ALGORITHM:
  1. due >= end: nothing elapsed, result carries the principal only
  2. For every schedule entry, intersect [due, end] with the entry's range.
     A non-empty intersection becomes a segment:
       days     = ceil(elapsed days)
       interest = round2(principal * rate/100 / 365 * days)
  3. Extrapolation: if the final entry is closed and end lies past it, one
     more segment runs from the day after that entry's end to the end date at
     the final entry's rate
  4. totalInterest = round2(sum of rounded segment interest)
     totalValue    = round2(principal + totalInterest)

DAY COUNT:
  Every segment uses a 365-day year, leap years included. Segment bounds are
  inclusive on both sides, so a schedule whose entries touch (entry A ends on
  the day entry B starts) yields segments whose days add up to the whole
  period; a schedule with one-day gaps between entries does not count the
  gap days.

CONCURRENCY:
  Engine is immutable after NewEngine. Accrue only reads its schedules and
  allocates a fresh result, so one Engine can serve any number of goroutines.

SEE ALSO:
  - schedule.go: RateEntry and Schedule
  - batch.go: Multi-debt aggregation
  - rates/: Built-in Portuguese schedules
*/
package calc

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine accrues interest against a fixed set of schedules.
type Engine struct {
	schedules map[Category]Schedule
}

// NewEngine deep-copies the given schedules; later changes to the caller's
// map, slices or entry dates do not affect the engine.
func NewEngine(schedules map[Category]Schedule) *Engine {
	owned := make(map[Category]Schedule, len(schedules))
	for c, s := range schedules {
		owned[c] = s.Clone()
	}
	return &Engine{schedules: owned}
}

// Schedule returns a copy of the category's schedule.
func (e *Engine) Schedule(c Category) (Schedule, bool) {
	s, ok := e.schedules[c]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Accrue computes the interest owed on debt from its due date until end.
// A category without a schedule accrues nothing.
func (e *Engine) Accrue(debt Debt, end Date, category Category) CalculationResult {
	if debt.DueDate.AfterOrEqual(end) {
		return CalculationResult{
			Debt:          debt,
			Segments:      []AccrualSegment{},
			TotalInterest: decimal.Zero,
			TotalValue:    debt.Principal,
		}
	}

	schedule := e.schedules[category]
	segments := make([]AccrualSegment, 0, len(schedule)+1)

	for _, entry := range schedule {
		start, stop, ok := entry.Interval().Overlap(debt.DueDate, end)
		if !ok {
			continue
		}
		segments = append(segments, newSegment(debt.Principal, entry.AnnualRatePercent, start, stop))
	}

	if seg, ok := extrapolate(debt, end, schedule); ok {
		segments = append(segments, seg)
	}

	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.Interest)
	}
	total = Round2(total)

	return CalculationResult{
		Debt:          debt,
		Segments:      segments,
		TotalInterest: total,
		TotalValue:    Round2(debt.Principal.Add(total)),
	}
}

// extrapolate prices the time past a closed final entry at that entry's rate.
func extrapolate(debt Debt, end Date, schedule Schedule) (AccrualSegment, bool) {
	last, ok := schedule.Last()
	if !ok || last.Interval().IsOpen() || !end.After(*last.EffectiveTo) {
		return AccrualSegment{}, false
	}
	start := MaxDate(debt.DueDate, last.EffectiveTo.AddDays(1))
	if !start.Before(end) {
		return AccrualSegment{}, false
	}
	seg := newSegment(debt.Principal, last.AnnualRatePercent, start, end)
	seg.Extrapolated = true
	return seg, true
}

func newSegment(principal, ratePercent decimal.Decimal, start, end Date) AccrualSegment {
	days := DaysBetween(start, end)
	return AccrualSegment{
		Start:       start,
		End:         end,
		RatePercent: ratePercent,
		Days:        days,
		Interest:    SimpleInterest(principal, ratePercent, days),
	}
}

// SimpleInterest returns round2(principal * rate/100 / 365 * days).
func SimpleInterest(principal, ratePercent decimal.Decimal, days int) decimal.Decimal {
	return Round2(principal.
		Mul(ratePercent.Div(hundred)).
		Div(daysInYear).
		Mul(decimal.NewFromInt(int64(days))))
}
