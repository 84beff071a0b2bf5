package calc_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/juros-engine/calc"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) calc.Date { return calc.MustParseDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func closed(from, to, rate string) calc.RateEntry {
	end := date(to)
	return calc.RateEntry{EffectiveFrom: date(from), EffectiveTo: &end, AnnualRatePercent: dec(rate)}
}

func open(from, rate string) calc.RateEntry {
	return calc.RateEntry{EffectiveFrom: date(from), AnnualRatePercent: dec(rate)}
}

func debt(principal, due string) calc.Debt {
	return calc.Debt{ID: "d-1", Principal: dec(principal), DueDate: date(due)}
}

func engineWith(s calc.Schedule) *calc.Engine {
	return calc.NewEngine(map[calc.Category]calc.Schedule{calc.Civil: s})
}

// =============================================================================
// SINGLE-RATE ACCRUAL
// =============================================================================

func TestAccrue_FlatRate_SingleSegment(t *testing.T) {
	// GIVEN: 1000 due 2024-01-01 under a flat 4% civil rate
	// WHEN: Accruing until 2024-01-11
	// THEN: One 10-day segment worth 1.10

	engine := engineWith(calc.Schedule{open("2003-05-01", "4")})

	result := engine.Accrue(debt("1000", "2024-01-01"), date("2024-01-11"), calc.Civil)

	require.Len(t, result.Segments, 1)
	seg := result.Segments[0]
	assert.Equal(t, date("2024-01-01"), seg.Start)
	assert.Equal(t, date("2024-01-11"), seg.End)
	assert.Equal(t, 10, seg.Days)
	assert.False(t, seg.Extrapolated)
	assertDecimal(t, "4", seg.RatePercent)
	assertDecimal(t, "1.10", seg.Interest)
	assertDecimal(t, "1.10", result.TotalInterest)
	assertDecimal(t, "1001.10", result.TotalValue)
}

func TestAccrue_EchoesDebtUnchanged(t *testing.T) {
	engine := engineWith(calc.Schedule{open("2003-05-01", "4")})
	d := calc.Debt{ID: "invoice-42", Principal: dec("250.75"), DueDate: date("2024-03-15")}

	result := engine.Accrue(d, date("2024-06-01"), calc.Civil)

	assert.Equal(t, d, result.Debt)
}

func TestAccrue_LeapYearUses365DayYear(t *testing.T) {
	// GIVEN: A full leap year at 10%
	// THEN: 366 days priced at 1/365 each

	engine := engineWith(calc.Schedule{open("2000-01-01", "10")})

	result := engine.Accrue(debt("365", "2024-01-01"), date("2025-01-01"), calc.Civil)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, 366, result.Segments[0].Days)
	assertDecimal(t, "36.60", result.TotalInterest)
}

// =============================================================================
// EMPTY / INVERTED PERIODS
// =============================================================================

func TestAccrue_NoElapsedTime(t *testing.T) {
	engine := engineWith(calc.Schedule{open("2003-05-01", "4")})

	cases := map[string]string{
		"same day": "2024-01-01",
		"inverted": "2023-12-01",
	}
	for name, end := range cases {
		t.Run(name, func(t *testing.T) {
			result := engine.Accrue(debt("1000", "2024-01-01"), date(end), calc.Civil)

			assert.NotNil(t, result.Segments)
			assert.Empty(t, result.Segments)
			assertDecimal(t, "0", result.TotalInterest)
			assertDecimal(t, "1000", result.TotalValue)
		})
	}
}

func TestAccrue_UnknownCategory_AccruesNothing(t *testing.T) {
	engine := engineWith(calc.Schedule{open("2003-05-01", "4")})

	result := engine.Accrue(debt("1000", "2024-01-01"), date("2024-02-01"), calc.State)

	assert.Empty(t, result.Segments)
	assertDecimal(t, "0", result.TotalInterest)
	assertDecimal(t, "1000", result.TotalValue)
}

func TestAccrue_NegativePrincipal(t *testing.T) {
	// Negative principals are priced like any other; rounding is symmetric.
	engine := engineWith(calc.Schedule{open("2003-05-01", "4")})

	result := engine.Accrue(debt("-1000", "2024-01-01"), date("2024-01-11"), calc.Civil)

	require.Len(t, result.Segments, 1)
	assertDecimal(t, "-1.10", result.TotalInterest)
	assertDecimal(t, "-1001.10", result.TotalValue)
}

// =============================================================================
// RATE CHANGES
// =============================================================================

func TestAccrue_RateChangeMidPeriod_TwoSegments(t *testing.T) {
	// GIVEN: 4% until 2024-03-01, 5% from then on (touching boundaries)
	// WHEN: Accruing 2024-02-01 -> 2024-04-01
	// THEN: Two segments whose days add up to the whole period

	engine := engineWith(calc.Schedule{
		closed("2024-01-01", "2024-03-01", "4"),
		open("2024-03-01", "5"),
	})

	result := engine.Accrue(debt("1000", "2024-02-01"), date("2024-04-01"), calc.Civil)

	require.Len(t, result.Segments, 2)
	first, second := result.Segments[0], result.Segments[1]

	assert.Equal(t, 29, first.Days)
	assertDecimal(t, "4", first.RatePercent)
	assertDecimal(t, "3.18", first.Interest)

	assert.Equal(t, 31, second.Days)
	assertDecimal(t, "5", second.RatePercent)
	assertDecimal(t, "4.25", second.Interest)

	assert.Equal(t, calc.DaysBetween(date("2024-02-01"), date("2024-04-01")), result.Days())
	assertDecimal(t, "7.43", result.TotalInterest)
	assertDecimal(t, "1007.43", result.TotalValue)
}

func TestAccrue_GapBetweenEntries_NotCounted(t *testing.T) {
	// GIVEN: Entries ending 06-30 and starting 07-01
	// THEN: The day between them is not priced

	engine := engineWith(calc.Schedule{
		closed("2020-01-01", "2020-06-30", "4"),
		open("2020-07-01", "5"),
	})

	result := engine.Accrue(debt("1000", "2020-06-01"), date("2020-07-31"), calc.Civil)

	require.Len(t, result.Segments, 2)
	assert.Equal(t, 29, result.Segments[0].Days)
	assert.Equal(t, 30, result.Segments[1].Days)
	assert.Equal(t, 59, result.Days())
}

func TestAccrue_DueBeforeFirstEntry_StartsAtFirstEntry(t *testing.T) {
	engine := engineWith(calc.Schedule{open("2013-07-01", "8.50")})

	result := engine.Accrue(debt("1000", "2000-01-01"), date("2013-07-11"), calc.Civil)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, date("2013-07-01"), result.Segments[0].Start)
	assert.Equal(t, 10, result.Segments[0].Days)
	assertDecimal(t, "2.33", result.TotalInterest)
}

func TestAccrue_SegmentsOrderedAndNonOverlapping(t *testing.T) {
	engine := engineWith(calc.Schedule{
		closed("2019-01-01", "2019-06-30", "3"),
		closed("2019-07-01", "2019-12-31", "4"),
		closed("2020-01-01", "2020-06-30", "5"),
		open("2020-07-01", "6"),
	})

	result := engine.Accrue(debt("5000", "2019-03-10"), date("2021-02-01"), calc.Civil)

	require.Len(t, result.Segments, 4)
	for i, s := range result.Segments {
		assert.GreaterOrEqual(t, s.Days, 1)
		assert.True(t, s.Start.Before(s.End))
		if i > 0 {
			assert.True(t, result.Segments[i-1].End.BeforeOrEqual(s.Start), "segment %d overlaps previous", i)
		}
	}
}

// =============================================================================
// EXTRAPOLATION
// =============================================================================

func TestAccrue_PastLastEntry_Extrapolates(t *testing.T) {
	// GIVEN: The final entry ends 2020-12-31
	// WHEN: Accruing into 2021
	// THEN: An extra segment from 2021-01-01 at the last known rate

	engine := engineWith(calc.Schedule{closed("2020-01-01", "2020-12-31", "10")})

	result := engine.Accrue(debt("1000", "2020-12-01"), date("2021-01-31"), calc.Civil)

	require.Len(t, result.Segments, 2)
	assert.Equal(t, 30, result.Segments[0].Days)
	assertDecimal(t, "8.22", result.Segments[0].Interest)

	ext := result.Segments[1]
	assert.True(t, ext.Extrapolated)
	assert.Equal(t, date("2021-01-01"), ext.Start)
	assert.Equal(t, date("2021-01-31"), ext.End)
	assert.Equal(t, 30, ext.Days)
	assertDecimal(t, "10", ext.RatePercent)
	assertDecimal(t, "8.22", ext.Interest)

	assertDecimal(t, "16.44", result.TotalInterest)
}

func TestAccrue_DueAfterLastEntry_OnlyExtrapolatedSegment(t *testing.T) {
	engine := engineWith(calc.Schedule{closed("2020-01-01", "2020-12-31", "10")})

	result := engine.Accrue(debt("1000", "2021-06-01"), date("2021-06-11"), calc.Civil)

	require.Len(t, result.Segments, 1)
	assert.True(t, result.Segments[0].Extrapolated)
	assert.Equal(t, date("2021-06-01"), result.Segments[0].Start)
	assert.Equal(t, 10, result.Segments[0].Days)
	assertDecimal(t, "2.74", result.TotalInterest)
}

func TestAccrue_EndDayAfterLastEntry_NoExtrapolatedSegment(t *testing.T) {
	// The extrapolated segment would start on the end date itself.
	engine := engineWith(calc.Schedule{closed("2020-01-01", "2020-12-31", "10")})

	result := engine.Accrue(debt("1000", "2020-12-01"), date("2021-01-01"), calc.Civil)

	require.Len(t, result.Segments, 1)
	assert.False(t, result.Segments[0].Extrapolated)
}

func TestAccrue_OpenLastEntry_NeverExtrapolates(t *testing.T) {
	engine := engineWith(calc.Schedule{open("2020-01-01", "10")})

	result := engine.Accrue(debt("1000", "2020-12-01"), date("2030-01-01"), calc.Civil)

	require.Len(t, result.Segments, 1)
	assert.False(t, result.Segments[0].Extrapolated)
}

// =============================================================================
// ROUNDING
// =============================================================================

func TestAccrue_TotalSumsRoundedSegments(t *testing.T) {
	// GIVEN: Two one-day segments worth 0.0049 each
	// THEN: Each rounds to 0.00 and so does the total, although the
	//       unrounded two-day amount would round to 0.01

	engine := engineWith(calc.Schedule{
		closed("2024-01-01", "2024-01-02", "1.8"),
		open("2024-01-02", "1.8"),
	})

	result := engine.Accrue(debt("100", "2024-01-01"), date("2024-01-03"), calc.Civil)

	require.Len(t, result.Segments, 2)
	assertDecimal(t, "0", result.Segments[0].Interest)
	assertDecimal(t, "0", result.Segments[1].Interest)
	assertDecimal(t, "0", result.TotalInterest)
	assertDecimal(t, "0.01", calc.SimpleInterest(dec("100"), dec("1.8"), 2))
}

func TestSimpleInterest_RoundsHalfAwayFromZero(t *testing.T) {
	// 730 * 1% / 365 * 1 = 0.02 exactly; 365 * 0.5% / 365 * 1 = 0.005
	assertDecimal(t, "0.02", calc.SimpleInterest(dec("730"), dec("1"), 1))
	assertDecimal(t, "0.01", calc.SimpleInterest(dec("365"), dec("0.5"), 1))
	assertDecimal(t, "-0.01", calc.SimpleInterest(dec("-365"), dec("0.5"), 1))
}

// =============================================================================
// PURITY
// =============================================================================

func TestAccrue_Idempotent(t *testing.T) {
	engine := engineWith(calc.Schedule{
		closed("2019-01-01", "2019-12-31", "3"),
		closed("2020-01-01", "2020-12-31", "4"),
	})
	d := debt("1234.56", "2019-05-17")
	end := calc.NewDate(2022, time.March, 3)

	first := engine.Accrue(d, end, calc.Civil)
	second := engine.Accrue(d, end, calc.Civil)

	assert.Equal(t, first, second)
}

func TestAccrue_ConcurrentCallsAgree(t *testing.T) {
	engine := engineWith(calc.Schedule{
		closed("2019-01-01", "2019-12-31", "3"),
		closed("2020-01-01", "2020-12-31", "4"),
	})
	d := debt("1000", "2019-02-01")
	end := date("2021-06-30")
	want := engine.Accrue(d, end, calc.Civil)

	var wg sync.WaitGroup
	results := make([]calc.CalculationResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Accrue(d, end, calc.Civil)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestNewEngine_CopiesSchedules(t *testing.T) {
	s := calc.Schedule{open("2003-05-01", "4")}
	engine := engineWith(s)

	s[0].AnnualRatePercent = dec("99")

	got, ok := engine.Schedule(calc.Civil)
	require.True(t, ok)
	assertDecimal(t, "4", got[0].AnnualRatePercent)
}

func TestNewEngine_CopiesEntryDates(t *testing.T) {
	// GIVEN: An engine built from a closed schedule
	// WHEN: The caller moves the entry's end date through the shared pointer
	// THEN: Accrual still extrapolates from the original end date

	s := calc.Schedule{closed("2024-01-01", "2024-06-30", "4")}
	engine := engineWith(s)

	*s[0].EffectiveTo = date("2030-12-31")

	result := engine.Accrue(debt("1000", "2024-06-01"), date("2024-07-11"), calc.Civil)
	require.Len(t, result.Segments, 2)
	assert.True(t, result.Segments[1].Extrapolated)
	assert.Equal(t, date("2024-07-01"), result.Segments[1].Start)

	got, _ := engine.Schedule(calc.Civil)
	*got[0].EffectiveTo = date("2099-01-01")
	again, _ := engine.Schedule(calc.Civil)
	assert.Equal(t, date("2024-06-30"), *again[0].EffectiveTo)
}

func TestAccrue_SpanLongerThanDurationRange(t *testing.T) {
	// GIVEN: A 4% open-ended schedule
	// WHEN: A debt accrues for close to four centuries
	// THEN: Every day is counted and priced

	engine := engineWith(calc.Schedule{open("2003-05-01", "4")})

	result := engine.Accrue(debt("1000", "2003-05-01"), date("2400-05-01"), calc.Civil)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, 145002, result.Segments[0].Days)
	// 1000 * 0.04 / 365 * 145002 = 15890.630...
	assertDecimal(t, "15890.63", result.TotalInterest)
}
