package calc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/juros-engine/calc"
)

func TestSchedule_Validate(t *testing.T) {
	valid := calc.Schedule{
		closed("2023-01-01", "2023-06-30", "10.50"),
		closed("2023-07-01", "2023-12-31", "12"),
		open("2024-01-01", "12.50"),
	}
	require.NoError(t, valid.Validate("COMMERCIAL_3"))

	touching := calc.Schedule{
		closed("2024-01-01", "2024-03-01", "4"),
		open("2024-03-01", "5"),
	}
	require.NoError(t, touching.Validate("CIVIL"))

	cases := map[string]struct {
		schedule calc.Schedule
		row      int
	}{
		"overlap": {
			schedule: calc.Schedule{closed("2023-01-01", "2023-06-30", "4"), open("2023-06-01", "5")},
			row:      1,
		},
		"unordered": {
			schedule: calc.Schedule{closed("2023-07-01", "2023-12-31", "4"), closed("2023-01-01", "2023-06-30", "5")},
			row:      1,
		},
		"open middle": {
			schedule: calc.Schedule{open("2023-01-01", "4"), open("2024-01-01", "5")},
			row:      0,
		},
		"inverted entry": {
			schedule: calc.Schedule{closed("2023-06-30", "2023-01-01", "4")},
			row:      0,
		},
		"negative rate": {
			schedule: calc.Schedule{open("2023-01-01", "-1")},
			row:      0,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.schedule.Validate("CIVIL")

			require.ErrorIs(t, err, calc.ErrInvalidSchedule)
			var tableErr *calc.TableError
			require.ErrorAs(t, err, &tableErr)
			assert.Equal(t, "CIVIL", tableErr.Table)
			assert.Equal(t, tc.row, tableErr.Row)
		})
	}
}

func TestSchedule_RateOn(t *testing.T) {
	s := calc.Schedule{
		closed("2023-01-01", "2023-06-30", "10.50"),
		closed("2023-07-01", "2023-12-31", "12"),
	}

	rate, ok := s.RateOn(date("2023-07-01"))
	assert.True(t, ok)
	assertDecimal(t, "12", rate)

	_, ok = s.RateOn(date("2022-12-31"))
	assert.False(t, ok)
	_, ok = s.RateOn(date("2024-01-01"))
	assert.False(t, ok)

	last, ok := s.Last()
	assert.True(t, ok)
	assertDecimal(t, "12", last.AnnualRatePercent)

	_, ok = calc.Schedule{}.Last()
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	cases := map[string]calc.Category{
		"CIVIL":             calc.Civil,
		"civil":             calc.Civil,
		"COMMERCIAL_3":      calc.CommercialRateA,
		"COMMERCIAL_RATE_A": calc.CommercialRateA,
		"commercial_5":      calc.CommercialRateB,
		"COMMERCIAL_RATE_B": calc.CommercialRateB,
		" STATE ":           calc.State,
	}
	for in, want := range cases {
		got, err := calc.ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := calc.ParseCategory("FISCAL")
	assert.ErrorIs(t, err, calc.ErrUnknownCategory)
	assert.True(t, calc.IsClientError(err))
}

func TestCategory_TextRoundTrip(t *testing.T) {
	for _, c := range calc.Categories {
		b, err := c.MarshalText()
		require.NoError(t, err)

		var back calc.Category
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, c, back)
		assert.NotEmpty(t, c.Label())
	}

	_, err := calc.Category(42).MarshalText()
	assert.ErrorIs(t, err, calc.ErrUnknownCategory)
	assert.Equal(t, "Category(42)", calc.Category(42).String())
}
