package calc_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/juros-engine/calc"
)

func TestParseDate(t *testing.T) {
	d, err := calc.ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, calc.NewDate(2024, time.February, 29), d)

	for _, bad := range []string{"", "2024-13-01", "29/02/2024", "2023-02-29"} {
		_, err := calc.ParseDate(bad)
		assert.ErrorIs(t, err, calc.ErrInvalidDate, bad)
	}
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	lisbon := time.FixedZone("WEST", 3600)
	d := calc.DateOf(time.Date(2024, time.July, 1, 23, 30, 0, 0, lisbon))

	assert.Equal(t, "2024-07-01", d.String())
	assert.Equal(t, calc.NewDate(2024, time.July, 1), d)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 10, calc.DaysBetween(date("2024-01-01"), date("2024-01-11")))
	assert.Equal(t, 29, calc.DaysBetween(date("2024-02-01"), date("2024-03-01")))
	assert.Equal(t, 0, calc.DaysBetween(date("2024-01-01"), date("2024-01-01")))
	assert.Equal(t, -31, calc.DaysBetween(date("2024-02-01"), date("2024-01-01")))

	// Beyond the ~292 years a time.Duration can hold.
	assert.Equal(t, 145002, calc.DaysBetween(date("2003-05-01"), date("2400-05-01")))
	assert.Equal(t, -145002, calc.DaysBetween(date("2400-05-01"), date("2003-05-01")))
	assert.Equal(t, 3652058, calc.DaysBetween(date("0001-01-01"), date("9999-12-31")))

	// Partial days round up.
	from := calc.Date{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	to := calc.Date{Time: time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)}
	assert.Equal(t, 2, calc.DaysBetween(from, to))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Due calc.Date `json:"due"`
	}

	b, err := json.Marshal(payload{Due: date("2024-01-31")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-01-31"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-06-30"}`), &p))
	assert.Equal(t, date("2025-06-30"), p.Due)

	err = json.Unmarshal([]byte(`{"due":"30-06-2025"}`), &p)
	assert.ErrorIs(t, err, calc.ErrInvalidDate)
}

func TestInterval_Overlap(t *testing.T) {
	i := calc.Closed(date("2024-01-01"), date("2024-06-30"))

	start, end, ok := i.Overlap(date("2023-12-01"), date("2024-02-01"))
	assert.True(t, ok)
	assert.Equal(t, date("2024-01-01"), start)
	assert.Equal(t, date("2024-02-01"), end)

	start, end, ok = i.Overlap(date("2024-06-01"), date("2024-12-01"))
	assert.True(t, ok)
	assert.Equal(t, date("2024-06-01"), start)
	assert.Equal(t, date("2024-06-30"), end)

	_, _, ok = i.Overlap(date("2024-06-30"), date("2024-12-01"))
	assert.False(t, ok, "single instant is not a segment")

	_, end, ok = calc.OpenEnded(date("2024-01-01")).Overlap(date("2024-03-01"), date("2099-01-01"))
	assert.True(t, ok)
	assert.Equal(t, date("2099-01-01"), end)
}

func TestInterval_Contains(t *testing.T) {
	i := calc.Closed(date("2024-01-01"), date("2024-06-30"))

	assert.True(t, i.Contains(date("2024-01-01")))
	assert.True(t, i.Contains(date("2024-06-30")))
	assert.False(t, i.Contains(date("2024-07-01")))
	assert.True(t, calc.OpenEnded(date("2024-01-01")).Contains(date("2090-01-01")))
	assert.Equal(t, "[2024-01-01, 2024-06-30]", i.String())
	assert.False(t, i.IsOpen())
	assert.True(t, calc.OpenEnded(date("2024-01-01")).IsOpen())
}
