package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*60*60)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-03-15", brt)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 15}, d)

	for _, bad := range []string{"2024-02-30", "2024-3-15", "15/03/2024", "", "2024-03-15T00:00:00"} {
		_, err := ParseDay(bad, brt)
		assert.ErrorIs(t, err, ErrInvalidPeriod, bad)
	}
}

func TestDayRangeDependsOnZone(t *testing.T) {
	r := DayRange(2024, time.March, 15, brt)
	assert.Equal(t, time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC), r.Start.UTC())
	assert.Equal(t, time.Date(2024, 3, 16, 2, 59, 59, 0, time.UTC), r.End.UTC())

	lateUTC := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	assert.True(t, r.Contains(lateUTC))
	assert.False(t, DayRange(2024, time.March, 15, time.UTC).Contains(time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC)))
	assert.True(t, DayRange(2024, time.March, 14, time.UTC).Contains(time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC)))
}

func TestParseWeek(t *testing.T) {
	r, err := ParseWeek("2024-W11", brt)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, brt), r.Start)
	assert.Equal(t, time.Date(2024, 3, 17, 23, 59, 59, 0, brt), r.End)
	assert.Equal(t, time.Monday, r.Start.Weekday())
	assert.Equal(t, time.Sunday, r.End.Weekday())

	assert.True(t, r.Contains(time.Date(2024, 3, 11, 0, 0, 0, 0, brt)))
	assert.True(t, r.Contains(time.Date(2024, 3, 17, 23, 59, 59, 0, brt)))
	assert.False(t, r.Contains(time.Date(2024, 3, 10, 23, 59, 59, 0, brt)))
	assert.False(t, r.Contains(time.Date(2024, 3, 18, 0, 0, 0, 0, brt)))
}

func TestWeekRangeYearBoundaries(t *testing.T) {
	tests := []struct {
		year, week int
		monday     time.Time
	}{
		{2020, 1, time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC)},
		{2020, 53, time.Date(2020, 12, 28, 0, 0, 0, 0, time.UTC)},
		{2021, 1, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)},
		{2026, 1, time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		r, err := WeekRange(tt.year, tt.week, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, tt.monday, r.Start)
		y, w := r.Start.ISOWeek()
		assert.Equal(t, tt.year, y)
		assert.Equal(t, tt.week, w)
	}
}

func TestParseWeekRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"2024-13", "2024-W00", "2024-W54", "2024-W53", "2024W11", "2024-w11", "24-W11"} {
		_, err := ParseWeek(bad, brt)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, ErrInvalidPeriod, bad)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, KindWeek, parseErr.Kind)
	}

	_, err := ParseWeek("2020-W53", brt)
	assert.NoError(t, err)
}

func TestWeeksInYear(t *testing.T) {
	assert.Equal(t, 52, WeeksInYear(2024))
	assert.Equal(t, 53, WeeksInYear(2020))
	assert.Equal(t, 53, WeeksInYear(2026))
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.February, m)

	for _, bad := range []string{"2024-13", "2024-00", "2024-2", "2024/02", ""} {
		_, _, err := ParseMonth(bad)
		assert.ErrorIs(t, err, ErrInvalidPeriod, bad)
	}
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(2024, time.February, brt)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, brt), r.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, brt), r.End)

	r = MonthRange(2023, time.December, time.UTC)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), r.End)
}
