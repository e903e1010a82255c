package period

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxweekday/market"
)

func bar(y int, m time.Month, day int) market.Bar {
	return market.NewBar(time.Date(y, m, day, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(1), decimal.NewFromInt(1))
}

func TestWeekOfYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date time.Time
		want int
	}{
		// 2023-01-01 is a Sunday: before the first Monday
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2023, 9, 5, 0, 0, 0, 0, time.UTC), 36},
		{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), 52},
		// 2018-01-01 is a Monday
		{time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		// 2020-12-31 is a Thursday in a leap year
		{time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), 52},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekOfYear(tt.date), tt.date.Format("2006-01-02"))
	}
}

func TestCalendarWeekSplitsNewYear(t *testing.T) {
	t.Parallel()

	// Thu 2020-12-31 and Fri 2021-01-01 share ISO week 2020-W53.
	dec := CalendarWeek(bar(2020, 12, 31))
	jan := CalendarWeek(bar(2021, 1, 1))
	assert.Equal(t, Key{Kind: Week, Year: 2020, Num: 52}, dec)
	assert.Equal(t, Key{Kind: Week, Year: 2021, Num: 0}, jan)
	assert.NotEqual(t, dec, jan)

	isoDec := ISOWeekKey(bar(2020, 12, 31))
	isoJan := ISOWeekKey(bar(2021, 1, 1))
	assert.Equal(t, isoDec, isoJan)
	assert.Equal(t, Key{Kind: ISOWeek, Year: 2020, Num: 53}, isoJan)
}

func TestMonthAndQuarter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Key{Kind: Quarter, Year: 2023, Num: 1}, QuarterKey(bar(2023, 3, 31)))
	assert.Equal(t, Key{Kind: Quarter, Year: 2023, Num: 2}, QuarterKey(bar(2023, 4, 1)))
	assert.Equal(t, Key{Kind: Quarter, Year: 2023, Num: 4}, QuarterKey(bar(2023, 12, 31)))
	assert.Equal(t, Key{Kind: Month, Year: 2023, Num: 9}, MonthKey(bar(2023, 9, 5)))
}

func TestKeyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2023-05", Key{Kind: Week, Year: 2023, Num: 5}.String())
	assert.Equal(t, "2023-W05", Key{Kind: ISOWeek, Year: 2023, Num: 5}.String())
	assert.Equal(t, "2023-09", Key{Kind: Month, Year: 2023, Num: 9}.String())
	assert.Equal(t, "2023-Q3", Key{Kind: Quarter, Year: 2023, Num: 3}.String())
}

func TestKeyLess(t *testing.T) {
	t.Parallel()

	a := Key{Kind: Week, Year: 2022, Num: 52}
	b := Key{Kind: Week, Year: 2023, Num: 0}
	c := Key{Kind: Week, Year: 2023, Num: 1}
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.False(t, c.Less(c))
}

func TestParse(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Kind{
		"week": Week, "": Week, "WEEK": Week,
		"isoweek": ISOWeek, "iso": ISOWeek,
		"month": Month, "quarter": Quarter,
	} {
		fn, kind, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, kind, name)
		assert.Equal(t, want, fn(bar(2023, 5, 5)).Kind, name)
	}

	_, _, err := Parse("fortnight")
	assert.Error(t, err)

	assert.Equal(t, "Week", ISOWeek.Title())
	assert.Equal(t, "Quarter", Quarter.Title())
}
