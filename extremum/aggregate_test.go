package extremum

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxweekday/market"
	"github.com/rustyeddy/fxweekday/period"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func bar(t time.Time, high, low string) market.Bar {
	return market.NewBar(t, d(high), d(low))
}

func TestAggregateOneWeek(t *testing.T) {
	t.Parallel()

	// Mon 2023-09-04 .. Fri 2023-09-08
	bars := []market.Bar{
		bar(day(2023, 9, 4), "1.10", "1.05"),
		bar(day(2023, 9, 6), "1.12", "1.07"),
		bar(day(2023, 9, 8), "1.08", "1.03"),
	}

	res := Aggregate(bars, period.CalendarWeek)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Periods())

	hi := res.Highs()[0]
	assert.Equal(t, time.Wednesday, hi.Weekday)
	assert.True(t, d("1.12").Equal(hi.Value))
	assert.Equal(t, 1, hi.Index)
	assert.Equal(t, "2023-36", hi.Period.String())

	lo := res.Lows()[0]
	assert.Equal(t, time.Friday, lo.Weekday)
	assert.True(t, d("1.03").Equal(lo.Value))

	assert.Equal(t, Frequency{time.Wednesday: 1}, res.High)
	assert.Equal(t, Frequency{time.Friday: 1}, res.Low)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	res := Aggregate(nil, period.CalendarWeek)
	assert.NotNil(t, res.High)
	assert.NotNil(t, res.Low)
	assert.Empty(t, res.High)
	assert.Empty(t, res.Low)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Periods())
}

func TestAggregateSingleBarPeriod(t *testing.T) {
	t.Parallel()

	res := Aggregate([]market.Bar{bar(day(2023, 9, 5), "1.10", "1.00")}, period.QuarterKey)
	require.Len(t, res.Records, 2)
	assert.Equal(t, res.Records[0].Index, res.Records[1].Index)
	assert.Equal(t, Frequency{time.Tuesday: 1}, res.High)
	assert.Equal(t, Frequency{time.Tuesday: 1}, res.Low)
}

func TestAggregateTieBreakEarliest(t *testing.T) {
	t.Parallel()

	// Tue and Fri of the same week share the high, Mon and Thu the low
	bars := []market.Bar{
		bar(day(2023, 9, 5), "1.15", "1.05"), // Tue, position 0
		bar(day(2023, 9, 4), "1.10", "1.01"), // Mon
		bar(day(2023, 9, 7), "1.11", "1.01"), // Thu
		bar(day(2023, 9, 8), "1.15", "1.02"), // Fri, position 3
	}

	for i := 0; i < 10; i++ {
		res := Aggregate(bars, period.CalendarWeek)
		assert.Equal(t, time.Tuesday, res.Highs()[0].Weekday)
		assert.Equal(t, 0, res.Highs()[0].Index)
		assert.Equal(t, time.Monday, res.Lows()[0].Weekday)
		assert.Equal(t, 1, res.Lows()[0].Index)
	}
}

func TestAggregateMalformedBarNotValidated(t *testing.T) {
	t.Parallel()

	// high below low: both selections still use their own field
	bars := []market.Bar{
		bar(day(2023, 9, 4), "1.00", "1.20"),
		bar(day(2023, 9, 5), "1.05", "1.10"),
	}
	res := Aggregate(bars, period.CalendarWeek)
	assert.Equal(t, time.Tuesday, res.Highs()[0].Weekday)
	assert.Equal(t, time.Tuesday, res.Lows()[0].Weekday)
}

func TestAggregateOrderIndependentGrouping(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		bar(day(2023, 1, 10), "1.3", "1.0"),
		bar(day(2023, 4, 3), "1.2", "0.9"),
		bar(day(2023, 1, 3), "1.1", "0.8"),
		bar(day(2023, 4, 5), "1.4", "1.1"),
	}
	res := Aggregate(bars, period.QuarterKey)
	require.Equal(t, 2, res.Periods())

	highs := res.Highs()
	assert.Equal(t, "2023-Q1", highs[0].Period.String())
	assert.Equal(t, day(2023, 1, 10), highs[0].Time)
	assert.Equal(t, "2023-Q2", highs[1].Period.String())
	assert.Equal(t, day(2023, 4, 5), highs[1].Time)

	lows := res.Lows()
	assert.Equal(t, day(2023, 1, 3), lows[0].Time)
	assert.Equal(t, day(2023, 4, 3), lows[1].Time)
}

func TestAggregateRecordsSorted(t *testing.T) {
	t.Parallel()

	bars := randomBars(rand.New(rand.NewSource(7)), day(2019, 12, 20), 60)
	res := Aggregate(bars, period.CalendarWeek)

	for i := 0; i < len(res.Records); i += 2 {
		assert.Equal(t, High, res.Records[i].Kind)
		assert.Equal(t, Low, res.Records[i+1].Kind)
		assert.Equal(t, res.Records[i].Period, res.Records[i+1].Period)
		if i >= 2 {
			assert.True(t, res.Records[i-2].Period.Less(res.Records[i].Period))
		}
	}
}

// randomBars returns n weekday bars starting at start, shuffled.
func randomBars(r *rand.Rand, start time.Time, n int) []market.Bar {
	bars := make([]market.Bar, 0, n)
	for t := start; len(bars) < n; t = t.AddDate(0, 0, 1) {
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			continue
		}
		// coarse prices so ties happen
		lo := decimal.New(int64(100+r.Intn(10)), -2)
		hi := lo.Add(decimal.New(int64(r.Intn(5)), -2))
		bars = append(bars, market.NewBar(t, hi, lo))
	}
	r.Shuffle(len(bars), func(i, j int) { bars[i], bars[j] = bars[j], bars[i] })
	return bars
}

func TestAggregateProperties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	keys := map[string]period.KeyFunc{
		"week":    period.CalendarWeek,
		"isoweek": period.ISOWeekKey,
		"month":   period.MonthKey,
		"quarter": period.QuarterKey,
	}

	for iter := 0; iter < 20; iter++ {
		bars := randomBars(r, day(2015+r.Intn(8), time.Month(1+r.Intn(12)), 1+r.Intn(28)), 1+r.Intn(400))

		for name, key := range keys {
			res := Aggregate(bars, key)

			groups := map[period.Key][]int{}
			for i, b := range bars {
				groups[key(b)] = append(groups[key(b)], i)
			}

			assert.Equal(t, len(groups), len(res.Highs()), name)
			assert.Equal(t, len(groups), len(res.Lows()), name)
			assert.Equal(t, len(groups), res.High.Total(), name)
			assert.Equal(t, len(groups), res.Low.Total(), name)

			for _, rec := range res.Records {
				members := groups[rec.Period]
				require.NotEmpty(t, members, name)
				for _, i := range members {
					switch rec.Kind {
					case High:
						assert.True(t, rec.Value.GreaterThanOrEqual(bars[i].High), name)
						if bars[i].High.Equal(rec.Value) {
							assert.LessOrEqual(t, rec.Index, i, "%s: earliest high wins", name)
						}
					case Low:
						assert.True(t, rec.Value.LessThanOrEqual(bars[i].Low), name)
						if bars[i].Low.Equal(rec.Value) {
							assert.LessOrEqual(t, rec.Index, i, "%s: earliest low wins", name)
						}
					}
				}
			}
		}

		weekly := Aggregate(bars, period.CalendarWeek)
		quarterly := Aggregate(bars, period.QuarterKey)
		assert.GreaterOrEqual(t, weekly.Periods(), quarterly.Periods())
		assert.GreaterOrEqual(t, weekly.High.Total(), quarterly.High.Total())
	}
}
