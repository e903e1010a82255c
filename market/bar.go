package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one daily price row. Only the fields the weekday analysis
// needs are kept; open/close/volume are dropped at load time.
type Bar struct {
	Time time.Time
	High decimal.Decimal
	Low  decimal.Decimal
}

// NewBar normalizes t to UTC.
func NewBar(t time.Time, high, low decimal.Decimal) Bar {
	return Bar{Time: t.UTC(), High: high, Low: low}
}

// Weekday of the bar in UTC.
func (b Bar) Weekday() time.Weekday {
	return b.Time.UTC().Weekday()
}

// Span returns the first and last bar times. ok is false for an empty slice.
func Span(bars []Bar) (first, last time.Time, ok bool) {
	if len(bars) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = bars[0].Time, bars[0].Time
	for _, b := range bars[1:] {
		if b.Time.Before(first) {
			first = b.Time
		}
		if b.Time.After(last) {
			last = b.Time
		}
	}
	return first, last, true
}

// Between keeps bars in [from, to). Zero bounds are open.
func Between(bars []Bar, from, to time.Time) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if inRange(b.Time, from, to) {
			out = append(out, b)
		}
	}
	return out
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
