// Package period derives the calendar bucket a bar belongs to.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/fxweekday/market"
)

type Kind string

const (
	Week    Kind = "week"
	ISOWeek Kind = "isoweek"
	Month   Kind = "month"
	Quarter Kind = "quarter"
)

// Key identifies one bucket. It is comparable and safe to use as a map key.
type Key struct {
	Kind Kind
	Year int
	Num  int
}

func (k Key) String() string {
	switch k.Kind {
	case ISOWeek:
		return fmt.Sprintf("%04d-W%02d", k.Year, k.Num)
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", k.Year, k.Num)
	default:
		return fmt.Sprintf("%04d-%02d", k.Year, k.Num)
	}
}

// Less orders keys chronologically within one kind.
func (k Key) Less(o Key) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Num < o.Num
}

// KeyFunc maps a bar to its bucket.
type KeyFunc func(market.Bar) Key

// WeekOfYear returns the Monday-first week number of t within its own
// calendar year. Days before the first Monday of January are week 0.
func WeekOfYear(t time.Time) int {
	mondayIdx := (int(t.Weekday()) + 6) % 7
	return (t.YearDay() - 1 + 7 - mondayIdx) / 7
}

// CalendarWeek pairs the Monday-first week number with the bar's own
// calendar year. A week that straddles New Year is therefore split into
// two buckets (week 52/53 of the old year and week 0 of the new one).
// Use ISOWeekKey when whole weeks are wanted.
func CalendarWeek(b market.Bar) Key {
	t := b.Time.UTC()
	return Key{Kind: Week, Year: t.Year(), Num: WeekOfYear(t)}
}

// ISOWeekKey uses the ISO 8601 week and week-year.
func ISOWeekKey(b market.Bar) Key {
	y, w := b.Time.UTC().ISOWeek()
	return Key{Kind: ISOWeek, Year: y, Num: w}
}

func MonthKey(b market.Bar) Key {
	t := b.Time.UTC()
	return Key{Kind: Month, Year: t.Year(), Num: int(t.Month())}
}

func QuarterKey(b market.Bar) Key {
	t := b.Time.UTC()
	return Key{Kind: Quarter, Year: t.Year(), Num: (int(t.Month())-1)/3 + 1}
}

// Parse returns the KeyFunc for a period name.
func Parse(name string) (KeyFunc, Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case Week, "":
		return CalendarWeek, Week, nil
	case ISOWeek, "iso":
		return ISOWeekKey, ISOWeek, nil
	case Month:
		return MonthKey, Month, nil
	case Quarter:
		return QuarterKey, Quarter, nil
	default:
		return nil, "", fmt.Errorf("unknown period %q (want week|isoweek|month|quarter)", name)
	}
}

// Title is the word used in chart titles, e.g. "Week".
func (k Kind) Title() string {
	switch k {
	case ISOWeek, Week:
		return "Week"
	case Month:
		return "Month"
	case Quarter:
		return "Quarter"
	}
	return string(k)
}
