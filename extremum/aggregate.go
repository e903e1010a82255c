// Package extremum finds, for every period in a bar series, the day that
// printed the period high and the day that printed the period low, and
// counts how often each weekday hosted them.
//
// Aggregate is pure: no I/O, no shared state. Bars must already be
// validated (parsed timestamps, finite prices); High < Low is not checked.
package extremum

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxweekday/market"
	"github.com/rustyeddy/fxweekday/period"
)

type Kind int

const (
	High Kind = iota
	Low
)

func (k Kind) String() string {
	if k == High {
		return "high"
	}
	return "low"
}

// Record is the bar selected as a period's high or low.
type Record struct {
	Period  period.Key
	Kind    Kind
	Value   decimal.Decimal
	Weekday time.Weekday
	Time    time.Time
	Index   int // position in the input slice
}

type Result struct {
	High    Frequency
	Low     Frequency
	Records []Record // sorted by period, High before Low
}

// Periods is the number of distinct period keys that were aggregated.
func (r Result) Periods() int {
	return len(r.Records) / 2
}

// Highs returns the High records in period order.
func (r Result) Highs() []Record { return r.filter(High) }

// Lows returns the Low records in period order.
func (r Result) Lows() []Record { return r.filter(Low) }

func (r Result) filter(k Kind) []Record {
	out := make([]Record, 0, len(r.Records)/2)
	for _, rec := range r.Records {
		if rec.Kind == k {
			out = append(out, rec)
		}
	}
	return out
}

type pick struct {
	hi, lo int
}

// Aggregate groups bars by key and selects, per group, the bar with the
// greatest High and the bar with the smallest Low. Ties go to the bar that
// appears first in bars. An empty input yields empty maps.
func Aggregate(bars []market.Bar, key period.KeyFunc) Result {
	res := Result{High: Frequency{}, Low: Frequency{}}
	if len(bars) == 0 {
		return res
	}

	groups := make(map[period.Key]*pick)
	keys := make([]period.Key, 0)

	for i, b := range bars {
		k := key(b)
		g, ok := groups[k]
		if !ok {
			groups[k] = &pick{hi: i, lo: i}
			keys = append(keys, k)
			continue
		}
		// strict comparisons keep the earliest bar on ties
		if b.High.GreaterThan(bars[g.hi].High) {
			g.hi = i
		}
		if b.Low.LessThan(bars[g.lo].Low) {
			g.lo = i
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	res.Records = make([]Record, 0, 2*len(keys))
	for _, k := range keys {
		g := groups[k]

		hb := bars[g.hi]
		res.Records = append(res.Records, Record{
			Period: k, Kind: High, Value: hb.High,
			Weekday: hb.Weekday(), Time: hb.Time, Index: g.hi,
		})
		res.High[hb.Weekday()]++

		lb := bars[g.lo]
		res.Records = append(res.Records, Record{
			Period: k, Kind: Low, Value: lb.Low,
			Weekday: lb.Weekday(), Time: lb.Time, Index: g.lo,
		})
		res.Low[lb.Weekday()]++
	}

	return res
}
