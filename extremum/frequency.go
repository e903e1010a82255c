package extremum

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Frequency counts extrema per weekday. Days that never hosted an
// extremum are absent, not zero.
type Frequency map[time.Weekday]int

func (f Frequency) Get(d time.Weekday) int { return f[d] }

func (f Frequency) Total() int {
	n := 0
	for _, c := range f {
		n += c
	}
	return n
}

type Order int

const (
	ByWeekday Order = iota // Monday..Sunday
	ByCount                // most frequent first
)

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "weekday", "day":
		return ByWeekday, nil
	case "count", "frequency":
		return ByCount, nil
	}
	return ByWeekday, fmt.Errorf("unknown order %q (want weekday|count)", s)
}

// Count is one bar of a distribution chart.
type Count struct {
	Day time.Weekday
	N   int
}

// Counts flattens f over domain, filling missing days with 0. Days in f
// that are outside domain are kept. A nil domain means the days in f.
func (f Frequency) Counts(domain []time.Weekday, order Order) []Count {
	seen := make(map[time.Weekday]bool, 7)
	out := make([]Count, 0, 7)
	for _, d := range domain {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, Count{Day: d, N: f[d]})
	}
	for d, n := range f {
		if !seen[d] {
			seen[d] = true
			out = append(out, Count{Day: d, N: n})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == ByCount && out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return mondayFirst(out[i].Day) < mondayFirst(out[j].Day)
	})
	return out
}

// Weekdays is Monday..Friday, the FX trading week.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// DefaultDomain is Monday..Friday plus any weekend day with a count in
// one of freqs. Some feeds print short Sunday bars.
func DefaultDomain(freqs ...Frequency) []time.Weekday {
	out := append([]time.Weekday(nil), Weekdays...)
	for _, d := range []time.Weekday{time.Saturday, time.Sunday} {
		for _, f := range freqs {
			if f[d] > 0 {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}
