// Package report prints weekday distributions as a terminal table.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/rustyeddy/fxweekday/extremum"
)

type Options struct {
	Domain  []time.Weekday // nil means extremum.DefaultDomain(high, low)
	Order   extremum.Order // applied to the High column
	NoColor bool
}

// Write prints one row per weekday with the High and Low counts and
// their share of the column total, followed by a totals row.
func Write(w io.Writer, title string, high, low extremum.Frequency, opts Options) error {
	domain := opts.Domain
	if domain == nil {
		domain = extremum.DefaultDomain(high, low)
	}

	head := color.New(color.Bold)
	hi := color.New(color.FgCyan)
	lo := color.New(color.FgRed)
	top := color.New(color.Bold, color.FgGreen)
	for _, c := range []*color.Color{head, hi, lo, top} {
		if opts.NoColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	hiTotal, loTotal := high.Total(), low.Total()
	hiBest, loBest := busiest(high), busiest(low)

	var b strings.Builder
	if title != "" {
		b.WriteString(head.Sprint(title))
		b.WriteByte('\n')
	}
	b.WriteString(head.Sprintf("%-10s %6s %7s %6s %7s", "Weekday", "High", "High%", "Low", "Low%"))
	b.WriteByte('\n')

	for _, c := range high.Counts(domain, opts.Order) {
		h, l := c.N, low.Get(c.Day)

		hs := hi.Sprintf("%6d %6.1f%%", h, share(h, hiTotal))
		if h > 0 && h == hiBest {
			hs = top.Sprintf("%6d %6.1f%%", h, share(h, hiTotal))
		}
		ls := lo.Sprintf("%6d %6.1f%%", l, share(l, loTotal))
		if l > 0 && l == loBest {
			ls = top.Sprintf("%6d %6.1f%%", l, share(l, loTotal))
		}
		fmt.Fprintf(&b, "%-10s %s %s\n", c.Day, hs, ls)
	}

	b.WriteString(head.Sprintf("%-10s %6d %6.1f%% %6d %6.1f%%",
		"Total", hiTotal, share(hiTotal, hiTotal), loTotal, share(loTotal, loTotal)))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func busiest(f extremum.Frequency) int {
	best := 0
	for _, n := range f {
		if n > best {
			best = n
		}
	}
	return best
}
