package extremum

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/fxweekday/market"
	"github.com/rustyeddy/fxweekday/period"
)

type YearResult struct {
	Year int
	Bars int
	Result
}

// Years returns the distinct UTC calendar years present in bars, sorted.
func Years(bars []market.Bar) []int {
	set := make(map[int]struct{})
	for _, b := range bars {
		set[b.Time.UTC().Year()] = struct{}{}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// ByYear aggregates each calendar year of bars independently. Years run
// concurrently, at most workers at a time (0 means no limit). Results are
// returned in the order of years; an empty years means every year in bars.
// A year with no bars yields an empty Result.
func ByYear(ctx context.Context, bars []market.Bar, key period.KeyFunc, years []int, workers int) ([]YearResult, error) {
	if len(years) == 0 {
		years = Years(bars)
	}

	out := make([]YearResult, len(years))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slice := yearSlice(bars, year)
			out[i] = YearResult{
				Year:   year,
				Bars:   len(slice),
				Result: Aggregate(slice, key),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func yearSlice(bars []market.Bar, year int) []market.Bar {
	out := make([]market.Bar, 0, 262)
	for _, b := range bars {
		if b.Time.UTC().Year() == year {
			out = append(out, b)
		}
	}
	return out
}
