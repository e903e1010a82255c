package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxweekday/chart"
	"github.com/rustyeddy/fxweekday/extremum"
	"github.com/rustyeddy/fxweekday/journal"
	"github.com/rustyeddy/fxweekday/market"
	"github.com/rustyeddy/fxweekday/period"
	"github.com/rustyeddy/fxweekday/pkg/id"
	"github.com/rustyeddy/fxweekday/report"
)

type yearlyOptions struct {
	sourceFlags
	start   int
	end     int
	workers int
	columns int
}

func newYearlyCmd(ro *rootOptions) *cobra.Command {
	opts := &yearlyOptions{}

	cmd := &cobra.Command{
		Use:   "yearly",
		Short: "Weekday distributions per calendar year, drawn as a grid",
		Long: `Yearly runs the same aggregation separately for every calendar year in
[start, end] and draws one high/low chart pair per year.

Example:
  fxweekday yearly --csv EUR_USD.csv --start 2015 --end 2023`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runYearly(cmd, ro, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&opts.start, "start", 0, "First year")
	cmd.Flags().IntVar(&opts.end, "end", 0, "Last year (inclusive)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Years aggregated concurrently")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "Years per grid row")

	return cmd
}

func runYearly(cmd *cobra.Command, ro *rootOptions, opts *yearlyOptions) error {
	cfg := ro.cfg
	opts.apply(cmd, cfg)
	fl := cmd.Flags()
	if fl.Changed("start") {
		cfg.Analysis.StartYear = opts.start
	}
	if fl.Changed("end") {
		cfg.Analysis.EndYear = opts.end
	}
	if fl.Changed("workers") {
		cfg.Analysis.Workers = opts.workers
	}
	if fl.Changed("columns") {
		cfg.Output.Columns = opts.columns
	}
	if fl.Changed("chart") {
		cfg.Output.YearlyChart = opts.chart
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	key, kind, err := period.Parse(cfg.Analysis.Period)
	if err != nil {
		return err
	}
	order, err := extremum.ParseOrder(cfg.Analysis.Order)
	if err != nil {
		return err
	}

	start, end := cfg.Analysis.StartYear, cfg.Analysis.EndYear
	from := time.Date(start, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(end+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	bars, source, err := loadBars(cmd.Context(), cfg, ro.log, from, to)
	if err != nil {
		return err
	}

	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}

	results, err := extremum.ByYear(cmd.Context(), bars, key, years, cfg.Analysis.Workers)
	if err != nil {
		return err
	}

	display := market.DisplayName(cfg.Instrument)
	first, last := span(bars, from, to)
	title := chart.RangeTitle(display, first, last)

	panels := make([]chart.YearPanel, 0, len(results))
	var rows []journal.ExtremumRow
	runID := id.New()
	periods := 0
	for _, yr := range results {
		if yr.Bars == 0 {
			ro.log.Warn().Int("year", yr.Year).Msg("no bars for year")
		}
		panels = append(panels, chart.YearPanel{Year: yr.Year, High: yr.High, Low: yr.Low})
		rows = append(rows, journal.Rows(runID, yr.Year, yr.Result)...)
		periods += yr.Periods()
	}

	ro.log.Info().
		Str("instrument", cfg.Instrument).
		Str("period", string(kind)).
		Int("years", len(results)).
		Int("bars", len(bars)).
		Msg("aggregated by year")

	if cfg.Output.YearlyChart != "" {
		err := chart.WriteFile(cfg.Output.YearlyChart, func(w io.Writer) error {
			return chart.Grid(w, title, kind.Title(), panels, cfg.Output.Columns, chart.Options{Order: order})
		})
		if err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		ro.log.Info().Str("path", cfg.Output.YearlyChart).Msg("chart written")
	}

	if cfg.Output.Report {
		out := cmd.OutOrStdout()
		for _, yr := range results {
			t := fmt.Sprintf("%s %d", display, yr.Year)
			if err := report.Write(out, t, yr.High, yr.Low, report.Options{Order: order, NoColor: cfg.Log.NoColor}); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
	}

	run := journal.Run{
		ID:         runID,
		Instrument: cfg.Instrument,
		Source:     source,
		Period:     string(kind),
		From:       first,
		To:         last,
		Bars:       len(bars),
		Periods:    periods,
		CreatedAt:  time.Now().UTC(),
	}
	return record(ro, cfg, run, rows)
}
