package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxweekday/chart"
	"github.com/rustyeddy/fxweekday/config"
	"github.com/rustyeddy/fxweekday/extremum"
	"github.com/rustyeddy/fxweekday/journal"
	"github.com/rustyeddy/fxweekday/market"
	"github.com/rustyeddy/fxweekday/period"
	"github.com/rustyeddy/fxweekday/pkg/id"
	"github.com/rustyeddy/fxweekday/report"
)

// sourceFlags are shared by analyze and yearly.
type sourceFlags struct {
	source     string
	csvPath    string
	dateLayout string
	instrument string
	period     string
	order      string
	chart      string
	noReport   bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.source, "source", "", "Bar source: csv|oanda")
	fl.StringVar(&f.csvPath, "csv", "", "Daily bar CSV (implies --source csv)")
	fl.StringVar(&f.dateLayout, "date-layout", "", "Go time layout of the CSV date column")
	fl.StringVarP(&f.instrument, "instrument", "i", "", "Instrument, e.g. EUR_USD")
	fl.StringVarP(&f.period, "period", "p", "", "Period: week|isoweek|month|quarter")
	fl.StringVar(&f.order, "order", "", "Bar order: weekday|count")
	fl.StringVarP(&f.chart, "chart", "o", "", "PDF chart output path")
	fl.BoolVar(&f.noReport, "no-report", false, "Skip the terminal table")
}

func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("source") {
		cfg.Source.Type = f.source
	}
	if fl.Changed("csv") {
		cfg.Source.Type = "csv"
		cfg.Source.Path = f.csvPath
	}
	if fl.Changed("date-layout") {
		cfg.Source.DateLayout = f.dateLayout
	}
	if fl.Changed("instrument") {
		cfg.Instrument = f.instrument
	}
	if fl.Changed("period") {
		cfg.Analysis.Period = f.period
	}
	if fl.Changed("order") {
		cfg.Analysis.Order = f.order
	}
	if f.noReport {
		cfg.Output.Report = false
	}
}

type analyzeOptions struct {
	sourceFlags
	from string
	to   string
}

func newAnalyzeCmd(ro *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Count the weekday of every period high and low",
		Long: `Analyze buckets daily bars by period, picks the highest high and lowest
low of each bucket, and counts the weekday they fell on. The two
distributions are drawn as a PDF chart pair and printed as a table.

Examples:
  fxweekday analyze --csv EUR_USD.csv --period week
  fxweekday analyze --source oanda --from 2000-01-01 --period quarter`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, ro, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.from, "from", "", "Start date (inclusive), 2006-01-02")
	cmd.Flags().StringVar(&opts.to, "to", "", "End date (exclusive), 2006-01-02")

	return cmd
}

func runAnalyze(cmd *cobra.Command, ro *rootOptions, opts *analyzeOptions) error {
	cfg := ro.cfg
	opts.apply(cmd, cfg)
	if cmd.Flags().Changed("from") {
		cfg.Analysis.From = opts.from
	}
	if cmd.Flags().Changed("to") {
		cfg.Analysis.To = opts.to
	}
	if cmd.Flags().Changed("chart") {
		cfg.Output.Chart = opts.chart
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	from, to, err := cfg.Range()
	if err != nil {
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

	bars, source, err := loadBars(cmd.Context(), cfg, ro.log, from, to)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		ro.log.Warn().Str("instrument", cfg.Instrument).Msg("no bars in range")
	}

	res := extremum.Aggregate(bars, key)
	first, last := span(bars, from, to)
	title := chart.RangeTitle(market.DisplayName(cfg.Instrument), first, last)

	ro.log.Info().
		Str("instrument", cfg.Instrument).
		Str("period", string(kind)).
		Int("bars", len(bars)).
		Int("periods", res.Periods()).
		Msg("aggregated")

	if cfg.Output.Chart != "" {
		err := chart.WriteFile(cfg.Output.Chart, func(w io.Writer) error {
			return chart.Pair(w, title, kind.Title(), res.High, res.Low, chart.Options{Order: order})
		})
		if err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		ro.log.Info().Str("path", cfg.Output.Chart).Msg("chart written")
	}

	if cfg.Output.Report {
		err := report.Write(cmd.OutOrStdout(), title, res.High, res.Low, report.Options{
			Order:   order,
			NoColor: cfg.Log.NoColor,
		})
		if err != nil {
			return err
		}
	}

	run := journal.Run{
		ID:         id.New(),
		Instrument: cfg.Instrument,
		Source:     source,
		Period:     string(kind),
		From:       first,
		To:         last,
		Bars:       len(bars),
		Periods:    res.Periods(),
		CreatedAt:  time.Now().UTC(),
	}
	return record(ro, cfg, run, journal.Rows(run.ID, 0, res))
}

// span is the first and last bar time, or the configured range when
// there are no bars.
func span(bars []market.Bar, from, to time.Time) (time.Time, time.Time) {
	if first, last, ok := market.Span(bars); ok {
		return first, last
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	return from, to
}

// record writes the run to the configured journal, if any.
func record(ro *rootOptions, cfg *config.Config, run journal.Run, rows []journal.ExtremumRow) error {
	j, err := journal.Open(cfg.Journal.Type, cfg.Journal.Path)
	if err != nil {
		return err
	}
	if j == nil {
		return nil
	}

	err = j.RecordRun(run)
	if err == nil {
		err = j.RecordExtrema(rows)
	}
	if cerr := j.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	ro.log.Info().Str("run_id", run.ID).Str("journal", cfg.Journal.Path).Int("rows", len(rows)).Msg("run journaled")
	return nil
}
