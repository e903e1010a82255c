package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxweekday/config"
)

type fetchOptions struct {
	instrument  string
	granularity string
	price       string
	from        string
	to          string
	out         string
	incomplete  bool
}

func newFetchCmd(ro *rootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download OANDA candles to CSV",
		Long: `Fetch pages through the OANDA candles endpoint and writes
time,instrument,granularity,complete,volume,o,h,l,c rows that
"analyze --csv" reads back.

Example:
  OANDA_TOKEN=... fxweekday fetch -i EUR_USD --from 2000-01-01 -o EUR_USD_D.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, ro, opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&opts.instrument, "instrument", "i", "", "Instrument, e.g. EUR_USD")
	fl.StringVarP(&opts.granularity, "granularity", "g", "", "Candle granularity (D, H4, W...)")
	fl.StringVar(&opts.price, "price", "", "Price component: M|B|A")
	fl.StringVar(&opts.from, "from", "", "Start date (inclusive), 2006-01-02")
	fl.StringVar(&opts.to, "to", "", "End date (exclusive), 2006-01-02")
	fl.StringVarP(&opts.out, "out", "o", "", "Output CSV (default <instrument>_<granularity>.csv)")
	fl.BoolVar(&opts.incomplete, "include-incomplete", false, "Keep the still-forming candle")

	return cmd
}

func runFetch(cmd *cobra.Command, ro *rootOptions, opts *fetchOptions) error {
	cfg := ro.cfg
	cfg.Source.Type = "oanda"
	fl := cmd.Flags()
	if fl.Changed("instrument") {
		cfg.Instrument = opts.instrument
	}
	if fl.Changed("granularity") {
		cfg.OANDA.Granularity = opts.granularity
	}
	if fl.Changed("price") {
		cfg.OANDA.Price = opts.price
	}
	if fl.Changed("from") {
		cfg.Analysis.From = opts.from
	}
	if fl.Changed("to") {
		cfg.Analysis.To = opts.to
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	from, to, err := cfg.Range()
	if err != nil {
		return err
	}
	if from.IsZero() {
		return fmt.Errorf("fetch needs --from")
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("%s_%s.csv", cfg.Instrument, cfg.OANDA.Granularity)
	}

	n, err := download(cmd, ro, cfg, from, to, out, opts.incomplete)
	if err != nil {
		return err
	}

	ro.log.Info().Str("instrument", cfg.Instrument).Int("candles", n).Str("path", out).Msg("fetched")
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d candles to %s\n", n, out)
	return nil
}

func download(cmd *cobra.Command, ro *rootOptions, cfg *config.Config, from, to time.Time, path string, incomplete bool) (int, error) {
	client, err := newOandaClient(cfg, ro.log)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	copts := candlesOptions(cfg, from, to)
	copts.IncludeIncomplete = incomplete

	n, err := client.DownloadCandlesToCSV(cmd.Context(), copts, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("download %s: %w", cfg.Instrument, err)
	}
	return n, nil
}
