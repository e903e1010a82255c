package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/phuslu/log"

	"github.com/rustyeddy/fxweekday/config"
	"github.com/rustyeddy/fxweekday/internal/oanda"
	"github.com/rustyeddy/fxweekday/market"
)

const httpTimeout = 60 * time.Second

// loadBars reads the configured source over [from, to). A zero bound is
// open.
func loadBars(ctx context.Context, cfg *config.Config, lg *log.Logger, from, to time.Time) ([]market.Bar, string, error) {
	switch cfg.Source.Type {
	case "csv":
		bars, st, err := market.LoadBarsCSV(cfg.Source.Path, market.CSVOptions{
			DateLayout: cfg.Source.DateLayout,
			From:       from,
			To:         to,
		})
		if err != nil {
			return nil, "", err
		}
		lg.Info().
			Str("path", cfg.Source.Path).
			Int("rows", st.Rows).
			Int("loaded", st.Loaded).
			Int("skipped", st.Skipped).
			Int("incomplete", st.Incomplete).
			Int("duplicates", st.Duplicates).
			Int("out_of_range", st.OutOfRange).
			Msg("loaded csv bars")
		return bars, cfg.Source.Path, nil

	case "oanda":
		if from.IsZero() {
			return nil, "", fmt.Errorf("oanda source needs a start date (analysis.from or --from)")
		}
		client, err := newOandaClient(cfg, lg)
		if err != nil {
			return nil, "", err
		}
		bars, err := client.FetchBars(ctx, candlesOptions(cfg, from, to))
		if err != nil {
			return nil, "", fmt.Errorf("fetch %s: %w", cfg.Instrument, err)
		}
		lg.Info().Str("instrument", cfg.Instrument).Int("bars", len(bars)).Msg("fetched oanda bars")
		return bars, "oanda", nil
	}
	return nil, "", fmt.Errorf("unknown source type %q", cfg.Source.Type)
}

func newOandaClient(cfg *config.Config, lg *log.Logger) (*oanda.Client, error) {
	base := cfg.OANDA.BaseURL
	if base == "" {
		var err error
		if base, err = oanda.BaseURL(cfg.OANDA.Env); err != nil {
			return nil, err
		}
	}
	return &oanda.Client{
		BaseURL: base,
		Token:   cfg.OANDA.Token,
		HTTP:    &http.Client{Timeout: httpTimeout},
		Log:     lg,
	}, nil
}

func candlesOptions(cfg *config.Config, from, to time.Time) oanda.CandlesOptions {
	return oanda.CandlesOptions{
		Instrument:        cfg.Instrument,
		Granularity:       cfg.OANDA.Granularity,
		Price:             cfg.OANDA.Price,
		From:              from,
		To:                to,
		DailyAlignment:    cfg.OANDA.DailyAlignment,
		AlignmentTimezone: cfg.OANDA.AlignmentTimezone,
	}
}
