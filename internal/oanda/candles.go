package oanda

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/fxweekday/market"
)

// MaxCandles is the largest page the candles endpoint returns.
const MaxCandles = 5000

// monthly pages would overflow time.Duration
const maxWindowSeconds = 100 * 365 * 86400

type CandlesOptions struct {
	Instrument  string
	Granularity string // e.g. D, H4, W
	Price       string // M, B, A

	From  time.Time // required unless Count > 0
	To    time.Time // optional, defaults to now
	Count int       // optional (used if >0, single request)

	// Daily candles close at DailyAlignment o'clock in
	// AlignmentTimezone. The defaults (0, UTC) make a daily candle one
	// UTC calendar day.
	DailyAlignment    int
	AlignmentTimezone string

	IncludeIncomplete bool
}

type ohlc struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

type candle struct {
	Complete bool   `json:"complete"`
	Time     string `json:"time"`
	Volume   int    `json:"volume"`
	Mid      *ohlc  `json:"mid,omitempty"`
	Bid      *ohlc  `json:"bid,omitempty"`
	Ask      *ohlc  `json:"ask,omitempty"`
}

type candlesResp struct {
	Instrument  string   `json:"instrument"`
	Granularity string   `json:"granularity"`
	Candles     []candle `json:"candles"`
}

var granularitySeconds = map[string]int64{
	"S5": 5, "S10": 10, "S15": 15, "S30": 30,
	"M1": 60, "M2": 120, "M4": 240, "M5": 300, "M10": 600, "M15": 900, "M30": 1800,
	"H1": 3600, "H2": 7200, "H3": 10800, "H4": 14400, "H6": 21600, "H8": 28800, "H12": 43200,
	"D": 86400, "W": 604800, "M": 2678400,
}

func (o CandlesOptions) normalize() (CandlesOptions, error) {
	if o.Instrument == "" {
		return o, fmt.Errorf("oanda: missing instrument")
	}
	if o.Granularity == "" {
		return o, fmt.Errorf("oanda: missing granularity")
	}
	o.Granularity = strings.ToUpper(strings.TrimSpace(o.Granularity))
	if _, ok := granularitySeconds[o.Granularity]; !ok {
		return o, fmt.Errorf("oanda: unsupported granularity %q", o.Granularity)
	}

	o.Price = strings.ToUpper(strings.TrimSpace(o.Price))
	switch o.Price {
	case "":
		o.Price = "M"
	case "M", "B", "A":
	default:
		// BA returns both bid and ask sets; a bar needs exactly one.
		return o, fmt.Errorf("oanda: price=%s not supported; use M/B/A", o.Price)
	}

	if o.DailyAlignment < 0 || o.DailyAlignment > 23 {
		return o, fmt.Errorf("oanda: daily alignment %d out of range 0..23", o.DailyAlignment)
	}
	if o.AlignmentTimezone == "" {
		o.AlignmentTimezone = "UTC"
	}

	if o.Count <= 0 {
		if o.From.IsZero() {
			return o, fmt.Errorf("oanda: missing from time (or count)")
		}
		if o.To.IsZero() {
			o.To = time.Now().UTC()
		}
		if !o.From.Before(o.To) {
			return o, fmt.Errorf("oanda: from %s must be before to %s",
				o.From.Format(time.RFC3339), o.To.Format(time.RFC3339))
		}
	}
	if o.Count > MaxCandles {
		return o, fmt.Errorf("oanda: count %d exceeds %d", o.Count, MaxCandles)
	}
	return o, nil
}

// windows splits [From, To) into ranges of at most MaxCandles candles.
func (o CandlesOptions) windows() [][2]time.Time {
	secs := granularitySeconds[o.Granularity] * MaxCandles
	if secs > maxWindowSeconds {
		secs = maxWindowSeconds
	}
	step := time.Duration(secs) * time.Second
	var out [][2]time.Time
	for start := o.From; start.Before(o.To); start = start.Add(step) {
		end := start.Add(step)
		if end.After(o.To) {
			end = o.To
		}
		out = append(out, [2]time.Time{start, end})
	}
	return out
}

func (o CandlesOptions) query() url.Values {
	q := url.Values{}
	q.Set("granularity", o.Granularity)
	q.Set("price", o.Price)
	q.Set("dailyAlignment", strconv.Itoa(o.DailyAlignment))
	q.Set("alignmentTimezone", o.AlignmentTimezone)
	return q
}

// fetchCandles pages through the candles endpoint and returns the raw
// candles in time order with page-boundary duplicates removed.
func (c *Client) fetchCandles(ctx context.Context, opts CandlesOptions) (candlesResp, error) {
	if err := c.check(); err != nil {
		return candlesResp{}, err
	}
	opts, err := opts.normalize()
	if err != nil {
		return candlesResp{}, err
	}

	path := fmt.Sprintf("/v3/instruments/%s/candles", opts.Instrument)

	if opts.Count > 0 {
		q := opts.query()
		q.Set("count", strconv.Itoa(opts.Count))
		if !opts.From.IsZero() {
			q.Set("from", opts.From.UTC().Format(time.RFC3339))
		}
		var cr candlesResp
		err := c.getJSON(ctx, path, q, &cr)
		return cr, err
	}

	out := candlesResp{Instrument: opts.Instrument, Granularity: opts.Granularity}
	seen := make(map[string]struct{})

	for _, w := range opts.windows() {
		q := opts.query()
		q.Set("from", w[0].UTC().Format(time.RFC3339))
		q.Set("to", w[1].UTC().Format(time.RFC3339))

		var page candlesResp
		if err := c.getJSON(ctx, path, q, &page); err != nil {
			return out, err
		}
		for _, cd := range page.Candles {
			if _, dup := seen[cd.Time]; dup {
				continue
			}
			seen[cd.Time] = struct{}{}
			out.Candles = append(out.Candles, cd)
		}
		c.logger().Debug().Str("instrument", opts.Instrument).
			Str("from", w[0].Format(time.RFC3339)).
			Str("to", w[1].Format(time.RFC3339)).
			Int("candles", len(page.Candles)).Msg("oanda page")
	}
	return out, nil
}

func pick(cd candle, price string) *ohlc {
	switch price {
	case "B":
		return cd.Bid
	case "A":
		return cd.Ask
	default:
		return cd.Mid
	}
}

// FetchBars downloads candles and returns them as bars in [From, To),
// the same range a CSV load keeps. Incomplete candles are dropped unless
// opts.IncludeIncomplete is set.
func (c *Client) FetchBars(ctx context.Context, opts CandlesOptions) ([]market.Bar, error) {
	cr, err := c.fetchCandles(ctx, opts)
	if err != nil {
		return nil, err
	}
	price := strings.ToUpper(strings.TrimSpace(opts.Price))

	bars := make([]market.Bar, 0, len(cr.Candles))
	for _, cd := range cr.Candles {
		if !cd.Complete && !opts.IncludeIncomplete {
			continue
		}
		p := pick(cd, price)
		if p == nil {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, cd.Time)
		if err != nil {
			return nil, fmt.Errorf("oanda: bad candle time %q: %w", cd.Time, err)
		}
		high, err := market.ParsePrice(p.H)
		if err != nil {
			return nil, fmt.Errorf("oanda: bad high %q at %s: %w", p.H, cd.Time, err)
		}
		low, err := market.ParsePrice(p.L)
		if err != nil {
			return nil, fmt.Errorf("oanda: bad low %q at %s: %w", p.L, cd.Time, err)
		}
		bars = append(bars, market.NewBar(t, high, low))
	}
	return market.Between(bars, opts.From, opts.To), nil
}

// DownloadCandlesToCSV writes the canonical candle CSV
// (time,instrument,granularity,complete,volume,o,h,l,c), which
// market.ReadBarsCSV reads back. Incomplete candles are written only when
// opts.IncludeIncomplete is set.
func (c *Client) DownloadCandlesToCSV(ctx context.Context, opts CandlesOptions, w io.Writer) (int, error) {
	cr, err := c.fetchCandles(ctx, opts)
	if err != nil {
		return 0, err
	}
	price := strings.ToUpper(strings.TrimSpace(opts.Price))

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "instrument", "granularity", "complete", "volume", "o", "h", "l", "c"}); err != nil {
		return 0, err
	}

	written := 0
	for _, cd := range cr.Candles {
		if !cd.Complete && !opts.IncludeIncomplete {
			continue
		}
		p := pick(cd, price)
		if p == nil {
			continue
		}
		row := []string{
			cd.Time,
			cr.Instrument,
			cr.Granularity,
			strconv.FormatBool(cd.Complete),
			strconv.Itoa(cd.Volume),
			p.O, p.H, p.L, p.C,
		}
		if err := cw.Write(row); err != nil {
			return written, err
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, err
	}
	return written, nil
}
