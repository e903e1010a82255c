package market

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CSVOptions controls ReadBarsCSV.
type CSVOptions struct {
	// DateLayout forces a time.Parse layout for the time column.
	// When empty the layouts in dateLayouts are tried in order.
	DateLayout string

	// From/To filter bars to [From, To). Zero values are open.
	From time.Time
	To   time.Time
}

// LoadStats reports what the loader did with each data row.
type LoadStats struct {
	Rows       int
	Loaded     int
	Skipped    int // short rows or empty fields
	Incomplete int // complete=false
	Duplicates int // repeated timestamps, first one wins
	OutOfRange int
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006", // investing.com export
	"2006.01.02 15:04",
	"2006.01.02", // MT5 export
	"20060102",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type columns struct {
	time, high, low, complete int
}

func findColumns(header []string) (columns, error) {
	c := columns{time: -1, high: -1, low: -1, complete: -1}
	for i, h := range header {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(h), "\""))
		switch name {
		case "time", "date", "datetime", "timestamp":
			if c.time < 0 {
				c.time = i
			}
		case "high", "h":
			c.high = i
		case "low", "l":
			c.low = i
		case "complete":
			c.complete = i
		}
	}
	switch {
	case c.time < 0:
		return c, fmt.Errorf("csv header has no time/date column: %v", header)
	case c.high < 0:
		return c, fmt.Errorf("csv header has no high column: %v", header)
	case c.low < 0:
		return c, fmt.Errorf("csv header has no low column: %v", header)
	}
	return c, nil
}

func (c columns) width() int {
	w := c.time
	for _, i := range []int{c.high, c.low, c.complete} {
		if i > w {
			w = i
		}
	}
	return w + 1
}

// LoadBarsCSV opens path and reads it with ReadBarsCSV.
func LoadBarsCSV(path string, opts CSVOptions) ([]Bar, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer f.Close()

	bars, stats, err := ReadBarsCSV(f, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	return bars, stats, nil
}

// ReadBarsCSV reads daily bars from a delimited file with a header row.
// The header must name a time (or date) column, a high column and a low
// column; any other columns are ignored. Bad dates and prices are errors,
// empty fields are skipped.
func ReadBarsCSV(r io.Reader, opts CSVOptions) ([]Bar, LoadStats, error) {
	var stats LoadStats

	br := bufio.NewReader(r)
	if bom, _ := br.Peek(3); bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, stats, nil
	}
	if err != nil {
		return nil, stats, err
	}
	cols, err := findColumns(header)
	if err != nil {
		return nil, stats, err
	}

	seen := make(map[int64]struct{})
	var bars []Bar

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		stats.Rows++

		if len(row) < cols.width() {
			stats.Skipped++
			continue
		}
		if cols.complete >= 0 && strings.EqualFold(strings.TrimSpace(row[cols.complete]), "false") {
			stats.Incomplete++
			continue
		}

		ts := strings.TrimSpace(row[cols.time])
		hs := strings.TrimSpace(row[cols.high])
		ls := strings.TrimSpace(row[cols.low])
		if ts == "" || isBlankPrice(hs) || isBlankPrice(ls) {
			stats.Skipped++
			continue
		}

		t, err := ParseTime(ts, opts.DateLayout)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", line, err)
		}
		high, err := ParsePrice(hs)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: bad high: %w", line, err)
		}
		low, err := ParsePrice(ls)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: bad low: %w", line, err)
		}

		if !inRange(t, opts.From, opts.To) {
			stats.OutOfRange++
			continue
		}

		key := t.UnixNano()
		if _, dup := seen[key]; dup {
			// keep-first policy
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		bars = append(bars, NewBar(t, high, low))
		stats.Loaded++
	}

	return bars, stats, nil
}

// ParseTime parses s with layout, or with the known layouts when layout is
// empty. A plain integer is taken as unix seconds. The result is UTC.
func ParseTime(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if layout != "" {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad time %q: %w", s, err)
		}
		return t.UTC(), nil
	}

	if sec, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) > 8 {
		return time.Unix(sec, 0).UTC(), nil
	}

	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q: no known layout matches", s)
}

// ParsePrice parses a decimal price with a '.' decimal point. Commas are
// accepted only as thousands separators (1,234.5); a decimal-comma value
// such as 1,0850 is an error rather than 10850.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !thousandsGrouped(s) {
			return decimal.Decimal{}, fmt.Errorf("price %q: comma is not a thousands separator (decimal-comma input is not supported)", s)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

// thousandsGrouped reports whether the commas in the integer part of s
// split it into a 1-3 digit lead group and 3 digit groups.
func thousandsGrouped(s string) bool {
	s = strings.TrimLeft(s, "+-")
	intPart, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ",") {
		return false
	}
	groups := strings.Split(intPart, ",")
	for i, g := range groups {
		if g == "" || len(g) > 3 || (i > 0 && len(g) != 3) {
			return false
		}
	}
	return true
}

func isBlankPrice(s string) bool {
	return s == "" || s == "-"
}
