package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReadBarsCSV_OandaCanonical(t *testing.T) {
	t.Parallel()

	in := `time,instrument,granularity,complete,volume,o,h,l,c
2023-09-04T00:00:00Z,EUR_USD,D,true,100,1.0790,1.0812,1.0771,1.0795
2023-09-05T00:00:00Z,EUR_USD,D,true,120,1.0795,1.0800,1.0705,1.0720
2023-09-06T00:00:00Z,EUR_USD,D,false,10,1.0720,1.0730,1.0710,1.0725
`
	bars, stats, err := ReadBarsCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, time.Date(2023, 9, 4, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.True(t, d("1.0812").Equal(bars[0].High))
	assert.True(t, d("1.0771").Equal(bars[0].Low))
	assert.Equal(t, time.Tuesday, bars[1].Weekday())

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 2, stats.Loaded)
	assert.Equal(t, 1, stats.Incomplete)
}

func TestReadBarsCSV_InvestingExport(t *testing.T) {
	t.Parallel()

	in := "\ufeff\"Date\",\"Price\",\"Open\",\"High\",\"Low\",\"Vol.\",\"Change %\"\n" +
		"\"09/05/2023\",\"1.0720\",\"1.0795\",\"1.0800\",\"1.0705\",\"\",\"-0.70%\"\n" +
		"\"09/04/2023\",\"1.0795\",\"1.0790\",\"1.0812\",\"1.0771\",\"\",\"0.05%\"\n"

	bars, stats, err := ReadBarsCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2, stats.Loaded)

	// newest-first files keep their order; grouping does not depend on it
	assert.Equal(t, time.Date(2023, 9, 5, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.True(t, d("1.0705").Equal(bars[0].Low))
}

func TestReadBarsCSV_SkipsAndFilters(t *testing.T) {
	t.Parallel()

	in := `Date,High,Low
2023-01-02,1.10,1.00
2023-01-03,,1.00
2023-01-04,-,1.00
2023-01-05
2023-01-02,1.20,0.90
2023-02-01,1.10,1.00
`
	bars, stats, err := ReadBarsCSV(strings.NewReader(in), CSVOptions{
		To: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.True(t, d("1.10").Equal(bars[0].High), "first duplicate wins")

	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.OutOfRange)
}

func TestReadBarsCSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no time column", "foo,high,low\n1,2,3\n", "no time/date column"},
		{"no high column", "date,open,low\n2023-01-02,1,1\n", "no high column"},
		{"no low column", "date,high\n2023-01-02,1\n", "no low column"},
		{"bad date", "date,high,low\nyesterday,1,1\n", "line 2"},
		{"bad high", "date,high,low\n2023-01-02,abc,1\n", "bad high"},
		{"bad low", "date,high,low\n2023-01-02,1,x\n", "bad low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadBarsCSV(strings.NewReader(tt.in), CSVOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadBarsCSV_Empty(t *testing.T) {
	t.Parallel()

	bars, stats, err := ReadBarsCSV(strings.NewReader(""), CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, bars)
	assert.Zero(t, stats.Rows)
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2023, 9, 5, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2023-09-05",
		"2023-09-05T00:00:00Z",
		"2023-09-05T00:00:00.000000000Z",
		"09/05/2023",
		"2023.09.05",
		"20230905",
		"1693872000",
	} {
		got, err := ParseTime(s, "")
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s -> %s", s, got)
	}

	got, err := ParseTime("05.09.2023", "02.01.2006")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = ParseTime("05.09.2023", "2006-01-02")
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	p, err := ParsePrice(" 1,234.5678 ")
	require.NoError(t, err)
	assert.True(t, d("1234.5678").Equal(p))

	p, err = ParsePrice("12,345,678")
	require.NoError(t, err)
	assert.True(t, d("12345678").Equal(p))

	_, err = ParsePrice("n/a")
	assert.Error(t, err)

	for _, s := range []string{"1,0850", "1.085,5", ",085", "12,34"} {
		_, err = ParsePrice(s)
		assert.Error(t, err, s)
	}
}

func TestReadBarsCSV_RejectsDecimalComma(t *testing.T) {
	t.Parallel()

	in := "Date,High,Low\n01/02/2023,\"1,0715\",\"1,0655\"\n"
	_, _, err := ReadBarsCSV(strings.NewReader(in), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "thousands separator")
}

func TestLoadBarsCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "eur_usd.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,high,low\n2023-01-02,1.1,1.0\n"), 0o644))

	bars, _, err := LoadBarsCSV(path, CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	_, _, err = LoadBarsCSV(filepath.Join(t.TempDir(), "missing.csv"), CSVOptions{})
	assert.Error(t, err)
}
