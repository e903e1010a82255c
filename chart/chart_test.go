package chart

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxweekday/extremum"
)

func TestRangeTitle(t *testing.T) {
	t.Parallel()

	got := RangeTitle("EUR-USD",
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 9, 5, 13, 0, 0, 0, time.UTC))
	assert.Equal(t, "| EUR-USD | Date Range: 2000.01.01 - 2023.09.05 |", got)
}

func TestPairTitles(t *testing.T) {
	t.Parallel()

	hi, lo := PairTitles("Quarter")
	assert.Equal(t, "Max Quarter Price Formation Over Day of Week", hi)
	assert.Equal(t, "Min Quarter Price Formation Over Day of Week", lo)
}

func TestPairWritesPDF(t *testing.T) {
	t.Parallel()

	high := extremum.Frequency{time.Monday: 120, time.Tuesday: 260, time.Friday: 240}
	low := extremum.Frequency{time.Wednesday: 230, time.Sunday: 3}

	var buf bytes.Buffer
	require.NoError(t, Pair(&buf, "| EUR-USD |", "Week", high, low, Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestPairEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Pair(&buf, "empty", "Week", extremum.Frequency{}, extremum.Frequency{}, Options{Order: extremum.ByCount}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGrid(t *testing.T) {
	t.Parallel()

	years := make([]YearPanel, 0, 9)
	for y := 2015; y <= 2023; y++ {
		years = append(years, YearPanel{
			Year: y,
			High: extremum.Frequency{time.Monday: y % 7, time.Thursday: 10},
			Low:  extremum.Frequency{time.Friday: 12},
		})
	}

	var buf bytes.Buffer
	require.NoError(t, Grid(&buf, "| EUR-USD |", "Week", years, 3, Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	err := Grid(&buf, "none", "Week", nil, 3, Options{})
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "week_price_day.pdf")
	err := WriteFile(path, func(w io.Writer) error {
		return Pair(w, "t", "Week", extremum.Frequency{time.Monday: 1}, extremum.Frequency{time.Monday: 1}, Options{})
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestNiceStep(t *testing.T) {
	t.Parallel()

	tests := map[int]int{0: 1, 3: 1, 5: 1, 6: 2, 10: 2, 11: 5, 25: 5, 26: 10, 260: 100, 1000: 200}
	for in, want := range tests {
		assert.Equal(t, want, niceStep(in), "max=%d", in)
	}
}
