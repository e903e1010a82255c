package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBarUTC(t *testing.T) {
	t.Parallel()

	ny := time.FixedZone("EST", -5*60*60)
	// 22:00 Sunday in New York is Monday in UTC
	b := NewBar(time.Date(2023, 9, 3, 22, 0, 0, 0, ny), d("1"), d("1"))
	assert.Equal(t, time.UTC, b.Time.Location())
	assert.Equal(t, time.Monday, b.Weekday())
}

func TestSpanAndBetween(t *testing.T) {
	t.Parallel()

	day := func(n int) time.Time { return time.Date(2023, 1, n, 0, 0, 0, 0, time.UTC) }
	bars := []Bar{
		NewBar(day(5), d("1"), d("1")),
		NewBar(day(2), d("1"), d("1")),
		NewBar(day(9), d("1"), d("1")),
	}

	first, last, ok := Span(bars)
	require.True(t, ok)
	assert.Equal(t, day(2), first)
	assert.Equal(t, day(9), last)

	_, _, ok = Span(nil)
	assert.False(t, ok)

	got := Between(bars, day(3), day(9))
	require.Len(t, got, 1)
	assert.Equal(t, day(5), got[0].Time)

	assert.Len(t, Between(bars, time.Time{}, time.Time{}), 3)
}

func TestNormalizeInstrument(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"EUR_USD", "eurusd", "EUR/USD", "EUR-USD", " EURUSD "} {
		got, err := NormalizeInstrument(in)
		require.NoError(t, err, in)
		assert.Equal(t, "EUR_USD", got)
	}

	_, err := NormalizeInstrument("XXXYYY")
	assert.Error(t, err)

	assert.Equal(t, "EUR-USD", DisplayName("EUR_USD"))
}
