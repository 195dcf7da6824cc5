package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_TickerOnly(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

	a, err := ParseArgs([]string{"aapl"}, now)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", a.Ticker)
	assert.True(t, a.Relative)
	assert.True(t, a.End.Equal(now))
	assert.True(t, a.Start.Equal(now.AddDate(0, 0, -30)))
	assert.Equal(t, time.Date(2024, 5, 16, 14, 30, 0, 0, time.Local), a.Start)
}

func TestDefaultRange_AcrossDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// DST starts on 2024-03-10, inside the 30 days before now.
	now := time.Date(2024, 3, 25, 0, 30, 0, 0, ny)
	start, end := DefaultRange(now)

	assert.Equal(t, now, end)
	assert.Equal(t, time.Date(2024, 2, 24, 0, 30, 0, 0, ny), start)
	assert.NotEqual(t, 30*24*time.Hour, end.Sub(start))
}

func TestParseArgs_ExplicitDates(t *testing.T) {
	a, err := ParseArgs([]string{"msft", "2023-1-5", "2023-2-1"}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "MSFT", a.Ticker)
	assert.False(t, a.Relative)
	assert.Equal(t, time.Date(2023, time.January, 5, 0, 0, 0, 0, time.Local), a.Start)
	assert.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.Local), a.End)
}

func TestParseArgs_LeadingZeros(t *testing.T) {
	a, err := ParseArgs([]string{"GOOG", "2023-01-05", "2023-02-01"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.January, a.Start.Month())
	assert.Equal(t, 5, a.Start.Day())
}

func TestParseArgs_Errors(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no args", nil, ErrInvalidArgs},
		{"blank ticker", []string{"  "}, ErrInvalidArgs},
		{"start without end", []string{"AAPL", "2023-1-5"}, ErrInvalidArgs},
		{"too many", []string{"AAPL", "2023-1-5", "2023-2-1", "extra"}, ErrInvalidArgs},
		{"bad start", []string{"AAPL", "2023/1/5", "2023-2-1"}, ErrInvalidDate},
		{"bad end", []string{"AAPL", "2023-1-5", "yesterday"}, ErrInvalidDate},
		{"month out of range", []string{"AAPL", "2023-13-5", "2023-2-1"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
