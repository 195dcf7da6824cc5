package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DailyChart/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		close float64
		open  float64
		want  model.Status
	}{
		{"close above open", 105, 100, model.Bullish},
		{"close below open", 95, 100, model.Bearish},
		{"close equals open", 50, 50, model.Equal},
		{"tiny gain", 100.0001, 100, model.Bullish},
		{"zero prices", 0, 0, model.Equal},
		{"negative inputs", -1, -2, model.Bullish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.close, tt.open))
		})
	}
}

func TestClassify_MatchesSignOfDifference(t *testing.T) {
	prices := []float64{0, 0.5, 1, 49.99, 50, 50.01, 1e6}
	for _, c := range prices {
		for _, o := range prices {
			got := Classify(c, o)
			switch diff := c - o; {
			case diff > 0:
				assert.Equal(t, model.Bullish, got, "c=%v o=%v", c, o)
			case diff < 0:
				assert.Equal(t, model.Bearish, got, "c=%v o=%v", c, o)
			default:
				assert.Equal(t, model.Equal, got, "c=%v o=%v", c, o)
			}
		}
	}
}

func TestMedianAndHeight(t *testing.T) {
	prices := []float64{0, 1.25, 50, 100, 105, 3000.5}
	for _, o := range prices {
		for _, c := range prices {
			assert.Equal(t, (o+c)/2, Median(o, c))
			assert.Equal(t, Median(o, c), Median(c, o), "median must be symmetric")

			h := Height(o, c)
			assert.GreaterOrEqual(t, h, 0.0)
			assert.Equal(t, h == 0, Classify(c, o) == model.Equal, "o=%v c=%v", o, c)
		}
	}
}

func TestTransform_Examples(t *testing.T) {
	day := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := Transform([]model.OHLCV{
		{Time: day, Open: 100, Close: 105, High: 107, Low: 99},
		{Time: day.AddDate(0, 0, 1), Open: 50, Close: 50, High: 51, Low: 49},
		{Time: day.AddDate(0, 0, 2), Open: 20, Close: 18, High: 21, Low: 17},
	})
	require.Len(t, bars, 3)

	assert.Equal(t, model.Bullish, bars[0].Status)
	assert.Equal(t, 102.5, bars[0].Median)
	assert.Equal(t, 5.0, bars[0].Height)
	assert.Equal(t, 107.0, bars[0].High)
	assert.Equal(t, 99.0, bars[0].Low)

	assert.Equal(t, model.Equal, bars[1].Status)
	assert.Equal(t, 50.0, bars[1].Median)
	assert.Equal(t, 0.0, bars[1].Height)

	assert.Equal(t, model.Bearish, bars[2].Status)
	assert.Equal(t, 19.0, bars[2].Median)
	assert.Equal(t, 2.0, bars[2].Height)
}

func TestTransform_PreservesCountAndOrder(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	raw := make([]model.OHLCV, 40)
	for i := range raw {
		p := 100 + 10*math.Sin(float64(i))
		raw[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: p, Close: p + float64(i%3-1), High: p + 2, Low: p - 2}
	}
	out := Transform(raw)
	require.Len(t, out, len(raw))
	for i := range raw {
		assert.True(t, raw[i].Time.Equal(out[i].Date), "bar %d moved", i)
	}
}

func TestTransform_Empty(t *testing.T) {
	assert.Empty(t, Transform(nil))
}
