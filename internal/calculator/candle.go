package calculator

import (
	"math"

	"DailyChart/internal/model"
)

// Classify returns the direction of a day from its close and open prices.
func Classify(close, open float64) model.Status {
	switch {
	case close > open:
		return model.Bullish
	case close < open:
		return model.Bearish
	default:
		return model.Equal
	}
}

// Median is the vertical centre of the candle body.
func Median(open, close float64) float64 {
	return (open + close) / 2
}

// Height is the vertical size of the candle body.
func Height(open, close float64) float64 {
	return math.Abs(open - close)
}

// Transform enriches raw bars with status, median and height.
// The output has the same length and order as the input.
func Transform(bars []model.OHLCV) []model.DailyBar {
	out := make([]model.DailyBar, len(bars))
	for i, b := range bars {
		out[i] = model.DailyBar{
			Date:   b.Time,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
			Status: Classify(b.Close, b.Open),
			Median: Median(b.Open, b.Close),
			Height: Height(b.Open, b.Close),
		}
	}
	return out
}
