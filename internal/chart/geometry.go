package chart

import (
	"time"

	"DailyChart/internal/model"
)

// BodyWidth is the horizontal extent of a candle body on the date axis.
const BodyWidth = 12 * time.Hour

const (
	FillBullish = "green"
	FillBearish = "#FF3333"
	LineColor   = "black"
)

// Segment is a vertical line at X from Y0 to Y1.
type Segment struct {
	X  time.Time
	Y0 float64
	Y1 float64
}

// Rect is a rectangle centred at (CenterX, CenterY).
type Rect struct {
	CenterX time.Time
	CenterY float64
	Width   time.Duration
	Height  float64
}

// WidthMillis is the width in date-axis units.
func (r Rect) WidthMillis() int64 { return r.Width.Milliseconds() }

// Bottom and Top are the vertical edges of the rectangle.
func (r Rect) Bottom() float64 { return r.CenterY - r.Height/2 }
func (r Rect) Top() float64    { return r.CenterY + r.Height/2 }

// Tooltip holds the prices shown when hovering a candle.
type Tooltip struct {
	High  float64
	Low   float64
	Open  float64
	Close float64
}

// Candle is the set of primitives that draw one bar.
type Candle struct {
	Date    time.Time
	Status  model.Status
	Wick    Segment
	Body    *Rect // nil for Equal days, which are drawn with the wick only
	Tooltip Tooltip
}

// Fill is the body colour for a status. Equal days have no body and no fill.
func Fill(status model.Status) string {
	switch status {
	case model.Bullish:
		return FillBullish
	case model.Bearish:
		return FillBearish
	}
	return ""
}

// Derive maps a bar to its drawing primitives.
func Derive(bar model.DailyBar) Candle {
	c := Candle{
		Date:   bar.Date,
		Status: bar.Status,
		Wick:   Segment{X: bar.Date, Y0: bar.Low, Y1: bar.High},
		Tooltip: Tooltip{
			High:  bar.High,
			Low:   bar.Low,
			Open:  bar.Open,
			Close: bar.Close,
		},
	}

	if bar.Status == model.Equal {
		return c
	}
	c.Body = &Rect{
		CenterX: bar.Date,
		CenterY: bar.Median,
		Width:   BodyWidth,
		Height:  bar.Height,
	}
	return c
}

// DeriveAll maps every bar, preserving order.
func DeriveAll(bars []model.DailyBar) []Candle {
	out := make([]Candle, len(bars))
	for i := range bars {
		out[i] = Derive(bars[i])
	}
	return out
}

// ohlc returns the candle's [open, close, low, high] as reconstructed from its primitives.
func (c Candle) ohlc() [4]float64 {
	low, high := c.Wick.Y0, c.Wick.Y1
	if c.Body == nil {
		return [4]float64{c.Tooltip.Open, c.Tooltip.Open, low, high}
	}
	if c.Status == model.Bearish {
		return [4]float64{c.Body.Top(), c.Body.Bottom(), low, high}
	}
	return [4]float64{c.Body.Bottom(), c.Body.Top(), low, high}
}
