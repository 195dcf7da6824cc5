package model

import "time"

// OHLCV represents a single raw daily bar as returned by a data source.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Status is the direction of a trading day.
type Status int

const (
	Equal Status = iota
	Bullish
	Bearish
)

func (s Status) String() string {
	switch s {
	case Bullish:
		return "Bullish"
	case Bearish:
		return "Bearish"
	default:
		return "Equal"
	}
}

// DailyBar is one trading day enriched with the fields needed to draw a candlestick.
// Status, Median and Height are derived once from Open and Close.
type DailyBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	Status Status
	Median float64
	Height float64
}

// Series holds the enriched bars for one ticker and date range.
type Series struct {
	Ticker    string
	Source    string
	Start     time.Time
	End       time.Time
	Bars      []DailyBar
	FetchedAt time.Time
}
