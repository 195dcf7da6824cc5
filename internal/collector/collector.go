package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"DailyChart/internal/calculator"
	"DailyChart/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, start, end time.Time) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return finalize(append([]model.OHLCV(nil), m.DailyData...), start, end)
	}
	return finalize(generateMockBars(m.Price, start, end), start, end)
}

// generateMockBars produces one bar per weekday in [start, end], alternating up and down days
// with every fifth day flat.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for day := dateOf(start); !day.After(dateOf(end)); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		open, close := p*0.995, p
		switch {
		case i%5 == 4:
			close = open
		case i%2 == 1:
			open, close = close, open
		}
		bars = append(bars, model.OHLCV{
			Time:   day,
			Open:   open,
			High:   p * 1.005,
			Low:    p * 0.99,
			Close:  close,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

// Collector orchestrates data fetching and the candlestick transform.
type Collector struct {
	Fetcher Fetcher
	Logger  *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Logger: logger}
}

// Collect fetches daily bars for ticker over [start, end] and enriches them.
func (c *Collector) Collect(ctx context.Context, ticker string, start, end time.Time) (*model.Series, error) {
	c.Logger.Debug("fetching daily bars",
		zap.String("ticker", ticker),
		zap.String("source", c.Fetcher.Name()),
		zap.Time("start", start),
		zap.Time("end", end))

	raw, err := c.Fetcher.FetchDailyBars(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	c.Logger.Info("stock name found, fetched bars",
		zap.String("ticker", ticker),
		zap.Int("bars", len(raw)))

	return &model.Series{
		Ticker:    ticker,
		Source:    c.Fetcher.Name(),
		Start:     start,
		End:       end,
		Bars:      calculator.Transform(raw),
		FetchedAt: time.Now(),
	}, nil
}
