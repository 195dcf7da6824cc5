package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"DailyChart/internal/config"
	"DailyChart/internal/model"
)

var (
	// ErrTickerNotFound is returned when the data source does not know the symbol.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrNoData is returned when the source knows the symbol but has no bars in the range.
	ErrNoData = errors.New("no data in range")
	// ErrDataSource wraps transport, status and decoding failures.
	ErrDataSource = errors.New("data source failure")
)

// Fetcher defines the interface for fetching daily bars.
type Fetcher interface {
	// FetchDailyBars returns bars for the calendar days in [start, end], oldest first.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// New builds the fetcher selected by data_source.provider.
func New(cfg *config.Config) (Fetcher, error) {
	hc := NewHTTPClient(cfg.Proxy, time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second, cfg.DataSource.RequestsPerSecond)
	switch cfg.DataSource.Provider {
	case config.ProviderStooq, "":
		return NewStooqFetcher(hc), nil
	case config.ProviderYahoo:
		return NewYahooFetcher(hc), nil
	case config.ProviderPolygon:
		return NewPolygonFetcher(cfg.DataSource.PolygonAPIKey, hc)
	default:
		return nil, fmt.Errorf("unknown data source provider %q", cfg.DataSource.Provider)
	}
}

// dateOf truncates t to midnight of its calendar day in local time.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// finalize sorts bars chronologically and drops those outside [start, end].
func finalize(bars []model.OHLCV, start, end time.Time) ([]model.OHLCV, error) {
	from, to := dateOf(start), dateOf(end)
	kept := bars[:0]
	for _, b := range bars {
		if b.Time.Before(from) || b.Time.After(to) {
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Time.Before(kept[j].Time) })
	return kept, nil
}
