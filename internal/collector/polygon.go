package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"DailyChart/internal/model"
)

// PolygonFetcher implements Fetcher using Polygon.io daily aggregates.
type PolygonFetcher struct {
	client *polygon.Client
	http   *HTTPClient
}

// NewPolygonFetcher creates a Polygon fetcher sharing hc's transport and rate limit.
func NewPolygonFetcher(apiKey string, hc *HTTPClient) (*PolygonFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("polygon: apiKey is required")
	}
	return &PolygonFetcher{
		client: polygon.NewWithClient(apiKey, hc.Client),
		http:   hc,
	}, nil
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func (f *PolygonFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := f.http.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrDataSource, err)
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(dateOf(start)),
		To:         models.Millis(dateOf(end)),
	}.WithAdjusted(true).WithLimit(50000)

	iter := f.client.ListAggs(ctx, params)

	var bars []model.OHLCV
	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, model.OHLCV{
			Time:   dateOf(time.Time(agg.Timestamp).UTC()),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		var apiErr *models.ErrorResponse
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("polygon %s: %w", symbol, ErrTickerNotFound)
		}
		return nil, fmt.Errorf("%w: polygon aggregates: %w", ErrDataSource, err)
	}

	bars, err := finalize(bars, start, end)
	if err != nil {
		return nil, fmt.Errorf("polygon %s: %w", symbol, err)
	}
	return bars, nil
}
