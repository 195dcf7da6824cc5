package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"DailyChart/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	HTTP      *HTTPClient
	SymbolMap map[string]string // maps common index names to Yahoo tickers
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(hc *HTTPClient) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		HTTP:    hc,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	// period2 is exclusive
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)),
		dateOf(start).Unix(), dateOf(end).AddDate(0, 0, 1).Unix())

	body, status, err := f.HTTP.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: yahoo: status %d, invalid json", ErrDataSource, status)
	}

	chart := gjson.GetBytes(body, "chart")
	if apiErr := chart.Get("error"); apiErr.IsObject() {
		if apiErr.Get("code").String() == "Not Found" {
			return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrTickerNotFound)
		}
		return nil, fmt.Errorf("%w: yahoo api error: %s", ErrDataSource, apiErr.Get("description").String())
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo: status %d", ErrDataSource, status)
	}

	result := chart.Get("result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	offset := result.Get("meta.gmtoffset").Int()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	timestamps := result.Get("timestamp").Array()
	bars := make([]model.OHLCV, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(opens) || i >= len(highs) || i >= len(lows) || i >= len(closes) {
			break
		}
		if opens[i].Type == gjson.Null || closes[i].Type == gjson.Null {
			continue // holidays and halted sessions come back as nulls
		}
		var volume float64
		if i < len(volumes) {
			volume = volumes[i].Float()
		}
		// shift to exchange time so the bar lands on its trading day
		day := time.Unix(ts.Int()+offset, 0).UTC()
		bars = append(bars, model.OHLCV{
			Time:   dateOf(day),
			Open:   opens[i].Float(),
			High:   highs[i].Float(),
			Low:    lows[i].Float(),
			Close:  closes[i].Float(),
			Volume: volume,
		})
	}

	bars, err = finalize(bars, start, end)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	return bars, nil
}
