package collector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"DailyChart/internal/model"
)

const (
	stooqBaseURL    = "https://stooq.com"
	stooqDateLayout = "2006-01-02"
	stooqNoData     = "No data"
)

// StooqFetcher implements Fetcher using the stooq.com CSV download endpoint.
type StooqFetcher struct {
	BaseURL string
	HTTP    *HTTPClient
	// Country is appended to bare tickers; stooq lists US equities as "aapl.us".
	Country string
}

// NewStooqFetcher creates a new stooq fetcher for US listings.
func NewStooqFetcher(hc *HTTPClient) *StooqFetcher {
	return &StooqFetcher{BaseURL: stooqBaseURL, HTTP: hc, Country: "us"}
}

func (f *StooqFetcher) Name() string { return "stooq" }

// stooqRow is one line of the stooq daily CSV. Index symbols have no Volume column.
type stooqRow struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume float64 `csv:"Volume"`
}

func (f *StooqFetcher) stooqSymbol(symbol string) string {
	s := strings.ToLower(symbol)
	if strings.HasPrefix(s, "^") || strings.Contains(s, ".") || f.Country == "" {
		return s
	}
	return s + "." + f.Country
}

func (f *StooqFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	params := url.Values{}
	params.Set("s", f.stooqSymbol(symbol))
	params.Set("i", "d")
	params.Set("d1", start.Format("20060102"))
	params.Set("d2", end.Format("20060102"))
	u := fmt.Sprintf("%s/q/d/l/?%s", f.BaseURL, params.Encode())

	body, status, err := f.HTTP.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: stooq: status %d", ErrDataSource, status)
	}

	body = bytes.TrimSpace(body)
	if string(body) == stooqNoData {
		return nil, fmt.Errorf("stooq %s: %w", symbol, ErrTickerNotFound)
	}
	if !bytes.HasPrefix(body, []byte("Date,")) {
		return nil, fmt.Errorf("%w: stooq: unexpected response: %.80s", ErrDataSource, body)
	}

	var rows []stooqRow
	if err := gocsv.UnmarshalBytes(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: stooq decode: %w", ErrDataSource, err)
	}

	bars := make([]model.OHLCV, 0, len(rows))
	for _, r := range rows {
		day, err := time.ParseInLocation(stooqDateLayout, r.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: stooq date %q: %w", ErrDataSource, r.Date, err)
		}
		bars = append(bars, model.OHLCV{
			Time:   day,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	bars, err = finalize(bars, start, end)
	if err != nil {
		return nil, fmt.Errorf("stooq %s: %w", symbol, err)
	}
	return bars, nil
}
