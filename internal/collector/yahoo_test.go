package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yahooChartJSON = `{"chart":{"result":[{
	"meta":{"symbol":"AAPL","gmtoffset":-18000},
	"timestamp":[1673015400,1672929000,1673274600],
	"indicators":{"quote":[{
		"open":[126.01,130.28,null],
		"high":[130.29,130.90,null],
		"low":[124.89,124.17,null],
		"close":[129.62,125.02,null],
		"volume":[87754700,80962700,null]
	}]}
}],"error":null}}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewYahooFetcher(NewHTTPClient("", 5*time.Second, 0))
	f.BaseURL = srv.URL
	return f
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(yahooChartJSON))
	})

	start := time.Date(2023, 1, 5, 0, 0, 0, 0, time.Local)
	end := time.Date(2023, 1, 9, 0, 0, 0, 0, time.Local)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", start, end)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, []string{"1d"}, gotQuery["interval"])

	require.Len(t, bars, 2, "null rows must be skipped")
	assert.Equal(t, time.Date(2023, 1, 5, 0, 0, 0, 0, time.Local), bars[0].Time)
	assert.Equal(t, 130.28, bars[0].Open)
	assert.Equal(t, 125.02, bars[0].Close)
	assert.Equal(t, time.Date(2023, 1, 6, 0, 0, 0, 0, time.Local), bars[1].Time)
	assert.Equal(t, 129.62, bars[1].Close)
	assert.Equal(t, 87754700.0, bars[1].Volume)
}

func TestYahooFetcher_SymbolAlias(t *testing.T) {
	var gotPath string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(yahooChartJSON))
	})

	_, err := f.FetchDailyBars(context.Background(), "SPX",
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.Local), time.Date(2023, 1, 9, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
}

func TestYahooFetcher_NotFound(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := f.FetchDailyBars(context.Background(), "NOPE", time.Now().AddDate(0, 0, -30), time.Now())
	assert.ErrorIs(t, err, ErrTickerNotFound)
}

func TestYahooFetcher_ServerError(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := f.FetchDailyBars(context.Background(), "AAPL", time.Now().AddDate(0, 0, -30), time.Now())
	assert.ErrorIs(t, err, ErrDataSource)
}

func TestYahooFetcher_OutsideRange(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(yahooChartJSON))
	})

	_, err := f.FetchDailyBars(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, ErrNoData)
}
