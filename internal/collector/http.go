package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClient is the HTTP transport shared by the REST fetchers.
type HTTPClient struct {
	Client    *http.Client
	Limiter   *rate.Limiter
	UserAgent string
}

// NewHTTPClient creates a client with optional proxy support and a request rate limit.
func NewHTTPClient(proxyURL string, timeout time.Duration, requestsPerSecond float64) *HTTPClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &HTTPClient{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Limiter:   rate.NewLimiter(limit, 1),
		UserAgent: "Mozilla/5.0",
	}
}

// Get performs a GET and returns the body and status code.
// Only transport failures are returned as errors; callers interpret the status.
func (c *HTTPClient) Get(ctx context.Context, u string) ([]byte, int, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("%w: rate limiter: %w", ErrDataSource, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request: %w", ErrDataSource, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDataSource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read body: %w", ErrDataSource, err)
	}
	return body, resp.StatusCode, nil
}
