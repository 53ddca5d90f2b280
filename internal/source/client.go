package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ClientConfig configures the shared upstream HTTP client.
type ClientConfig struct {
	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// RateLimit requests per second against upstreams (default: 5).
	RateLimit float64

	// RateBurst maximum burst size (default: 2).
	RateBurst int

	// UserAgent string sent on every request.
	UserAgent string

	// Transport allows injecting a custom transport (for tests).
	Transport http.RoundTripper
}

// DefaultClientConfig returns a config with the defaults above.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   30 * time.Second,
		RateLimit: 5.0,
		RateBurst: 2,
		UserAgent: "econfetch/1.0",
	}
}

// Client is a rate-limited HTTP client shared by all source adapters.
// It classifies failures but never retries; retrying is the fetch
// policy's job, one layer up.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient creates a client from cfg, filling zero fields with defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 5.0
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 2
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "econfetch/1.0"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		userAgent: cfg.UserAgent,
	}
}

// Get performs a rate-limited GET and returns the body. Network errors,
// timeouts, 429 and 5xx responses come back as TransientFetchError; other
// non-2xx statuses are permanent.
func (c *Client) Get(ctx context.Context, sourceName, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientFetchError{Source: sourceName, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientFetchError{Source: sourceName, URL: url, Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &TransientFetchError{
			Source: sourceName,
			URL:    url,
			Err:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	default:
		return nil, fmt.Errorf("%s: HTTP %d from %s", sourceName, resp.StatusCode, url)
	}
}
