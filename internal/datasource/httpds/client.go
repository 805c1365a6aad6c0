// Package httpds fetches almanac pages over HTTP with bounded retry and
// exponential backoff.
//
// 5xx and 429 responses and transport errors are retried; anything else is
// returned to the caller as is. Context cancellation is honoured both during
// requests and while waiting between attempts.
package httpds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"statsetl/internal/datasource"
)

// DefaultUserAgent is sent when Config.UserAgent is empty. The almanac serves
// reduced pages to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config configures the client. Zero values get defaults:
//   - Timeout:        30s
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
//   - MaxBodyBytes:   16 MiB
//
// MaxRetries=0 means a single attempt.
type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxBodyBytes   int64
	UserAgent      string

	// Transport overrides http.DefaultTransport, mostly for tests.
	Transport http.RoundTripper
}

// Client wraps an http.Client with retry and backoff behavior.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	maxBody        int64
	userAgent      string

	// wait is injectable to make tests fast and deterministic.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a Client from Config, applying defaults for zero values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 16 << 20
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		maxBody:        cfg.MaxBodyBytes,
		userAgent:      cfg.UserAgent,
		wait:           waitContext,
	}
}

// Get issues a GET with retry. The caller must close the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if url == "" {
		return nil, fmt.Errorf("httpds: url must not be empty")
	}

	attempts := c.maxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("httpds: build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			if !isRetryableStatus(resp.StatusCode) {
				return resp, nil
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("httpds: retryable status %d from %s", resp.StatusCode, url)
		}

		if attempt+1 >= attempts {
			break
		}
		if err := c.wait(ctx, backoffDuration(c.initialBackoff, attempt, c.maxBackoff)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// StatusError is a final non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpds: GET %s: status %d", e.URL, e.Code)
}

// FetchPage returns the body of url, failing on non-2xx responses and on
// bodies larger than the configured limit.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	rc, err := c.Source(url).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(rc, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("httpds: read %s: %w", url, err)
	}
	if n > c.maxBody {
		return nil, fmt.Errorf("httpds: %s exceeds %d bytes", url, c.maxBody)
	}
	return buf.Bytes(), nil
}

// Remote is a single URL usable as a datasource.Source.
type Remote struct {
	c   *Client
	url string
}

var _ datasource.Source = (*Remote)(nil)

// Source binds url to the client.
func (c *Client) Source(url string) *Remote { return &Remote{c: c, url: url} }

// URL returns the page address.
func (r *Remote) URL() string { return r.url }

// Open fetches the page and returns its body. Non-2xx responses are
// returned as *StatusError.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.c.Get(ctx, r.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: r.url, Code: resp.StatusCode}
	}
	return resp.Body, nil
}

func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns initial*2^attempt clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return max
	}
	d := initial << attempt
	if d > max || d <= 0 {
		return max
	}
	return d
}

func waitContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
