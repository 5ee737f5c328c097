// Package transport provides the rate-limited HTTP client used for
// catalog API requests. It owns timeouts, rate limiting, and common
// headers; HTTP status handling is the caller's concern, since catalog
// APIs report application errors inside otherwise well-formed bodies.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/openfield/gleaner/pkg/constants"
	"github.com/openfield/gleaner/pkg/errors"
)

const defaultUserAgent = "gleaner/1.0"

// Config configures the transport client.
type Config struct {
	// Timeout for individual requests (default: constants.DefaultHTTPTimeout)
	Timeout time.Duration

	// RequestsPerSecond caps the request rate (default: 10)
	RequestsPerSecond float64

	// Burst is the rate limiter's bucket size (default: 5)
	Burst int

	// UserAgent identifies the client (default: "gleaner/1.0")
	UserAgent string

	// Headers added to every request
	Headers map[string]string

	// Transport allows injecting a custom HTTP transport (for tests)
	Transport http.RoundTripper
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           constants.DefaultHTTPTimeout,
		RequestsPerSecond: constants.DefaultRequestsPerSecond,
		Burst:             constants.BurstSize,
		UserAgent:         defaultUserAgent,
		Headers:           make(map[string]string),
	}
}

// Client is a rate-limited HTTP client.
type Client struct {
	config  *Config
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a new transport client. A nil config uses defaults; zero
// fields on a provided config are filled in.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = constants.DefaultHTTPTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = constants.DefaultRequestsPerSecond
	}
	if cfg.Burst == 0 {
		cfg.Burst = constants.BurstSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Client{
		config: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// Response wraps an HTTP response body read to completion.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON unmarshals the response body into the given target.
func (r *Response) JSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request against the full URL. The error return
// covers transport-level failures only; any HTTP status comes back in
// the Response for the caller to interpret.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.WrapIO("throttle", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create request", url, err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapIO("get", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read body", url, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
