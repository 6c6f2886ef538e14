package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	httputil "github.com/lepinkainen/babble/pkg/http"
)

// ClientConfig configures the API client
type ClientConfig struct {
	// HTTPClient performs requests; normally an oauth2 client that signs them.
	HTTPClient  *http.Client
	BaseURL     string
	RateLimiter RateLimiter
	RetryPolicy *RetryPolicy
	Logger      *slog.Logger
}

// Client performs rate-limited, retried GET requests and decodes JSON responses.
type Client struct {
	client      *http.Client
	baseURL     string
	rateLimiter RateLimiter
	retryPolicy *RetryPolicy
	logger      *slog.Logger
}

// NewClient creates a new API client with the provided configuration
func NewClient(config ClientConfig) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = httputil.NewClient(nil)
	}
	if config.RateLimiter == nil {
		config.RateLimiter = NoOpRateLimiter{}
	}
	if config.RetryPolicy == nil {
		config.RetryPolicy = DefaultRetryPolicy()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		client:      config.HTTPClient,
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		rateLimiter: config.RateLimiter,
		retryPolicy: config.RetryPolicy,
		logger:      config.Logger,
	}
}

// GetJSON fetches baseURL+path with the given query and decodes the body into target.
// Failed responses are returned as *HTTPError.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	operation := func(ctx context.Context) error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		start := time.Now()
		res, err := c.client.Do(req)
		duration := time.Since(start)
		if err != nil {
			c.logAPICall(path, duration, 0, err)
			return fmt.Errorf("failed to perform GET request: %w", err)
		}

		body, err := httputil.ReadResponseBody(res)
		if err != nil {
			c.logAPICall(path, duration, res.StatusCode, err)
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if statusErr := httputil.EnsureStatusOK(res); statusErr != nil {
			httpErr := newHTTPError(res, body)
			c.logAPICall(path, duration, res.StatusCode, httpErr)
			return httpErr
		}

		c.logAPICall(path, duration, res.StatusCode, nil)
		return httputil.DecodeJSON(body, target, path)
	}

	return ExecuteWithRetry(ctx, operation, c.retryPolicy, "GET "+path)
}

// CanProceed returns true if a request can be made without rate limiting delay
func (c *Client) CanProceed() bool {
	return c.rateLimiter.CanProceed()
}

func (c *Client) logAPICall(path string, duration time.Duration, status int, err error) {
	fields := []any{
		"path", path,
		"duration", duration,
		"status", status,
	}

	if err != nil {
		c.logger.Warn("API call failed", append(fields, "error", err)...)
		return
	}
	c.logger.Debug("API call completed", fields...)
}
