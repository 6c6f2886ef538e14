// Package http builds the base HTTP client used for Twitter API and OAuth traffic.
package http

import (
	"net/http"
	"time"
)

// ClientConfig represents HTTP client configuration
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultConfig returns default HTTP client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:   30 * time.Second,
		UserAgent: "babble/1.0",
		Headers:   map[string]string{"Accept": "application/json"},
	}
}

// NewClient creates an HTTP client that sets the configured User-Agent and
// default headers on every request.
func NewClient(config *ClientConfig) *http.Client {
	if config == nil {
		config = DefaultConfig()
	}

	return &http.Client{
		Timeout: config.Timeout,
		Transport: &headerTransport{
			base:      http.DefaultTransport,
			userAgent: config.UserAgent,
			headers:   config.Headers,
		},
	}
}

// headerTransport decorates outgoing requests with default headers.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())

	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	for key, value := range t.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	return t.base.RoundTrip(req)
}

// IsRetryableStatusCode determines if an HTTP status code should be retried
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
