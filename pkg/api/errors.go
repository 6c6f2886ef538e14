// Package api provides the rate-limited, retrying JSON client used to talk to the Twitter API,
// and the classification of its failures.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Fault classes reported to callers. Wrapped errors can be matched with errors.Is.
var (
	// ErrUnauthorized means the credentials were rejected. Retrying will not help.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the requested resource (user, list) does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransient covers network failures and rate limiting.
	ErrTransient = errors.New("transient failure")
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Message    string
	// RetryAfter is how long the server asked us to wait, zero when unknown.
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code to a fault class.
func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Classify maps err to ErrUnauthorized, ErrNotFound or ErrTransient. A nil error classifies as nil.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return ErrUnauthorized
	}
	return ErrTransient
}

// IsTerminal reports whether err is a fault that retrying cannot fix.
func IsTerminal(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}

// newHTTPError builds an HTTPError from a failed response, pulling the message
// out of either the v2 problem format or the v1.1 errors array.
func newHTTPError(resp *http.Response, body []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
		RetryAfter: retryAfter(resp.Header, time.Now()),
	}
	if httpErr.Message == "" {
		httpErr.Message = http.StatusText(resp.StatusCode)
	}
	return httpErr
}

func errorMessage(body []byte) string {
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &problem) != nil {
		return strings.TrimSpace(string(body))
	}

	switch {
	case problem.Detail != "":
		return problem.Detail
	case problem.Title != "":
		return problem.Title
	case len(problem.Errors) > 0:
		return fmt.Sprintf("%s (code %d)", problem.Errors[0].Message, problem.Errors[0].Code)
	}
	return ""
}

// retryAfter reads Retry-After or the x-rate-limit-reset unix timestamp.
func retryAfter(h http.Header, now time.Time) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if v := h.Get("x-rate-limit-reset"); v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			if d := time.Unix(ts, 0).Sub(now); d > 0 {
				return d
			}
		}
	}
	return 0
}
