package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestHTTPError_Unwrap(t *testing.T) {
	tests := []struct {
		status       int
		unauthorized bool
		notFound     bool
	}{
		{status: http.StatusUnauthorized, unauthorized: true},
		{status: http.StatusForbidden, unauthorized: true},
		{status: http.StatusNotFound, notFound: true},
		{status: http.StatusTooManyRequests},
		{status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			err := error(&HTTPError{StatusCode: tt.status})
			if got := errors.Is(err, ErrUnauthorized); got != tt.unauthorized {
				t.Errorf("errors.Is(ErrUnauthorized) = %v, want %v", got, tt.unauthorized)
			}
			if got := errors.Is(err, ErrNotFound); got != tt.notFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", got, tt.notFound)
			}
			if got := IsTerminal(err); got != (tt.unauthorized || tt.notFound) {
				t.Errorf("IsTerminal() = %v", got)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "v2 problem detail", body: `{"title":"Unauthorized","detail":"Unauthorized","status":401}`, want: "Unauthorized"},
		{name: "v2 problem title only", body: `{"title":"Too Many Requests"}`, want: "Too Many Requests"},
		{name: "v1.1 errors array", body: `{"errors":[{"code":89,"message":"Invalid or expired token."}]}`, want: "Invalid or expired token. (code 89)"},
		{name: "plain text body", body: "upstream connect error\n", want: "upstream connect error"},
		{name: "empty object", body: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	h := http.Header{}
	h.Set("Retry-After", "7")
	if got := retryAfter(h, now); got != 7*time.Second {
		t.Errorf("Retry-After = %v, want 7s", got)
	}

	h = http.Header{}
	h.Set("x-rate-limit-reset", strconv.FormatInt(now.Add(90*time.Second).Unix(), 10))
	if got := retryAfter(h, now); got != 90*time.Second {
		t.Errorf("x-rate-limit-reset = %v, want 90s", got)
	}

	h = http.Header{}
	h.Set("x-rate-limit-reset", strconv.FormatInt(now.Add(-time.Minute).Unix(), 10))
	if got := retryAfter(h, now); got != 0 {
		t.Errorf("past reset = %v, want 0", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "forbidden", err: fmt.Errorf("fetch: %w", &HTTPError{StatusCode: http.StatusForbidden}), want: ErrUnauthorized},
		{name: "missing list", err: &HTTPError{StatusCode: http.StatusNotFound}, want: ErrNotFound},
		{name: "rate limited", err: &HTTPError{StatusCode: http.StatusTooManyRequests}, want: ErrTransient},
		{name: "token refresh rejected", err: &oauth2.RetrieveError{}, want: ErrUnauthorized},
		{name: "network", err: errors.New("connection reset"), want: ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
