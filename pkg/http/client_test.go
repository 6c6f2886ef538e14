package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", config.Timeout)
	}
	if config.UserAgent != "babble/1.0" {
		t.Errorf("UserAgent = %q", config.UserAgent)
	}
	if config.Headers["Accept"] != "application/json" {
		t.Errorf("Accept header = %q", config.Headers["Accept"])
	}
}

func TestNewClientSetsHeaders(t *testing.T) {
	var gotUA, gotAccept, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotCustom = r.Header.Get("X-Custom")
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{
		Timeout:   time.Second,
		UserAgent: "test-agent/1.0",
		Headers:   map[string]string{"Accept": "application/json", "X-Custom": "default"},
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Custom", "explicit")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()

	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotCustom != "explicit" {
		t.Errorf("X-Custom = %q, request header should win over defaults", gotCustom)
	}
	if req.Header.Get("User-Agent") != "" {
		t.Error("transport modified the caller's request")
	}
}

func TestNewClientNilConfig(t *testing.T) {
	client := NewClient(nil)
	if client.Timeout != DefaultConfig().Timeout {
		t.Errorf("Timeout = %v, want default", client.Timeout)
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{http.StatusOK, false},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusHTTPVersionNotSupported, false},
	}

	for _, tt := range tests {
		if got := IsRetryableStatusCode(tt.statusCode); got != tt.expected {
			t.Errorf("IsRetryableStatusCode(%d) = %v, want %v", tt.statusCode, got, tt.expected)
		}
	}
}
