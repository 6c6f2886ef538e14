package http

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestReadResponseBody(t *testing.T) {
	body, err := ReadResponseBody(newResponse(http.StatusOK, "hello"))
	if err != nil {
		t.Fatalf("ReadResponseBody() error = %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("body = %q", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}
	if err := DecodeJSON([]byte(`{"name":"babble"}`), &target, "test"); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if target.Name != "babble" {
		t.Errorf("Name = %q", target.Name)
	}

	err := DecodeJSON([]byte(`{`), &target, "timeline")
	if err == nil || !strings.Contains(err.Error(), "timeline") {
		t.Errorf("DecodeJSON() error = %v, want error naming the payload", err)
	}
}

func TestEnsureStatusOK(t *testing.T) {
	if err := EnsureStatusOK(newResponse(http.StatusOK, "")); err != nil {
		t.Errorf("EnsureStatusOK(200) = %v", err)
	}
	if err := EnsureStatusOK(newResponse(http.StatusNotFound, "")); err == nil {
		t.Error("EnsureStatusOK(404) = nil, want error")
	}
}
