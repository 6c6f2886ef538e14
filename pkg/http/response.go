package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxBodySize bounds how much of a response body is read into memory.
const maxBodySize = 8 << 20

// ReadResponseBody reads and closes HTTP response body
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Error("Failed to close response body", "error", closeErr)
		}
	}()
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

// DecodeJSON decodes a JSON body into target, naming the payload in the error.
func DecodeJSON(body []byte, target any, what string) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return nil
}

// EnsureStatusOK checks if the response status is 200 OK
func EnsureStatusOK(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, resp.Status)
	}
	return nil
}
