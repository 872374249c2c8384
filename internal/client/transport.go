// ABOUTME: Request logging round tripper for outbound API calls.
// ABOUTME: Logs request start/end with a correlation ID, method, path, status, and latency.

package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// LoggingTransport wraps a RoundTripper and logs every request
type LoggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport wraps next; nil uses http.DefaultTransport
func NewLoggingTransport(next http.RoundTripper) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next}
}

// WithLogger sets the logger; by default slog.Default() is used at request time
func (t *LoggingTransport) WithLogger(logger *slog.Logger) *LoggingTransport {
	t.logger = logger
	return t
}

// RoundTrip implements http.RoundTripper
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := t.logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	requestID := uuid.NewString()

	logger.Debug("Request started",
		"request_id", requestID,
		"method", req.Method,
		"path", req.URL.Path,
	)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		logger.Debug("Request failed",
			"request_id", requestID,
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Debug("Request completed",
		"request_id", requestID,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}
