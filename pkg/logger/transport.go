package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransportConfig configures outbound HTTP request logging
type TransportConfig struct {
	// SkipPaths contains paths to skip logging (e.g., health checks)
	SkipPaths []string
	// SanitizeHeaders contains headers whose values are masked
	SanitizeHeaders []string
	// LogHeaders enables logging of request headers
	LogHeaders bool
}

// LoggingTransport is an http.RoundTripper that logs outbound requests
// with timing and status
type LoggingTransport struct {
	next   http.RoundTripper
	logger *Logger
	config *TransportConfig
}

// NewLoggingTransport wraps next with request logging. A nil next uses
// http.DefaultTransport.
func NewLoggingTransport(next http.RoundTripper, log *Logger, config *TransportConfig) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if log == nil {
		log = GetDefault()
	}
	if config == nil {
		config = &TransportConfig{
			SkipPaths: []string{"/health"},
			SanitizeHeaders: []string{
				"authorization", "x-api-key", "cookie", "x-auth-token",
			},
		}
	}
	return &LoggingTransport{next: next, logger: log, config: config}
}

// RoundTrip implements http.RoundTripper
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.shouldSkip(req.URL.Path) {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request, so the
	// request ID goes on a clone.
	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-ID", requestID)
	}

	log := t.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"method":     req.Method,
		"url":        req.URL.String(),
	})
	if t.config.LogHeaders {
		log = log.WithField("headers", t.sanitizeHeaders(req.Header))
	}
	log.Debug("sending request")

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		log.WithField("duration_ms", elapsed.Milliseconds()).Error("request failed: %v", err)
		return nil, err
	}

	log = log.WithFields(map[string]interface{}{
		"status":      resp.StatusCode,
		"duration_ms": elapsed.Milliseconds(),
	})
	if resp.StatusCode >= 400 {
		log.Warn("request completed with error status")
	} else {
		log.Info("request completed")
	}
	return resp, nil
}

func (t *LoggingTransport) shouldSkip(path string) bool {
	for _, skip := range t.config.SkipPaths {
		if path == skip {
			return true
		}
	}
	return false
}

func (t *LoggingTransport) sanitizeHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		value := strings.Join(values, ", ")
		for _, sensitive := range t.config.SanitizeHeaders {
			if strings.EqualFold(name, sensitive) {
				value = "[REDACTED]"
				break
			}
		}
		out[name] = value
	}
	return out
}
