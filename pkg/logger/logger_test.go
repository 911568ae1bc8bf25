package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(level LogLevel, format LogFormat) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{
		Level:   level,
		Format:  format,
		Output:  buf,
		Service: "test-service",
		Version: "0.1.0",
	})
	return log, buf
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"Warning": WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"bogus":   InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, buf := newBufferLogger(WarnLevel, JSONFormat)

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("visible warning")
	log.Error("visible error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "visible warning") {
		t.Errorf("First line should be the warning: %q", lines[0])
	}
}

func TestLogger_JSONEntry(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel, JSONFormat)

	log.WithField("check", "anomaly-scoring").Info("check passed")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" || entry.Message != "check passed" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.Service != "test-service" {
		t.Errorf("Expected service name, got %q", entry.Service)
	}
	if entry.Check != "anomaly-scoring" {
		t.Errorf("Check field should map to its dedicated slot, got %q", entry.Check)
	}
}

func TestLogger_WithContext(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel, JSONFormat)

	ctx := context.WithValue(context.Background(), "run_id", "run-42")
	log.WithContext(ctx).Info("run started")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}
	if entry.RunID != "run-42" {
		t.Errorf("Expected run_id carried from context, got %q", entry.RunID)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel, TextFormat)

	log.WithField("count", 3).Info("processed batch")

	line := buf.String()
	if !strings.Contains(line, "[INFO]") || !strings.Contains(line, "processed batch") {
		t.Errorf("Unexpected text line: %q", line)
	}
	if !strings.Contains(line, "count=3") {
		t.Errorf("Fields should render as key=value: %q", line)
	}
}

func TestLogger_FormatArgs(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel, TextFormat)
	log.Info("scored %d observations", 8)
	if !strings.Contains(buf.String(), "scored 8 observations") {
		t.Errorf("Printf args should be applied: %q", buf.String())
	}
}

func TestLoggingTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Transport should inject X-Request-ID")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	log, buf := newBufferLogger(DebugLevel, JSONFormat)
	client := &http.Client{Transport: NewLoggingTransport(nil, log, nil)}

	resp, err := client.Get(server.URL + "/classify")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if !strings.Contains(buf.String(), "request completed") {
		t.Errorf("Expected completion log, got %q", buf.String())
	}
}

func TestLoggingTransport_DoesNotModifyRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	log, _ := newBufferLogger(DebugLevel, JSONFormat)
	transport := NewLoggingTransport(nil, log, nil)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/classify", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if got := req.Header.Get("X-Request-ID"); got != "" {
		t.Errorf("Caller's request was modified, X-Request-ID = %q", got)
	}
}

func TestLoggingTransport_SkipPaths(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	log, buf := newBufferLogger(DebugLevel, JSONFormat)
	client := &http.Client{Transport: NewLoggingTransport(nil, log, nil)}

	resp, err := client.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if buf.Len() != 0 {
		t.Errorf("Health checks should not be logged, got %q", buf.String())
	}
}

func TestLoggingTransport_SanitizeHeaders(t *testing.T) {
	transport := NewLoggingTransport(nil, nil, nil)

	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("Content-Type", "application/json")

	sanitized := transport.sanitizeHeaders(headers)
	if sanitized["Authorization"] != "[REDACTED]" {
		t.Errorf("Authorization should be masked, got %q", sanitized["Authorization"])
	}
	if sanitized["Content-Type"] != "application/json" {
		t.Errorf("Non-sensitive headers should pass through, got %q", sanitized["Content-Type"])
	}
}
