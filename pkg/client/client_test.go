package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method  string
	Path    string
	Query   string
	Body    string
	Headers http.Header
}

type mockAPIServer struct {
	server   *httptest.Server
	requests []recordedRequest
	failures int
	mu       sync.Mutex
}

func newMockAPIServer() *mockAPIServer {
	mock := &mockAPIServer{}
	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, recordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.RawQuery,
			Body:    string(body),
			Headers: r.Header.Clone(),
		})
		remaining := mock.failures
		if remaining > 0 {
			mock.failures--
		}
		mock.mu.Unlock()

		if remaining > 0 {
			http.Error(w, `{"error": "temporarily unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		switch r.URL.Path {
		case "/missing":
			http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "ok",
				"path":   r.URL.Path,
			})
		}
	}))
	return mock
}

func (m *mockAPIServer) lastRequest() recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

func (m *mockAPIServer) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func newTestClient(t *testing.T, baseURL string, retries int) *APIClient {
	t.Helper()
	c, err := NewAPIClient(&Config{
		BaseURL: baseURL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
		Retries: retries,
	})
	require.NoError(t, err)
	c.retryDelay = time.Millisecond
	return c
}

func TestNewAPIClient_Validation(t *testing.T) {
	_, err := NewAPIClient(&Config{Token: "t"})
	assert.Error(t, err, "missing base URL should fail")

	_, err = NewAPIClient(&Config{BaseURL: "http://localhost"})
	assert.Error(t, err, "missing token should fail")

	_, err = NewAPIClient(nil)
	assert.Error(t, err)

	c, err := NewAPIClient(&Config{BaseURL: "http://localhost/", Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost", c.baseURL)
	assert.Equal(t, 20*time.Second, c.config.Timeout)
	assert.Equal(t, 3, c.config.Retries)

	c, err = NewAPIClient(&Config{BaseURL: "http://localhost", Token: "t", Retries: -1})
	require.NoError(t, err)
	assert.Equal(t, 3, c.config.Retries, "negative retries fall back to the default")
}

func TestAPIClient_ZeroTrustHeaders(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()

	c := newTestClient(t, mock.server.URL, 0)
	var result map[string]interface{}
	require.NoError(t, c.Get(context.Background(), "/health", nil, &result))

	req := mock.lastRequest()
	assert.Equal(t, "Bearer test-token", req.Headers.Get("Authorization"))
	assert.Equal(t, "enabled", req.Headers.Get("X-Zero-Trust"))
	assert.Equal(t, clientVersion, req.Headers.Get("X-Client-Version"))
	assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))
}

func TestAPIClient_Get(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()

	c := newTestClient(t, mock.server.URL, 0)
	var result map[string]interface{}
	err := c.Get(context.Background(), "/threats", map[string]string{"severity": "high"}, &result)
	require.NoError(t, err)

	req := mock.lastRequest()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/threats", req.Path)
	assert.Equal(t, "severity=high", req.Query)
	assert.Equal(t, "ok", result["status"])
}

func TestAPIClient_Post(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()

	c := newTestClient(t, mock.server.URL, 0)
	var result map[string]interface{}
	payload := map[string]string{"text": "click here to claim prize"}
	require.NoError(t, c.Post(context.Background(), "/classify", payload, &result))

	req := mock.lastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.JSONEq(t, `{"text": "click here to claim prize"}`, req.Body)
}

func TestAPIClient_Delete_EmptyBody(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()

	c := newTestClient(t, mock.server.URL, 0)
	err := c.Delete(context.Background(), "/empty", nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, mock.lastRequest().Method)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()

	c := newTestClient(t, mock.server.URL, 0)
	err := c.Get(context.Background(), "/missing", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "not found", apiErr.Message)
}

func TestAPIClient_RetriesOnServerError(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()
	mock.failures = 2

	c := newTestClient(t, mock.server.URL, 3)
	var result map[string]interface{}
	err := c.Get(context.Background(), "/health", nil, &result)
	require.NoError(t, err)
	assert.Equal(t, 3, mock.requestCount(), "two failures then success")
}

func TestAPIClient_RetriesExhausted(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()
	mock.failures = 10

	c := newTestClient(t, mock.server.URL, 1)
	err := c.Get(context.Background(), "/health", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T: %v", err, err)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "temporarily unavailable", apiErr.Message,
		"last response body must still be readable after the retry loop")
	assert.Equal(t, 2, mock.requestCount())
}

func TestAPIClient_SuggestAutofill(t *testing.T) {
	mock := newMockAPIServer()
	defer mock.server.Close()

	c := newTestClient(t, mock.server.URL, 0)
	result, err := c.SuggestAutofill(context.Background(), "email", "analyst")
	require.NoError(t, err)
	assert.Equal(t, "ok", result["status"])

	req := mock.lastRequest()
	assert.Equal(t, "/autofill/suggest", req.Path)
	assert.JSONEq(t, `{"field": "email", "context": "analyst"}`, req.Body)
}
