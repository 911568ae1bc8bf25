// Package client provides an HTTP API client for AI/ML analysis
// services with zero-trust security headers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const clientVersion = "1.0.0"

// Config holds configuration for the API client.
type Config struct {
	BaseURL   string        `json:"base_url"`
	Token     string        `json:"token"`
	Timeout   time.Duration `json:"timeout"`
	Retries   int           `json:"retries"`
	UserAgent string        `json:"user_agent,omitempty"`

	// Transport overrides the default transport, e.g. to add
	// request logging.
	Transport http.RoundTripper `json:"-"`
}

// APIError represents an HTTP error response from the service.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Body       string `json:"body,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// APIClient is an HTTPS client with bearer authentication and
// zero-trust headers on every request.
type APIClient struct {
	config     *Config
	httpClient *http.Client
	baseURL    string
	retryDelay time.Duration
}

// NewAPIClient creates a new API client.
func NewAPIClient(config *Config) (*APIClient, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return &APIClient{
		config:     config,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		retryDelay: time.Second,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
	}, nil
}

func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("client config is required")
	}
	if config.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if config.Token == "" {
		return fmt.Errorf("auth token is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}
	if config.Retries <= 0 {
		config.Retries = 3
	}
	if config.UserAgent == "" {
		config.UserAgent = "ai-threat-analytics-client/" + clientVersion
	}
	return nil
}

// Get sends a GET request with optional query parameters.
func (c *APIClient) Get(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	return c.makeRequest(ctx, http.MethodGet, endpoint, params, nil, result)
}

// Post sends a POST request with a JSON payload.
func (c *APIClient) Post(ctx context.Context, endpoint string, payload, result interface{}) error {
	return c.makeRequest(ctx, http.MethodPost, endpoint, nil, payload, result)
}

// Put sends a PUT request with a JSON payload.
func (c *APIClient) Put(ctx context.Context, endpoint string, payload, result interface{}) error {
	return c.makeRequest(ctx, http.MethodPut, endpoint, nil, payload, result)
}

// Delete sends a DELETE request. An empty response body is not an error.
func (c *APIClient) Delete(ctx context.Context, endpoint string, result interface{}) error {
	return c.makeRequest(ctx, http.MethodDelete, endpoint, nil, nil, result)
}

// SuggestAutofill requests autofill suggestions for a form field.
func (c *APIClient) SuggestAutofill(ctx context.Context, field, fieldContext string) (map[string]interface{}, error) {
	payload := map[string]string{
		"field":   field,
		"context": fieldContext,
	}
	var result map[string]interface{}
	if err := c.Post(ctx, "/autofill/suggest", payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) makeRequest(ctx context.Context, method, endpoint string, params map[string]string, body, result interface{}) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	u.Path = path.Join(u.Path, endpoint)

	if len(params) > 0 {
		query := u.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		u.RawQuery = query.Encode()
	}

	var bodyData []byte
	if body != nil {
		bodyData, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	// Retry with exponential backoff on transport errors and 5xx.
	var resp *http.Response
	delay := c.retryDelay
	for attempt := 0; attempt <= c.config.Retries; attempt++ {
		var bodyReader io.Reader
		if bodyData != nil {
			bodyReader = bytes.NewReader(bodyData)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
		if reqErr != nil {
			return reqErr
		}
		c.setHeaders(req)

		resp, err = c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			break
		}
		if attempt < c.config.Retries {
			// Another attempt follows. The final response stays open
			// so its status and body reach the caller.
			if resp != nil {
				resp.Body.Close()
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

func (c *APIClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Zero-Trust", "enabled")
	req.Header.Set("X-Client-Version", clientVersion)
}

func (c *APIClient) errorFromResponse(statusCode int, body []byte) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Body:       string(body),
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Error != "" {
			apiErr.Message = parsed.Error
		} else if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
	}
	return apiErr
}
