package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// HTTPTestClient wraps http.Client with test helpers
type HTTPTestClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewHTTPTestClient creates a new test HTTP client
func NewHTTPTestClient(baseURL, token string) *HTTPTestClient {
	return &HTTPTestClient{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{},
	}
}

// POST makes a POST request with JSON body
func (c *HTTPTestClient) POST(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return c.do(t, "POST", path, body)
}

// GET makes a GET request
func (c *HTTPTestClient) GET(t *testing.T, path string) *http.Response {
	t.Helper()
	return c.do(t, "GET", path, nil)
}

// PUT makes a PUT request with JSON body
func (c *HTTPTestClient) PUT(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return c.do(t, "PUT", path, body)
}

// DELETE makes a DELETE request
func (c *HTTPTestClient) DELETE(t *testing.T, path string) *http.Response {
	t.Helper()
	return c.do(t, "DELETE", path, nil)
}

func (c *HTTPTestClient) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	return resp
}

// DecodeJSON decodes a response body into the given value and closes it.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}
