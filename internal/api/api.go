package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"news-pulse/internal/logger"
)

// Client is an HTTP client with common configuration shared by the external
// collaborators (LLM classification, speech synthesis).
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	useLogging bool
}

// ClientOption configures the API client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets a default header for all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithLogging enables request/response logging
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// NewClient creates a new API client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Request represents an HTTP request configuration
type Request struct {
	Method  string
	URL     string
	Body    interface{}
	Headers map[string]string
	ctx     context.Context
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// NewRequest creates a new request
func NewRequest(method, url string) *Request {
	return &Request{
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
		ctx:     context.Background(),
	}
}

// WithContext sets the context for the request
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// WithBody sets the request body (will be JSON encoded)
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// WithHeader sets a request-specific header
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// Do executes the HTTP request
func (c *Client) Do(req *Request) (*Response, error) {
	url := req.URL
	if c.baseURL != "" {
		url = c.baseURL + req.URL
	}

	var bodyReader io.Reader
	if req.Body != nil {
		jsonBody, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(req.ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.useLogging {
		logger.Debug(req.ctx, "HTTP Request", "method", req.Method, "url", url)
	}

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.useLogging {
			logger.ErrorWithErr(req.ctx, "HTTP request failed", err, "method", req.Method, "url", url)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.useLogging {
		logger.Debug(req.ctx, "HTTP Response",
			"method", req.Method,
			"url", url,
			"status", httpResp.StatusCode,
			"duration", time.Since(startTime),
			"bodySize", len(body))
	}

	if httpResp.StatusCode >= 400 {
		if c.useLogging {
			logger.Warn(req.ctx, "HTTP error response",
				"method", req.Method,
				"url", url,
				"status", httpResp.StatusCode)
		}
		return nil, fmt.Errorf("HTTP %d: %s", httpResp.StatusCode, string(body))
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// GET performs a GET request
func (c *Client) GET(ctx context.Context, url string, headers ...map[string]string) (*Response, error) {
	req := NewRequest(http.MethodGet, url).WithContext(ctx)

	if len(headers) > 0 {
		for key, value := range headers[0] {
			req.WithHeader(key, value)
		}
	}

	return c.Do(req)
}

// POST performs a POST request
func (c *Client) POST(ctx context.Context, url string, body interface{}, headers ...map[string]string) (*Response, error) {
	req := NewRequest(http.MethodPost, url).
		WithContext(ctx).
		WithBody(body)

	if len(headers) > 0 {
		for key, value := range headers[0] {
			req.WithHeader(key, value)
		}
	}

	return c.Do(req)
}
