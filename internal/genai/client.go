// Package genai is an HTTP client for the remote generative-content API.
// The API is treated as a black box reachable through a single call shape;
// all response interpretation lives in the bridge layer.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gera-labs/contentcore/internal/httputil"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	defaultTimeout     = 60 * time.Second
	defaultMaxBodySize = 8 << 20 // 8MiB

	maxErrorBodyBytes = 32 << 10 // 32KiB
)

// Config configures the client.
type Config struct {
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string
	// HTTPClient executes requests. When nil, a default client with a
	// conservative timeout is used. This layer adds no timeout of its own
	// beyond the client's.
	HTTPClient *http.Client
	// MaxBodyBytes caps response bodies to prevent memory exhaustion.
	MaxBodyBytes int64
}

// Client calls the generative-content API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxBodyBytes int64
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("genai: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("genai: BaseURL scheme must be http or https")
	}
	if parsed.User != nil {
		return nil, fmt.Errorf("genai: BaseURL must not include user info")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if client.Timeout == 0 {
		client.Timeout = defaultTimeout
	}

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodySize
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   client,
		maxBodyBytes: maxBodyBytes,
	}, nil
}

// APIError is a non-2xx provider response.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("genai: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("genai: status %d", e.StatusCode)
}

// QuotaExhausted reports whether the failure is a quota/rate rejection, so a
// UI can distinguish it from a generic upstream failure.
func (e *APIError) QuotaExhausted() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Status == "RESOURCE_EXHAUSTED"
}

// GenerateContent executes one generation call. The API key travels in a
// request header, never in the URL, so it cannot leak through access logs.
func (c *Client) GenerateContent(ctx context.Context, apiKey, model string, req GenerateContentRequest) (*GenerateContentResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("genai: client is nil")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("genai: api key is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("genai: model is required")
	}
	if len(req.Contents) == 0 {
		return nil, fmt.Errorf("genai: contents are required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("genai: marshal request: %w", err)
	}

	endpoint := c.baseURL + "/v1beta/models/" + url.PathEscape(model) + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("genai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("genai: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	raw, err := httputil.ReadAllStrict(resp.Body, c.maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("genai: read response body: %w", err)
	}

	var out GenerateContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("genai: decode response: %w", err)
	}
	out.raw = raw
	return &out, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	body, truncated, readErr := httputil.ReadAllWithLimit(resp.Body, maxErrorBodyBytes)
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if readErr != nil {
		return apiErr
	}

	var wire struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && (wire.Error.Message != "" || wire.Error.Status != "") {
		apiErr.Status = wire.Error.Status
		apiErr.Message = wire.Error.Message
		return apiErr
	}

	msg := strings.TrimSpace(string(body))
	if truncated {
		msg += "...(truncated)"
	}
	apiErr.Message = msg
	return apiErr
}
