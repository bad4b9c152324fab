// Package database provides the Supabase REST integration used by UI
// collaborators for user-scoped rows (drafts, scheduled calendar items).
// The orchestration core never calls it; it exists so every shell shares one
// client.
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/gera-labs/contentcore/internal/httputil"
)

const (
	defaultTimeout = 30 * time.Second

	maxResponseBytes  = 8 << 20  // 8MiB
	maxErrorBodyBytes = 32 << 10 // 32KiB
)

// Config holds Supabase connection settings.
type Config struct {
	// URL is the project URL (e.g. https://xyz.supabase.co). Required.
	URL string
	// ServiceKey authenticates requests. Required.
	ServiceKey string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client wraps the Supabase REST API.
type Client struct {
	url        string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates a Supabase client.
func NewClient(cfg Config) (*Client, error) {
	url := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if url == "" {
		return nil, fmt.Errorf("database: URL is required")
	}
	parsed, err := neturl.Parse(url)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("database: URL must be a valid URL")
	}
	if parsed.User != nil {
		return nil, fmt.Errorf("database: URL must not include user info")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("database: service key is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if client.Timeout == 0 {
		client.Timeout = defaultTimeout
	}

	return &Client{
		url:        url,
		serviceKey: cfg.ServiceKey,
		httpClient: client,
	}, nil
}

// Error is a PostgREST error response.
type Error struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

// Error implements error.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("database: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("database: status %d", e.StatusCode)
}

// request makes an HTTP request to the Supabase REST API.
func (c *Client) request(ctx context.Context, method, table string, body any, query string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.url, table)
	if query != "" {
		url += "?" + query
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("database: marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("database: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("database: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.decodeError(resp)
	}

	respBody, err := httputil.ReadAllStrict(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("database: read response body: %w", err)
	}
	return respBody, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	body, truncated, readErr := httputil.ReadAllWithLimit(resp.Body, maxErrorBodyBytes)
	out := &Error{StatusCode: resp.StatusCode}
	if readErr != nil {
		return out
	}
	if err := json.Unmarshal(body, out); err != nil || out.Message == "" {
		msg := strings.TrimSpace(string(body))
		if truncated {
			msg += "...(truncated)"
		}
		out.Message = msg
	}
	return out
}

// DraftRecord is a free-form draft row.
type DraftRecord struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// CalendarItemRecord is a scheduled item row.
type CalendarItemRecord struct {
	ID           string  `json:"id"`
	Content      string  `json:"content"`
	Source       string  `json:"source"`
	ScheduledFor *string `json:"scheduled_for"`
	CreatedAt    string  `json:"created_at"`
}

// ListDrafts returns the user's drafts, newest first.
func (c *Client) ListDrafts(ctx context.Context, userID string) ([]DraftRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("database: user id is required")
	}
	query := "select=id,content,source,created_at&user_id=eq." + neturl.QueryEscape(userID) + "&order=created_at.desc"
	body, err := c.request(ctx, http.MethodGet, "drafts", nil, query)
	if err != nil {
		return nil, err
	}
	var out []DraftRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("database: decode drafts: %w", err)
	}
	return out, nil
}

// InsertDraft stores a manual draft for the user and returns the created row.
func (c *Client) InsertDraft(ctx context.Context, userID, content string) (*DraftRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("database: user id is required")
	}
	row := map[string]any{"user_id": userID, "content": content, "source": "manual"}
	body, err := c.request(ctx, http.MethodPost, "drafts", row, "select=id,content,source,created_at")
	if err != nil {
		return nil, err
	}
	return decodeSingle[DraftRecord](body, "draft")
}

// ListCalendarItems returns the user's scheduled items, newest first.
func (c *Client) ListCalendarItems(ctx context.Context, userID string) ([]CalendarItemRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("database: user id is required")
	}
	query := "select=id,content,source,scheduled_for,created_at&user_id=eq." + neturl.QueryEscape(userID) + "&order=created_at.desc"
	body, err := c.request(ctx, http.MethodGet, "calendar_items", nil, query)
	if err != nil {
		return nil, err
	}
	var out []CalendarItemRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("database: decode calendar items: %w", err)
	}
	return out, nil
}

// InsertCalendarItem stores a manual calendar item; scheduledFor may be empty.
func (c *Client) InsertCalendarItem(ctx context.Context, userID, content, scheduledFor string) (*CalendarItemRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("database: user id is required")
	}
	row := map[string]any{"user_id": userID, "content": content, "source": "manual"}
	if scheduledFor != "" {
		row["scheduled_for"] = scheduledFor
	} else {
		row["scheduled_for"] = nil
	}
	body, err := c.request(ctx, http.MethodPost, "calendar_items", row, "select=id,content,source,scheduled_for,created_at")
	if err != nil {
		return nil, err
	}
	return decodeSingle[CalendarItemRecord](body, "calendar item")
}

// decodeSingle unwraps the single row PostgREST returns for an insert with
// return=representation.
func decodeSingle[T any](body []byte, what string) (*T, error) {
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		// Some deployments return a bare object when Accept asks for one.
		var row T
		if err2 := json.Unmarshal(body, &row); err2 == nil {
			return &row, nil
		}
		return nil, fmt.Errorf("database: decode %s: %w", what, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("database: insert returned no %s row", what)
	}
	return &rows[0], nil
}
