// Package newsapi talks to a NewsAPI compatible upstream over HTTP.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DeafMist/newsdesk/internal/models"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2"
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 4 << 20
)

// Config describes how to reach the upstream.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client issues read-only requests against the upstream.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New builds a Client. An empty APIKey is valid: HasCredential then reports false.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &loggingTransport{base: http.DefaultTransport, log: logger},
		},
		log: logger,
	}
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// TopHeadlines queries the top-headlines endpoint.
func (c *Client) TopHeadlines(ctx context.Context, q models.HeadlinesQuery) (*models.FetchResult, error) {
	params := url.Values{}
	setParam(params, "country", q.Country)
	setParam(params, "category", q.Category)
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return c.get(ctx, "/top-headlines", params)
}

// Everything queries the everything endpoint with a free-text query.
func (c *Client) Everything(ctx context.Context, q models.SearchQuery) (*models.FetchResult, error) {
	params := url.Values{}
	if q.Q != "" {
		params.Set("q", q.Q)
	}
	setParam(params, "language", q.Language)
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return c.get(ctx, "/everything", params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*models.FetchResult, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		e := statusError(resp.StatusCode, body)
		c.log.Error("upstream error",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", e.Body),
		)
		return nil, e
	}

	var result models.FetchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("decode response: %w", err)}
	}

	return &result, nil
}

func setParam(params url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		params.Set(key, value)
	}
}
