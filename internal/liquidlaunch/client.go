// Package liquidlaunch is the HTTP client for the LiquidLaunch token API.
// The raw payload is normalized into domain.Token at this boundary; nothing
// downstream touches the wire shapes.
package liquidlaunch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// Client issues requests against the token listing API.
type Client struct {
	baseURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new token API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query is the token listing query surface.
type Query struct {
	Page                int
	Limit               int
	Search              string
	SortKey             string // age | latestActivity | volume | marketCap
	SortOrder           string // asc | desc
	Timeframe           string // e.g. 24h
	View                string // in_progress | bonded
	MinHolderCount      int
	MarketCapMin        int
	MarketCapMax        int
	ProgressMin         int
	ProgressMax         int
	FilterByHolderCount bool
}

// DefaultQuery returns the listing query used by the dashboard surfaces.
func DefaultQuery() Query {
	return Query{
		Page:         1,
		Limit:        100,
		SortKey:      "age",
		SortOrder:    "desc",
		Timeframe:    "24h",
		View:         "in_progress",
		MarketCapMax: 1_000_000,
		ProgressMax:  100,
	}
}

// values encodes the query as the API's query string.
func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("search", q.Search)
	v.Set("sortKey", q.SortKey)
	v.Set("sortOrder", q.SortOrder)
	v.Set("timeframe", q.Timeframe)
	v.Set("view", q.View)
	if q.MinHolderCount > 0 {
		v.Set("minHolderCount", strconv.Itoa(q.MinHolderCount))
	}
	v.Set("marketCapMin", strconv.Itoa(q.MarketCapMin))
	v.Set("marketCapMax", strconv.Itoa(q.MarketCapMax))
	v.Set("progressMin", strconv.Itoa(q.ProgressMin))
	v.Set("progressMax", strconv.Itoa(q.ProgressMax))
	v.Set("filterByHolderCount", strconv.FormatBool(q.FilterByHolderCount))
	return v
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// ListTokens fetches one page of the token listing.
func (c *Client) ListTokens(ctx context.Context, q Query) (*domain.TokenPage, error) {
	u := c.baseURL + "/api/tokens?" + q.values().Encode()

	var resp listResponse
	if err := c.get(ctx, "list_tokens", u, &resp); err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	page := &domain.TokenPage{TotalCount: resp.TotalCount}
	for _, raw := range resp.Tokens {
		page.Tokens = append(page.Tokens, c.normalize(raw))
	}
	return page, nil
}

// TokenStats fetches the detail object for a single token.
func (c *Client) TokenStats(ctx context.Context, address string) (*domain.Token, error) {
	u := c.baseURL + "/api/tokens/stats?address=" + url.QueryEscape(address)

	var raw rawToken
	if err := c.get(ctx, "token_stats", u, &raw); err != nil {
		return nil, fmt.Errorf("token stats: %w", err)
	}
	if raw.Address == "" {
		raw.Address = address
	}

	token := c.normalize(raw)
	return &token, nil
}

// get performs a GET with retries and exponential backoff, recording the
// round trip per endpoint.
func (c *Client) get(ctx context.Context, endpoint, u string, result any) error {
	start := time.Now()
	err := c.do(ctx, u, result)
	observability.RecordAPIRequest(endpoint, time.Since(start).Seconds(), err)
	return err
}

// do runs the retry loop. Transport errors and 5xx responses are retried;
// 4xx responses fail immediately.
func (c *Client) do(ctx context.Context, u string, result any) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &StatusError{Code: resp.StatusCode, URL: u}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &StatusError{Code: resp.StatusCode, URL: u}
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("all %d attempts failed: %w", c.maxRetries+1, lastErr)
}
