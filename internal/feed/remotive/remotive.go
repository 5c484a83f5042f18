// Package remotive implements a feed client for the Remotive remote-jobs API.
// The API returns the full listing set in a single GET; responses are treated
// as untrusted and a missing or non-array jobs field is a hard error so a
// broken upstream never produces a partial write downstream.
package remotive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/remotedeck/jobboard-api/internal/feed"
)

const (
	defaultBaseURL = "https://remotive.com"
	feedPath       = "/api/remote-jobs"
	defaultTimeout = 15 * time.Second
)

// Client fetches job listings from the Remotive API.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// New creates a Client with the given options applied.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{},
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithClient sets the HTTP client.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each Fetch call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Source returns the feed identifier.
func (c *Client) Source() string { return "remotive" }

type feedResponse struct {
	JobCount int             `json:"job-count"`
	Jobs     json.RawMessage `json:"jobs"`
}

// Fetch retrieves the full listing set.
func (c *Client) Fetch(ctx context.Context) ([]feed.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+feedPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned HTTP %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	var resp feedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse feed response: %w", err)
	}

	jobs := bytes.TrimSpace(resp.Jobs)
	if len(jobs) == 0 || jobs[0] != '[' {
		return nil, fmt.Errorf("invalid feed response: missing jobs array")
	}

	var listings []feed.Listing
	if err := json.Unmarshal(jobs, &listings); err != nil {
		return nil, fmt.Errorf("parse jobs array: %w", err)
	}

	return listings, nil
}
