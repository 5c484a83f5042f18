package jobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/remotedeck/jobboard-api/internal/listing"
	"github.com/remotedeck/jobboard-api/internal/user"
)

// Client is the HTTP Backend implementation, speaking the job-board REST
// surface on behalf of one authenticated user.
type Client struct {
	baseURL string
	token   string
	userID  string
	client  *http.Client
}

func NewClient(baseURL, token, userID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		userID:  userID,
		client:  &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

func (c *Client) UpdateJobs(ctx context.Context) error {
	var result listing.RefreshResult
	return c.do(ctx, http.MethodGet, "/api/v1/jobs/update", nil, &result)
}

func (c *Client) Jobs(ctx context.Context) ([]listing.Job, error) {
	var jobs []listing.Job
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) UserJobs(ctx context.Context) (*user.JobSets, error) {
	sets := &user.JobSets{}
	path := "/api/v1/users/jobs?userId=" + c.userID
	if err := c.do(ctx, http.MethodGet, path, nil, sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (c *Client) MarkSeen(ctx context.Context, jobID string) error {
	return c.jobAction(ctx, http.MethodPost, "/api/v1/users/see-job", jobID)
}

func (c *Client) SaveJob(ctx context.Context, jobID string) error {
	return c.jobAction(ctx, http.MethodPost, "/api/v1/users/save-job", jobID)
}

func (c *Client) RemoveSaved(ctx context.Context, jobID string) error {
	return c.jobAction(ctx, http.MethodDelete, "/api/v1/users/saved-job", jobID)
}

func (c *Client) MarkApplied(ctx context.Context, jobID string) error {
	return c.jobAction(ctx, http.MethodPost, "/api/v1/users/apply-job", jobID)
}

func (c *Client) jobAction(ctx context.Context, method, path, jobID string) error {
	body := user.JobActionRequest{UserID: c.userID, JobID: jobID}
	var ids []string
	return c.do(ctx, method, path, body, &ids)
}

// do issues one request and decodes the {message, data} envelope into out.
// Non-2xx responses surface the envelope message as the error.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = res.Body.Close() }()

	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, res.StatusCode, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
