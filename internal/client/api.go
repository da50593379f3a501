package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"go.uber.org/zap"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

// APIClient calls the REST jobs resource
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures an APIClient
type Option func(*APIClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(a *APIClient) {
		a.httpClient = c
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(a *APIClient) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:5000/api)
func New(baseURL string, opts ...Option) *APIClient {
	a := &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: CreateHTTPClient(defaultTimeout, "", false),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the API root the client talks to
func (a *APIClient) BaseURL() string {
	return a.baseURL
}

// List fetches one page of postings
func (a *APIClient) List(ctx context.Context, params models.ListParams) (*models.PageResult, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, newError(KindSetup, "list jobs", err)
	}

	var page models.PageResult
	if err := a.do(ctx, "list jobs", http.MethodGet, "/jobs?"+values.Encode(), nil, &page); err != nil {
		return nil, err
	}
	if page.Jobs == nil {
		page.Jobs = []models.Job{}
	}
	return &page, nil
}

// Get fetches a single posting
func (a *APIClient) Get(ctx context.Context, id int64) (*models.Job, error) {
	var job models.Job
	if err := a.do(ctx, "get job", http.MethodGet, fmt.Sprintf("/jobs/%d", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Create posts a new posting and returns what the server stored
func (a *APIClient) Create(ctx context.Context, input models.JobInput) (*models.Job, error) {
	return a.mutate(ctx, "create job", http.MethodPost, "/jobs", input)
}

// Update replaces the fields of an existing posting
func (a *APIClient) Update(ctx context.Context, id int64, input models.JobInput) (*models.Job, error) {
	return a.mutate(ctx, "update job", http.MethodPut, fmt.Sprintf("/jobs/%d", id), input)
}

// Delete removes a posting and returns the server's confirmation message
func (a *APIClient) Delete(ctx context.Context, id int64) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := a.do(ctx, "delete job", http.MethodDelete, fmt.Sprintf("/jobs/%d", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// FilterOptions fetches the distinct job types, locations and tags
func (a *APIClient) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	var opts models.FilterOptions
	if err := a.do(ctx, "list filters", http.MethodGet, "/jobs/filters", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// mutate handles POST/PUT, whose responses are either the posting itself or
// a {"message": ..., "job": {...}} envelope
func (a *APIClient) mutate(ctx context.Context, op, method, path string, input models.JobInput) (*models.Job, error) {
	var raw json.RawMessage
	if err := a.do(ctx, op, method, path, input, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		Message string      `json:"message"`
		Job     *models.Job `json:"job"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Job != nil {
		return envelope.Job, nil
	}

	var job models.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, newError(KindDecode, op, err)
	}
	return &job, nil
}

func (a *APIClient) do(ctx context.Context, op, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return newError(KindSetup, op, fmt.Errorf("failed to encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return newError(KindSetup, op, fmt.Errorf("failed to create request: %w", err))
	}
	for key, values := range DefaultHeaders() {
		req.Header[key] = values
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := a.logger.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", zap.Error(err))
		return newError(KindNetwork, op, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Debug("failed to close response body", zap.Error(cerr))
		}
	}()

	data, err := ReadResponseBody(resp)
	if err != nil {
		logger.Warn("failed to read response body", zap.Error(err))
		return newError(KindNetwork, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := httpError(op, resp.StatusCode, data)
		logger.Info("api returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	logger.Debug("request completed", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return newError(KindDecode, op, fmt.Errorf("failed to parse JSON response: %w", err))
	}
	return nil
}
