// Package client is a Go client for the task API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"task-tracker/models"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all tasks newest first. On failure the returned slice is
// empty, never nil, so callers can render it unconditionally.
func (c *Client) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks, "Failed to load tasks"); err != nil {
		return []models.Task{}, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, title string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", models.NewTask{Title: title}, &task, "Failed to add task")
	return task, err
}

func (c *Client) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	return c.update(ctx, id, patch, "Failed to update task")
}

func (c *Client) Rename(ctx context.Context, id int64, title string) (models.Task, error) {
	return c.update(ctx, id, models.TaskPatch{Title: &title}, "Failed to rename task")
}

// SetDone sets is_done only.
func (c *Client) SetDone(ctx context.Context, id int64, done bool) (models.Task, error) {
	return c.update(ctx, id, models.TaskPatch{IsDone: &done}, "Failed to update task")
}

// Toggle flips is_done of task as the caller last saw it.
func (c *Client) Toggle(ctx context.Context, task models.Task) (models.Task, error) {
	return c.SetDone(ctx, task.ID, !task.IsDone)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	var out struct {
		Deleted bool `json:"deleted"`
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, &out, "Failed to delete task")
}

func (c *Client) update(ctx context.Context, id int64, patch models.TaskPatch, fallback string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), patch, &task, fallback)
	return task, err
}

// do sends one request. Errors of any kind surface as *APIError carrying the
// payload's error message, or fallback when there is none.
func (c *Client) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("%s: %v", fallback, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fallback}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := fallback
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fallback}
		}
	}
	return nil
}
