// Package assistant implements a minimal client for the OpenAI
// Assistants v2 API: append a message to a long-lived thread, start a
// run, poll it to completion, and read the newest reply.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhijeet/cadence/internal/apperr"
)

const defaultBaseURL = "https://api.openai.com/v1"

// FailureSentinel is returned as the result text when a run ends in a
// terminal non-success status. Callers historically treated it as plan
// content; Result.Failed lets them tell the difference.
const FailureSentinel = "Assistant run failed."

// Result is the outcome of one assistant run.
type Result struct {
	Text   string
	Failed bool
}

// Runner is the surface the planner depends on. *Client is the real
// implementation; tests substitute a stub.
type Runner interface {
	RunAndWait(ctx context.Context, message string) (Result, error)
	AddMessage(ctx context.Context, content string) error
}

// Client talks to one fixed assistant/thread pair.
type Client struct {
	apiKey      string
	assistantID string
	threadID    string
	baseURL     string
	httpClient  *http.Client

	pollInterval time.Duration
	pollTimeout  time.Duration
}

var _ Runner = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithPolling sets the run poll interval and overall deadline.
func WithPolling(interval, timeout time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if timeout > 0 {
			c.pollTimeout = timeout
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client bound to the given assistant and thread.
func NewClient(apiKey, assistantID, threadID string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		assistantID:  assistantID,
		threadID:     threadID,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{},
		pollInterval: time.Second,
		pollTimeout:  2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

type runObject struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// AddMessage appends a user message to the thread.
func (c *Client) AddMessage(ctx context.Context, content string) error {
	body := map[string]string{"role": "user", "content": content}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/threads/%s/messages", c.threadID), body, nil)
}

// createRun starts an asynchronous run of the assistant against the thread.
func (c *Client) createRun(ctx context.Context) (string, error) {
	var run runObject
	body := map[string]string{"assistant_id": c.assistantID}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/threads/%s/runs", c.threadID), body, &run); err != nil {
		return "", err
	}
	return run.ID, nil
}

// retrieveRun polls the status of a run.
func (c *Client) retrieveRun(ctx context.Context, runID string) (string, error) {
	var run runObject
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/threads/%s/runs/%s", c.threadID, runID), nil, &run); err != nil {
		return "", err
	}
	return run.Status, nil
}

// latestMessage reads the first text content block of the newest message
// on the thread.
func (c *Client) latestMessage(ctx context.Context) (string, error) {
	var list messageList
	path := fmt.Sprintf("/threads/%s/messages?order=desc&limit=1", c.threadID)
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return "", err
	}
	if len(list.Data) == 0 || len(list.Data[0].Content) == 0 {
		return "", fmt.Errorf("assistant: thread %s has no readable message", c.threadID)
	}
	return list.Data[0].Content[0].Text.Value, nil
}

// RunAndWait appends message to the thread, starts a run, and polls until
// the run reaches a terminal status or the poll deadline passes.
//
// A completed run yields the newest assistant message, trimmed. A run
// ending in failed/cancelled/expired yields FailureSentinel with
// Failed=true and no error. Exceeding the deadline yields
// apperr.ErrRunTimeout.
func (c *Client) RunAndWait(ctx context.Context, message string) (Result, error) {
	if err := c.AddMessage(ctx, message); err != nil {
		return Result{}, err
	}
	runID, err := c.createRun(ctx)
	if err != nil {
		return Result{}, err
	}

	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.retrieveRun(ctx, runID)
		if err != nil {
			return Result{}, err
		}
		switch status {
		case "completed":
			text, err := c.latestMessage(ctx)
			if err != nil {
				return Result{}, err
			}
			return Result{Text: strings.TrimSpace(text)}, nil
		case "failed", "cancelled", "expired":
			return Result{Text: FailureSentinel, Failed: true}, nil
		}

		if time.Now().After(deadline) {
			return Result{}, fmt.Errorf("assistant: run %s still %s after %s: %w",
				runID, status, c.pollTimeout, apperr.ErrRunTimeout)
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// do performs one API request with auth and beta headers, decoding the
// response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("assistant: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assistant: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("assistant: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("assistant: %s %s: %s (status %d)", method, path, apiErr.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("assistant: %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("assistant: decode response: %w", err)
		}
	}
	return nil
}
