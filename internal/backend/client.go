// Package backend is the HTTP client for the shopping chat backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/shopchat/internal/domain"
)

const (
	chatPath     = "/chat"
	checkoutPath = "/checkout"

	// maxResponseBytes bounds how much of a backend body is read.
	maxResponseBytes = 4 << 20
)

// ErrNoBaseURL is returned by New when no backend URL is configured.
var ErrNoBaseURL = errors.New("backend URL is required")

// StatusError is returned when the backend answers with an error status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Backend is the contract a widget needs from the shopping service.
type Backend interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error)
}

// Config holds backend client configuration.
type Config struct {
	BaseURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls POST /chat and POST /checkout on the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements Backend.
var _ Backend = (*Client)(nil)

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// Chat sends one user message for the session.
func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	var out domain.ChatResponse
	if err := c.post(ctx, chatPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout submits payment and shipping details for the session's offer.
func (c *Client) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	var out domain.CheckoutResponse
	if err := c.post(ctx, checkoutPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	// Declines arrive as 200 with success=false; any error status is a
	// failed call even when its body is JSON.
	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: truncate(string(data), 200)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
