// Package backend is the client for the hosted backend capability:
// credential-based sessions, row-level CRUD against tenant-scoped tables,
// and object storage. The backend is consumed, not implemented, here.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the root URL of the backend service (required).
	BaseURL string

	// APIKey is the publishable API key sent with every request (required).
	APIKey string

	// HTTPClient overrides the default HTTP client (optional).
	HTTPClient *http.Client

	// TokenStore persists the session between client restarts
	// (default: in-memory).
	TokenStore TokenStore

	// Logger is the structured logger (default: slog.Default()).
	Logger *slog.Logger
}

// Client talks to the backend service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger

	Auth    *AuthClient
	Storage *StorageClient
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: BaseURL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("backend: APIKey is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.TokenStore == nil {
		cfg.TokenStore = NewMemoryTokenStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	c.Auth = newAuthClient(c, cfg.TokenStore)
	c.Storage = &StorageClient{client: c}
	return c, nil
}

// From starts a table query against the row API.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

// do issues a request with the API key and, when a session is live, the
// bearer access token. The response body is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		if raw, ok := body.([]byte); ok {
			reader = bytes.NewReader(raw)
		} else {
			buf, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("backend: encode request: %w", err)
			}
			reader = bytes.NewReader(buf)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if token := c.Auth.currentAccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}
