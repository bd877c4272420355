// Package newsletter is a Go client for the newsletter subscription API.
package newsletter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds the configuration for the newsletter client.
type Config struct {
	// BaseURL is the root URL of the newsletter service.
	// Example: "https://news.example.com"
	BaseURL string

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client with 10s timeout is used.
	HTTPClient *http.Client
}

func (c *Config) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Client calls the newsletter service.
type Client struct {
	cfg Config
}

// NewClient creates a new newsletter client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// Subscribe registers name and email with the newsletter. The service
// answers with an empty body, so only the status is interpreted:
// ErrRejected for invalid input, ErrRateLimited when throttled and an
// *APIError for everything else that is not a success.
func (c *Client) Subscribe(ctx context.Context, name, email string) error {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/subscriptions", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("newsletter: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// HealthCheck returns nil when the service answers its liveness probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health_check", nil)
	if err != nil {
		return fmt.Errorf("newsletter: failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("newsletter: request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return parseAPIError(resp)
}
