package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

// Client manages making HTTP requests to the subtitle host.
// Every call is a single attempt; the response body is read fully into
// memory before it is returned.
type Client struct {
	userAgent  string
	httpClient *http.Client
}

// New creates a new internal HTTP client.
func New(userAgent string) *Client {
	return &Client{
		userAgent:  userAgent,
		httpClient: &http.Client{}, // Use default client, customize if needed (timeout, transport)
	}
}

// GetPage fetches a URL and returns the response body as text.
func (c *Client) GetPage(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetBytes fetches a URL and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreerrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", coreerrors.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for %s", coreerrors.ErrNetwork, resp.StatusCode, url)
	}

	return body, nil
}
