package docrender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const renderedBodyReadLimit int64 = 16 << 20

// Payload carries the document content handed to the render service.
type Payload struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

// Client talks to an external PDF render service. An unconfigured
// client reports unavailable instead of failing callers.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each render call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a render client. An empty baseURL yields a client
// whose Render always reports unavailable.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimSpace(baseURL),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Available reports whether a render endpoint is configured.
func (c *Client) Available() bool {
	return c.baseURL != ""
}

// Render produces a PDF for the payload. The boolean is false when no
// render service is configured.
func (c *Client) Render(ctx context.Context, payload Payload) ([]byte, bool, error) {
	if !c.Available() {
		return nil, false, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, true, fmt.Errorf("encoding render payload: %w", err)
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + "/render"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, true, fmt.Errorf("building render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("render request: %w", err)
	}
	defer resp.Body.Close()

	rendered, err := io.ReadAll(io.LimitReader(resp.Body, renderedBodyReadLimit))
	if err != nil {
		return nil, true, fmt.Errorf("reading render response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, true, fmt.Errorf("render request failed with status %d", resp.StatusCode)
	}

	return rendered, true, nil
}
