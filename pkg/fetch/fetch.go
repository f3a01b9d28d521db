// Package fetch retrieves auxiliary JSON documents from a file or URL.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// maxBody bounds how much of a response is read.
const maxBody = 4 * 1024 * 1024

// Client fetches documents over HTTP or from disk.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new fetch client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// Options configures a fetch.
type Options struct {
	// Source is an http(s) URL or a file path.
	Source  string
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a fetch.
type Response struct {
	Source     string
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Error      error
}

// Success returns true if the document was read (2xx status for URLs).
func (r *Response) Success() bool {
	return r.Error == nil && (r.StatusCode == 0 || (r.StatusCode >= 200 && r.StatusCode < 300))
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if r.Error != nil {
		return r.Error
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", r.Source, err)
	}
	return nil
}

// IsURL reports whether source should be fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Get reads the document at opts.Source. Errors are reported on the Response.
func (c *Client) Get(ctx context.Context, opts Options) *Response {
	start := time.Now()
	resp := &Response{Source: opts.Source}

	if !IsURL(opts.Source) {
		body, err := os.ReadFile(opts.Source) // #nosec G304 -- user-provided path is expected
		if err != nil {
			resp.Error = fmt.Errorf("reading %s: %w", opts.Source, err)
		}
		resp.Body = body
		resp.Duration = time.Since(start)
		return resp
	}

	// Apply timeout
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.Source, nil)
	if err != nil {
		resp.Error = fmt.Errorf("failed to create request: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "commitlens")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		resp.Error = fmt.Errorf("request failed: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBody))
	if err != nil {
		resp.Error = fmt.Errorf("failed to read response: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = body
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("%s returned status %d", opts.Source, resp.StatusCode)
	}

	return resp
}
