package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options configures the HTTP client.
type Options struct {
	// Timeout for individual requests, including body reads.
	// Default: 60s
	Timeout time.Duration

	// UserAgent is sent with every request.
	// Default: "packgrab"
	UserAgent string

	// APIKey, when non-empty, is sent as the x-api-key header on every
	// request. Download CDNs ignore it; the hosting API requires it.
	APIKey string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:   60 * time.Second,
		UserAgent: "packgrab",
	}
}

// Client wraps HTTP operations shared by the API client and the
// download scheduler.
//
// Client provides:
//   - Configured User-Agent and x-api-key headers
//   - Timeout handling
//   - JSON request/response helpers
//   - Streaming download access with typed status errors
//
// Example usage:
//
//	client := NewClient(Options{APIKey: key})
//
//	// Decode a JSON endpoint
//	var payload filePayload
//	err := client.GetJSON(ctx, url, &payload)
//
//	// Stream a file body
//	body, size, err := client.Download(ctx, fileURL)
//	defer body.Close()
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions().UserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		opts: opts,
	}
}

// StatusError is returned for any non-2xx response.
//
// Use errors.As to recover it from wrapped errors and Retryable to
// decide whether the request may be reissued.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// URL is the request URL, for error text.
	URL string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.Code, http.StatusText(e.Code), e.URL)
}

// Retryable reports whether the status indicates a transient condition:
// 429 (rate limit) and all 5xx codes. Other 4xx codes are terminal.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// NotFound reports whether the status is 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// GetJSON performs a GET request and decodes the JSON response body
// into v.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 2xx (as a *StatusError)
//   - Decoding the body fails
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, v)
}

// PostJSON performs a POST request with a JSON-encoded body and decodes
// the JSON response into v.
func (c *Client) PostJSON(ctx context.Context, url string, body, v any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, v)
}

func (c *Client) doJSON(req *http.Request, v any) error {
	c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: req.URL.String()}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL, err)
	}
	return nil
}

// Download performs a GET request and returns the response body as a
// stream along with the Content-Length (-1 when unknown).
//
// The caller owns the returned body and must close it. Non-2xx
// responses are drained, closed and returned as a *StatusError.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, 0, &StatusError{Code: resp.StatusCode, URL: url}
	}

	return resp.Body, resp.ContentLength, nil
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// This is useful for checking if a local file matches the expected size
// without issuing a full GET.
//
// Returns an error if the request fails or the server doesn't return a
// Content-Length header.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{Code: resp.StatusCode, URL: url}
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if c.opts.APIKey != "" {
		req.Header.Set("x-api-key", c.opts.APIKey)
	}
}
