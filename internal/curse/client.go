package curse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quillon/packgrab/internal/curse/dto"
	pghttp "github.com/quillon/packgrab/internal/http"
)

// DefaultBaseURL is the hosting API root.
const DefaultBaseURL = "https://api.curseforge.com/v1/"

// ErrNotFound is returned when the API reports a project or file as
// unknown (HTTP 404).
var ErrNotFound = errors.New("curse: not found")

// Options configures the API client.
type Options struct {
	// BaseURL overrides the API root. Default: DefaultBaseURL.
	// Must end with a slash.
	BaseURL string

	// MaxRetries is the number of attempts per request for transient
	// faults. Default: 3.
	MaxRetries int

	// RetryCooldown is the initial backoff in seconds. Default: 0.5.
	RetryCooldown float64

	// RetryExponent is the backoff multiplier per attempt. Default: 2.
	RetryExponent float64
}

// Client talks to the hosting API.
//
// Transport-level faults (connection errors, timeouts, 429 and 5xx
// responses) are retried with exponential backoff up to MaxRetries
// attempts before surfacing to the caller. Not-found and other 4xx
// responses surface immediately.
type Client struct {
	http *pghttp.Client
	opts Options
}

// NewClient creates an API client on top of the shared HTTP client.
// The HTTP client must have been constructed with the API key set.
func NewClient(httpClient *pghttp.Client, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.RetryCooldown <= 0 {
		opts.RetryCooldown = 0.5
	}
	if opts.RetryExponent < 1 {
		opts.RetryExponent = 2
	}

	return &Client{
		http: httpClient,
		opts: opts,
	}
}

// GetModFile looks up a single file record by (projectID, fileID).
//
// Returns ErrNotFound when the API reports the pair as unknown. Any
// other error means the lookup failed after the retry budget was
// spent; the caller classifies that as an API error for the reference.
func (c *Client) GetModFile(ctx context.Context, projectID, fileID int) (*dto.File, error) {
	url := fmt.Sprintf("%smods/%d/files/%d", c.opts.BaseURL, projectID, fileID)

	var resp dto.DataResponse[dto.File]
	if err := c.getWithRetry(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetMods fetches project metadata for a batch of project IDs via the
// POST mods endpoint. Used to put names on blocked references.
func (c *Client) GetMods(ctx context.Context, projectIDs []int) ([]dto.Mod, error) {
	url := c.opts.BaseURL + "mods"
	body := dto.GetModsRequest{ModIDs: projectIDs}

	var resp dto.DataResponse[[]dto.Mod]
	var lastErr error
	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt-1); err != nil {
				return nil, err
			}
		}
		lastErr = c.http.PostJSON(ctx, url, body, &resp)
		if lastErr == nil {
			return resp.Data, nil
		}
		if terminal, err := classify(lastErr); terminal {
			return nil, err
		}
	}
	return nil, fmt.Errorf("lookup %s: %w", url, lastErr)
}

// getWithRetry issues a GET, retrying transient faults.
func (c *Client) getWithRetry(ctx context.Context, url string, v any) error {
	var lastErr error
	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt-1); err != nil {
				return err
			}
		}
		lastErr = c.http.GetJSON(ctx, url, v)
		if lastErr == nil {
			return nil
		}
		if terminal, err := classify(lastErr); terminal {
			return err
		}
	}
	return fmt.Errorf("lookup %s: %w", url, lastErr)
}

// classify decides whether an error is terminal (no retry). Not-found
// maps to ErrNotFound; other non-retryable statuses surface as-is.
func classify(err error) (terminal bool, mapped error) {
	var statusErr *pghttp.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.NotFound() {
			return true, ErrNotFound
		}
		if !statusErr.Retryable() {
			return true, err
		}
		return false, err
	}
	// Context cancellation should not burn retries.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true, err
	}
	// Network-level errors and malformed responses are retried.
	return false, err
}

func (c *Client) backoff(ctx context.Context, tries int) error {
	delay := c.opts.RetryCooldown
	for i := 0; i < tries; i++ {
		delay *= c.opts.RetryExponent
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(delay * float64(time.Second))):
		return nil
	}
}
