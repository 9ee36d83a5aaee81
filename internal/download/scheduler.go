package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quillon/packgrab/internal/config"
	pghttp "github.com/quillon/packgrab/internal/http"
	"github.com/quillon/packgrab/internal/model"
)

// Scheduler executes download tasks against resolved file descriptors
// under bounded parallelism.
type Scheduler struct {
	client     *pghttp.Client
	settings   *config.Settings
	onProgress model.ProgressFunc

	// OnBytes, when set, is called with byte deltas as response bodies
	// are streamed to disk. Must be safe for concurrent use.
	OnBytes func(delta int64)

	// OnDone, when set, is called once per file as its outcome becomes
	// terminal, success or failure. Must be safe for concurrent use.
	OnDone func()
}

// NewScheduler creates a Scheduler.
func NewScheduler(client *pghttp.Client, settings *config.Settings, onProgress model.ProgressFunc) *Scheduler {
	return &Scheduler{
		client:     client,
		settings:   settings,
		onProgress: onProgress,
	}
}

// DownloadAll downloads every resolved file into targetDir and returns
// one outcome per input, in completion order.
//
// At most Settings.Parallelism downloads are in flight at any moment.
// A failing download never cancels its siblings: the scheduler drains
// all tasks and returns a complete outcome set even when some fail.
// Cancellation stops new work; files never attempted are recorded as
// failed with the context error so the outcome set stays total.
func (s *Scheduler) DownloadAll(ctx context.Context, files []model.ResolvedFile, targetDir string) []model.DownloadOutcome {
	var (
		mu       sync.Mutex
		outcomes []model.DownloadOutcome
	)

	// Deliberately not errgroup.WithContext: one failure must not
	// cancel siblings. The caller's ctx still cancels everything.
	var g errgroup.Group
	g.SetLimit(s.settings.Parallelism)

	for _, file := range files {
		g.Go(func() error {
			outcome := s.downloadOne(ctx, file, targetDir)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()

			if s.OnDone != nil {
				s.OnDone()
			}
			return nil
		})
	}

	g.Wait()

	return outcomes
}

// downloadOne produces the terminal outcome for a single file.
func (s *Scheduler) downloadOne(ctx context.Context, file model.ResolvedFile, targetDir string) model.DownloadOutcome {
	finalPath := filepath.Join(targetDir, file.FileName)

	// Already-satisfied check: a final file with the expected byte size
	// needs no download. When the API record carried no size, fall back
	// to a HEAD request against the CDN before re-fetching the body.
	if info, err := os.Stat(finalPath); err == nil {
		want := file.ByteSize
		if want == 0 {
			want, _ = s.client.GetFileSize(ctx, file.DownloadURL)
		}
		if want > 0 && info.Size() == want {
			s.onProgress.Emit(model.LevelVerbose, fmt.Sprintf("Skipping existing: %s", file.FileName))
			return model.DownloadOutcome{ResolvedFile: file, Status: model.StatusSucceeded, Attempts: 0}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.settings.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return model.DownloadOutcome{
				ResolvedFile: file,
				Status:       model.StatusFailed,
				Attempts:     attempt - 1,
				Error:        fmt.Sprintf("cancelled: %v", err),
			}
		}

		retryable, err := s.attempt(ctx, file, finalPath, targetDir)
		if err == nil {
			s.onProgress.Emit(model.LevelVerbose, fmt.Sprintf("Downloaded: %s", file.FileName))
			return model.DownloadOutcome{ResolvedFile: file, Status: model.StatusSucceeded, Attempts: attempt}
		}

		lastErr = err
		if !retryable {
			s.onProgress.Emit(model.LevelError, fmt.Sprintf("Giving up on %s: %v", file.FileName, err))
			return model.DownloadOutcome{
				ResolvedFile: file,
				Status:       model.StatusFailed,
				Attempts:     attempt,
				Error:        err.Error(),
			}
		}

		if attempt < s.settings.MaxRetries {
			s.onProgress.Emit(model.LevelWarning,
				fmt.Sprintf("Retry %d/%d for %s: %v", attempt, s.settings.MaxRetries, file.FileName, err))
			s.waitForRetry(ctx, attempt-1)
		}
	}

	s.onProgress.Emit(model.LevelError, fmt.Sprintf("Failed after %d attempts: %s", s.settings.MaxRetries, file.FileName))
	return model.DownloadOutcome{
		ResolvedFile: file,
		Status:       model.StatusFailed,
		Attempts:     s.settings.MaxRetries,
		Error:        lastErr.Error(),
	}
}

// attempt performs one download attempt: stream to a temp file in the
// target directory, verify the byte count, then rename into place. The
// temp file is removed on any failure, so a partially written file is
// never visible under the final name.
func (s *Scheduler) attempt(ctx context.Context, file model.ResolvedFile, finalPath, targetDir string) (retryable bool, err error) {
	body, _, err := s.client.Download(ctx, file.DownloadURL)
	if err != nil {
		return isRetryable(err), fmt.Errorf("fetch %s: %w", file.DownloadURL, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(targetDir, file.FileName+".part-*")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	var w io.Writer = tmp
	if s.OnBytes != nil {
		var prev int64
		w = &pghttp.ProgressWriter{
			Writer: tmp,
			Total:  file.ByteSize,
			OnUpdate: func(written, _ int64) {
				s.OnBytes(written - prev)
				prev = written
			},
		}
	}

	written, err := io.Copy(w, body)
	if err != nil {
		cleanup()
		// A read error mid-stream is transient (connection reset,
		// timeout).
		return true, fmt.Errorf("stream %s: %w", file.FileName, err)
	}

	if file.ByteSize > 0 && written != file.ByteSize {
		cleanup()
		return false, fmt.Errorf("size mismatch for %s: got %d bytes, want %d", file.FileName, written, file.ByteSize)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("rename into place: %w", err)
	}

	return false, nil
}

// isRetryable classifies a fetch error: rate limiting and server errors
// are transient, other HTTP statuses are terminal, anything else
// (connection errors, timeouts) is transient.
func isRetryable(err error) bool {
	var statusErr *pghttp.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// waitForRetry sleeps for the backoff delay, returning early on
// cancellation.
func (s *Scheduler) waitForRetry(ctx context.Context, tries int) {
	select {
	case <-ctx.Done():
	case <-time.After(s.settings.RetryDelay(tries)):
	}
}
