// Package http provides the HTTP client shared by the hosting-API
// client and the download scheduler.
//
// The Client in this package handles:
//   - User-Agent and x-api-key headers
//   - JSON request/response helpers
//   - Streaming downloads with typed status errors
//   - File size retrieval via HEAD requests
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{APIKey: key})
//
//	// Decode a JSON endpoint
//	var payload someResponse
//	err := client.GetJSON(ctx, apiURL, &payload)
//
//	// Stream a file
//	body, size, err := client.Download(ctx, fileURL)
//	defer body.Close()
//
// # Status errors
//
// Non-2xx responses surface as *StatusError. Retryable() distinguishes
// transient conditions (429, 5xx) from terminal ones, which is how the
// retry loops in internal/curse and internal/download decide whether to
// reissue a request.
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
