// Package download provides the download scheduler: bounded-parallel
// fetching of resolved files into a target directory.
//
// # Scheduler
//
// The Scheduler takes the resolution engine's output and drains it:
//
//	sched := download.NewScheduler(client, settings, onProgress)
//	outcomes := sched.DownloadAll(ctx, resolvedFiles, modsDir)
//
// Exactly one DownloadOutcome is returned per input file, even under
// cancellation or repeated failures.
//
// # Atomicity
//
// Each file is streamed to a uniquely named temporary file inside the
// target directory, verified against the descriptor's byte size when
// one is known, and renamed into place. A crash or cancellation
// mid-download leaves at most an orphaned *.part-* file, never a
// corrupt artifact under the final name. Because file names are unique
// per reference, the final rename is the only synchronization point.
//
// # Retry Logic
//
// Transient failures (connection errors, timeouts, 429 and 5xx) are
// retried up to Settings.MaxRetries attempts with exponential backoff
// (cooldown * exponent^tries). Terminal failures (other 4xx, byte-size
// mismatch after a completed stream) are recorded immediately without
// consuming the remaining budget.
//
// # Skip-existing
//
// A file already present in the target directory with the expected
// byte size is recorded as succeeded with zero attempts and costs no
// download, which makes re-running an interrupted install cheap. When
// the descriptor carries no byte size the expected size is probed with
// a HEAD request instead.
package download
