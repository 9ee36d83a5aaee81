// Package curse provides a client for the CurseForge hosting API.
//
// The package handles two main use cases:
//
//  1. Looking up a single file record by (projectID, fileID) during
//     resolution
//  2. Batch-fetching project metadata to put names on blocked mods
//
// # File Lookup
//
//	client := curse.NewClient(httpClient, curse.Options{})
//	file, err := client.GetModFile(ctx, 238222, 4509394)
//	switch {
//	case errors.Is(err, curse.ErrNotFound):
//	    // unknown project/file pair
//	case err != nil:
//	    // lookup failed after transport retries
//	case file.DownloadURL == "":
//	    // record exists but cannot be downloaded with this key
//	}
//
// # Retry behavior
//
// Connection errors, timeouts, rate limiting (429) and server errors
// (5xx) are retried with exponential backoff up to Options.MaxRetries
// attempts per request. 404 surfaces as ErrNotFound and other 4xx
// responses surface immediately; neither consumes the retry budget.
//
// # Wire format
//
// Every response is wrapped in a {"data": ...} envelope; the dto
// subpackage maps the payloads, keeping only the fields the installer
// consumes.
package curse
