package model

import "fmt"

// ModReference identifies one mod entry from a pack manifest.
//
// References are immutable once read from the manifest. ManifestIndex
// records the position of the entry within the manifest's file list so
// reports can be re-sorted into manifest order after concurrent
// resolution scrambles completion order.
type ModReference struct {
	// ProjectID is the hosting service's project identifier.
	ProjectID int

	// FileID is the hosting service's file identifier within the project.
	FileID int

	// Required reports whether the pack marks this mod as required.
	// Optional mods may be excluded from success/failure classification,
	// see Report.Classify.
	Required bool

	// ManifestIndex is the zero-based position of this entry in the
	// manifest's file list.
	ManifestIndex int
}

// String returns a compact "project/file" form for log and report lines.
func (r ModReference) String() string {
	return fmt.Sprintf("%d/%d", r.ProjectID, r.FileID)
}

// ResolvedFile is a downloadable descriptor produced by the resolution
// pass for a reference whose API lookup returned a usable download URL.
// Each ResolvedFile is consumed exactly once by the download scheduler.
type ResolvedFile struct {
	// Reference is the manifest entry this descriptor was resolved from.
	Reference ModReference

	// DownloadURL is the direct URL to fetch the file from.
	DownloadURL string

	// FileName is the name the file should be stored under, already
	// sanitized for the local filesystem.
	FileName string

	// ByteSize is the expected file size in bytes, or 0 when the API
	// did not report one. When nonzero the downloaded byte count is
	// verified against it.
	ByteSize int64
}

// BlockReason classifies why a reference could not be resolved.
type BlockReason int

const (
	// BlockedNoDownloadURL means the API returned the file record but
	// with a null or empty download URL: the mod cannot be downloaded
	// through the standard API path with this key.
	BlockedNoDownloadURL BlockReason = iota

	// BlockedNotFound means the API reported the project/file pair as
	// unknown.
	BlockedNotFound

	// BlockedAPIError means the lookup itself failed after the client's
	// transport retries were exhausted.
	BlockedAPIError
)

// String returns a short human-readable reason for report lines.
func (r BlockReason) String() string {
	switch r {
	case BlockedNoDownloadURL:
		return "no download URL"
	case BlockedNotFound:
		return "not found"
	case BlockedAPIError:
		return "API error"
	default:
		return "unknown"
	}
}

// BlockedMod is the terminal classification for a reference that cannot
// be downloaded in this run. Blocked references are never retried.
type BlockedMod struct {
	// Reference is the manifest entry that was blocked.
	Reference ModReference

	// Reason says why the reference could not be resolved.
	Reason BlockReason

	// ModName is the project's display name, filled in best-effort by
	// find-bad reporting. Empty when metadata could not be fetched.
	ModName string

	// ModSlug is the project's URL slug, filled alongside ModName.
	ModSlug string

	// Detail carries the underlying error text for BlockedAPIError.
	Detail string
}
