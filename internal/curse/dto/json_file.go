package dto

// File represents a single downloadable file record as returned by the
// hosting API's mods/{modId}/files/{fileId} endpoint.
//
// The API reports many more fields than the installer consumes; only the
// ones the resolution and download phases need are mapped here. Note
// that DownloadURL is null in the wire format when the mod's author has
// disabled third-party distribution, which decodes to the empty string.
type File struct {
	// ID is the file identifier.
	ID int `json:"id"`

	// ModID is the project this file belongs to.
	ModID int `json:"modId"`

	// IsAvailable reports whether the file is still served.
	IsAvailable bool `json:"isAvailable"`

	// DisplayName is the human-readable name shown on the project page.
	DisplayName string `json:"displayName"`

	// FileName is the artifact's file name, e.g. "jei-1.19.2-11.6.0.jar".
	FileName string `json:"fileName"`

	// FileLength is the file size in bytes.
	FileLength int64 `json:"fileLength"`

	// DownloadURL is the direct download URL. Null/empty when the mod
	// cannot be downloaded through the standard API path.
	DownloadURL string `json:"downloadUrl"`

	// FileDate is the upload timestamp, RFC 3339.
	FileDate string `json:"fileDate"`

	// ReleaseType is 1 release, 2 beta, 3 alpha.
	ReleaseType int `json:"releaseType"`

	// GameVersions lists the game versions this file supports.
	GameVersions []string `json:"gameVersions"`
}

// Mod represents project-level metadata from the mods endpoints, used
// to enrich find-bad output with human-readable names.
type Mod struct {
	// ID is the project identifier.
	ID int `json:"id"`

	// Name is the project's display name.
	Name string `json:"name"`

	// Slug is the project's URL slug.
	Slug string `json:"slug"`

	// Summary is the short project description.
	Summary string `json:"summary"`

	// AllowModDistribution is false when the author has opted out of
	// API downloads. Null in the wire format means allowed.
	AllowModDistribution *bool `json:"allowModDistribution"`

	// IsAvailable reports whether the project is still listed.
	IsAvailable bool `json:"isAvailable"`
}

// DataResponse is the envelope every API response is wrapped in.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// GetModsRequest is the body for the batch POST mods endpoint.
type GetModsRequest struct {
	ModIDs []int `json:"modIds"`
}
