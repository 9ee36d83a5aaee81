package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// SanitizeFileName removes or replaces characters that are invalid in
// file names. File names come from the hosting API (or are derived from
// a download URL) and are not trusted as filesystem-safe.
//
// The following transformations are applied:
//   - Any path separators are stripped (only the base name survives)
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	SanitizeFileName("Some Mod: v1.2.jar") // Returns "Some Mod_ v1.2.jar"
func SanitizeFileName(name string) string {
	// Keep only the base name; API data must never traverse directories.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}
