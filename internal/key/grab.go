package key

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	pghttp "github.com/quillon/packgrab/internal/http"
)

const (
	// DefaultBundleVersion is the pinned client extension version the
	// bundle URL is built from when none is given.
	DefaultBundleVersion = "0.196.1.11"

	// bundleURLFormat builds the download URL of the vendor's desktop
	// client extension for a given version.
	bundleURLFormat = "https://appsdl-overwolf-com.akamaized.net/prod/apps/cchhcaiapeikjbdbpfplgmpobbcdkdaphclbmkbj/%s/app.opk"

	// tokenEntry is the bundle entry that embeds the API token.
	tokenEntry = "dist/desktop/desktop.js"
)

// tokenPattern locates the embedded API token inside the bundle's
// desktop script. If the vendor renames the field this breaks loudly.
var tokenPattern = regexp.MustCompile(`cfCoreApiKey":"(.*?)"`)

// BundleURL returns the bundle download URL for a client version,
// falling back to DefaultBundleVersion when version is empty.
func BundleURL(version string) string {
	if version == "" {
		version = DefaultBundleVersion
	}
	return fmt.Sprintf(bundleURLFormat, version)
}

// Grab downloads the vendor's client bundle from bundleURL, extracts
// the embedded API token and writes it to destPath.
//
// The bundle is a zip; the token lives in a JavaScript file inside it.
// This is the "grab-key" collaborator: it obtains the token the
// vendor's own client uses, which can download mods that a normal key
// cannot.
func Grab(ctx context.Context, client *pghttp.Client, bundleURL, destPath string) error {
	body, _, err := client.Download(ctx, bundleURL)
	if err != nil {
		return fmt.Errorf("key: download client bundle: %w", err)
	}
	defer body.Close()

	// The bundle is a few tens of MB; zip reading needs random access.
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("key: read client bundle: %w", err)
	}

	token, err := extractToken(data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(destPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("key: write key file %s: %w", destPath, err)
	}
	return nil
}

func extractToken(bundle []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	if err != nil {
		return "", fmt.Errorf("key: client bundle is not a zip: %w", err)
	}

	entry, err := archive.Open(tokenEntry)
	if err != nil {
		return "", fmt.Errorf("key: bundle has no %s entry: %w", tokenEntry, err)
	}
	defer entry.Close()

	script, err := io.ReadAll(entry)
	if err != nil {
		return "", fmt.Errorf("key: read %s: %w", tokenEntry, err)
	}

	match := tokenPattern.FindSubmatch(script)
	if match == nil {
		return "", fmt.Errorf("key: token not found in %s, bundle layout likely changed", tokenEntry)
	}
	return string(match[1]), nil
}
