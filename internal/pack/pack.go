package pack

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillon/packgrab/internal/model"
)

// ManifestName is the manifest's entry name inside the pack archive.
const ManifestName = "manifest.json"

// ErrInvalidArchive is wrapped into every error caused by an archive
// that cannot be opened or lacks the expected manifest structure.
var ErrInvalidArchive = errors.New("pack: invalid archive")

// Manifest is the pack's structured mod list and metadata.
type Manifest struct {
	Name            string        `json:"name"`
	Version         string        `json:"version"`
	Author          string        `json:"author"`
	ManifestType    string        `json:"manifestType"`
	ManifestVersion int           `json:"manifestVersion"`
	Overrides       string        `json:"overrides"`
	Minecraft       MinecraftInfo `json:"minecraft"`
	Files           []FileEntry   `json:"files"`
}

// MinecraftInfo describes the game version the pack targets.
type MinecraftInfo struct {
	Version    string       `json:"version"`
	ModLoaders []LoaderInfo `json:"modLoaders"`
}

// LoaderInfo identifies a mod loader requirement.
type LoaderInfo struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary"`
}

// FileEntry is one mod entry in the manifest's file list.
type FileEntry struct {
	ProjectID int  `json:"projectID"`
	FileID    int  `json:"fileID"`
	Required  bool `json:"required"`
}

// Pack is an opened modpack archive.
type Pack struct {
	// Manifest is the parsed manifest.json.
	Manifest *Manifest

	archive *zip.ReadCloser
}

// Open opens a modpack zip and parses its manifest.
//
// Failures to open the zip, a missing manifest entry, or malformed
// manifest JSON all wrap ErrInvalidArchive so callers can classify them
// as configuration errors.
func Open(path string) (*Pack, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, path, err)
	}

	manifest, err := readManifest(&archive.Reader)
	if err != nil {
		archive.Close()
		return nil, err
	}

	return &Pack{
		Manifest: manifest,
		archive:  archive,
	}, nil
}

// Close releases the underlying archive.
func (p *Pack) Close() error {
	return p.archive.Close()
}

// References returns the manifest's mod entries as model references,
// preserving manifest order in ManifestIndex.
func (p *Pack) References() []model.ModReference {
	refs := make([]model.ModReference, len(p.Manifest.Files))
	for i, f := range p.Manifest.Files {
		refs[i] = model.ModReference{
			ProjectID:     f.ProjectID,
			FileID:        f.FileID,
			Required:      f.Required,
			ManifestIndex: i,
		}
	}
	return refs
}

// ExtractOverrides copies every file under the manifest's overrides
// prefix into destDir, stripping the prefix and creating parent
// directories as needed. Returns the number of files written.
//
// Entry names are validated against directory traversal; an entry that
// would escape destDir aborts the extraction.
func (p *Pack) ExtractOverrides(ctx context.Context, destDir string) (int, error) {
	if p.Manifest.Overrides == "" {
		return 0, nil
	}
	prefix := p.Manifest.Overrides + "/"

	written := 0
	for _, entry := range p.archive.File {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if !strings.HasPrefix(entry.Name, prefix) || strings.HasSuffix(entry.Name, "/") {
			continue
		}

		rel := strings.TrimPrefix(entry.Name, prefix)
		destPath := filepath.Join(destDir, filepath.FromSlash(rel))
		if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return written, fmt.Errorf("override entry %q escapes install directory", entry.Name)
		}

		if err := extractFile(entry, destPath); err != nil {
			return written, fmt.Errorf("extract override %s: %w", entry.Name, err)
		}
		written++
	}

	return written, nil
}

func extractFile(entry *zip.File, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func readManifest(archive *zip.Reader) (*Manifest, error) {
	entry, err := archive.Open(ManifestName)
	if err != nil {
		return nil, fmt.Errorf("%w: no %s entry: %v", ErrInvalidArchive, ManifestName, err)
	}
	defer entry.Close()

	manifest := &Manifest{}
	if err := json.NewDecoder(entry).Decode(manifest); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidArchive, ManifestName, err)
	}

	return manifest, nil
}
