package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/quillon/packgrab/internal/config"
	"github.com/quillon/packgrab/internal/curse"
	"github.com/quillon/packgrab/internal/download"
	pghttp "github.com/quillon/packgrab/internal/http"
	"github.com/quillon/packgrab/internal/model"
	"github.com/quillon/packgrab/internal/pack"
	"github.com/quillon/packgrab/internal/resolve"
)

// Installer runs the full installation pipeline: open the pack archive,
// resolve its references against the hosting API, download the resolved
// files under bounded parallelism, and extract overrides.
//
// An Installer is single-use per Install call but its progress counters
// may be read concurrently while a call is in flight.
type Installer struct {
	settings   *config.Settings
	api        *curse.Client
	http       *pghttp.Client
	onProgress model.ProgressFunc

	filesDone     atomic.Int32
	filesTotal    atomic.Int32
	bytesReceived atomic.Int64
	bytesTotal    atomic.Int64
}

// New creates an Installer. The HTTP client must carry the API key.
func New(httpClient *pghttp.Client, api *curse.Client, settings *config.Settings, onProgress model.ProgressFunc) *Installer {
	return &Installer{
		settings:   settings,
		api:        api,
		http:       httpClient,
		onProgress: onProgress,
	}
}

// Progress reports the live state of an Install call: files completed
// out of the resolved total, and bytes received out of the expected
// byte total. Safe to call from another goroutine.
func (in *Installer) Progress() (done, total int32, receivedBytes, totalBytes int64) {
	return in.filesDone.Load(), in.filesTotal.Load(), in.bytesReceived.Load(), in.bytesTotal.Load()
}

// Install installs the pack archive at packPath into targetDir.
//
// The returned report is complete even when individual mods are blocked
// or fail to download. A non-nil error means the run could not produce
// a meaningful report at all: an unreadable archive, an unusable target
// directory, or a failed overrides extraction.
func (in *Installer) Install(ctx context.Context, packPath, targetDir string) (*model.InstallationReport, error) {
	p, err := pack.Open(packPath)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	in.onProgress.Emit(model.LevelInfo, fmt.Sprintf("Installing %s %s by %s",
		p.Manifest.Name, p.Manifest.Version, p.Manifest.Author))

	modsDir := filepath.Join(targetDir, in.settings.ModsSubdir)
	if err := os.MkdirAll(modsDir, 0755); err != nil {
		return nil, fmt.Errorf("create install directory: %w", err)
	}

	refs := p.References()
	in.onProgress.Emit(model.LevelInfo, fmt.Sprintf("Resolving %d mods", len(refs)))

	resolver := resolve.New(in.api, in.settings.Parallelism, in.onProgress)
	resolved, blocked := resolver.Resolve(ctx, refs)

	in.filesTotal.Store(int32(len(resolved)))
	for _, f := range resolved {
		in.bytesTotal.Add(f.ByteSize)
	}

	in.onProgress.Emit(model.LevelInfo, fmt.Sprintf("Downloading %d files", len(resolved)))

	scheduler := download.NewScheduler(in.http, in.settings, in.onProgress)
	scheduler.OnBytes = func(delta int64) { in.bytesReceived.Add(delta) }
	scheduler.OnDone = func() { in.filesDone.Add(1) }

	outcomes := scheduler.DownloadAll(ctx, resolved, modsDir)

	report := &model.InstallationReport{
		PackName: p.Manifest.Name,
		Blocked:  blocked,
	}
	for _, o := range outcomes {
		switch o.Status {
		case model.StatusSucceeded:
			report.Succeeded = append(report.Succeeded, o)
		default:
			report.Failed = append(report.Failed, o)
		}
	}
	report.SortByManifest()

	if in.settings.ExtractOverrides {
		in.onProgress.Emit(model.LevelInfo, "Extracting overrides")
		n, err := p.ExtractOverrides(ctx, targetDir)
		if err != nil {
			return report, fmt.Errorf("extract overrides: %w", err)
		}
		report.OverridesExtracted = n
	}

	return report, nil
}

// FindBad opens a pack archive and reports which of its mods cannot be
// downloaded, without writing anything to disk. Blocked entries are
// enriched with project names via the batch mods endpoint; enrichment
// is best-effort and its failure does not fail the call.
func (in *Installer) FindBad(ctx context.Context, packPath string) ([]model.BlockedMod, error) {
	p, err := pack.Open(packPath)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	refs := p.References()
	in.onProgress.Emit(model.LevelInfo, fmt.Sprintf("Checking %d mods in %s", len(refs), p.Manifest.Name))

	resolver := resolve.New(in.api, in.settings.Parallelism, in.onProgress)
	_, blocked := resolver.Resolve(ctx, refs)
	if len(blocked) == 0 {
		return nil, nil
	}

	in.enrichNames(ctx, blocked)

	model.SortBlockedByManifest(blocked)
	return blocked, nil
}

// enrichNames fills ModName and ModSlug on blocked entries from the
// batch project lookup.
func (in *Installer) enrichNames(ctx context.Context, blocked []model.BlockedMod) {
	ids := make([]int, 0, len(blocked))
	for _, b := range blocked {
		ids = append(ids, b.Reference.ProjectID)
	}

	mods, err := in.api.GetMods(ctx, ids)
	if err != nil {
		in.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Could not fetch project names: %v", err))
		return
	}

	byID := make(map[int]struct{ name, slug string }, len(mods))
	for _, m := range mods {
		byID[m.ID] = struct{ name, slug string }{m.Name, m.Slug}
	}
	for i := range blocked {
		if meta, ok := byID[blocked[i].Reference.ProjectID]; ok {
			blocked[i].ModName = meta.name
			blocked[i].ModSlug = meta.slug
		}
	}
}
