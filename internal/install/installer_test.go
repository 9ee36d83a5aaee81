package install

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/quillon/packgrab/internal/config"
	"github.com/quillon/packgrab/internal/curse"
	pghttp "github.com/quillon/packgrab/internal/http"
	"github.com/quillon/packgrab/internal/model"
)

// writePack builds a pack zip with the given manifest JSON and extra
// entries (name to content).
func writePack(t *testing.T, manifest string, extra map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pack.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	zw := zip.NewWriter(f)
	entries := map[string]string{"manifest.json": manifest}
	for name, content := range extra {
		entries[name] = content
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func manifestJSON(files string) string {
	return fmt.Sprintf(`{
		"name": "Test Pack",
		"version": "1.0",
		"author": "tester",
		"manifestType": "minecraftModpack",
		"manifestVersion": 1,
		"overrides": "overrides",
		"minecraft": {"version": "1.19.2", "modLoaders": [{"id": "forge-43.2.0", "primary": true}]},
		"files": [%s]
	}`, files)
}

// fileRecord writes a mods/{p}/files/{f} envelope response.
func fileRecord(w http.ResponseWriter, fileName, url string, size int64) {
	json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
		"id":          1,
		"fileName":    fileName,
		"fileLength":  size,
		"downloadUrl": url,
	}})
}

func nullURLRecord(w http.ResponseWriter, fileName string) {
	fmt.Fprintf(w, `{"data": {"id": 1, "fileName": %q, "fileLength": 10, "downloadUrl": null}}`, fileName)
}

func newInstaller(apiURL string, settings *config.Settings) *Installer {
	opts := pghttp.DefaultOptions()
	opts.APIKey = "test-key"
	httpClient := pghttp.NewClient(opts)
	api := curse.NewClient(httpClient, curse.Options{
		BaseURL:       apiURL + "/",
		MaxRetries:    2,
		RetryCooldown: 0.001,
	})
	return New(httpClient, api, settings, nil)
}

func quickSettings() *config.Settings {
	s := config.DefaultSettings()
	s.MaxRetries = 2
	s.RetryCooldown = 0.001
	s.RetryExponent = 1
	return s
}

// The canonical mixed run: one mod downloads, one is blocked by a null
// download URL, one resolves but its download keeps failing. The report
// must account for all three and the good file must land on disk.
func TestInstall_MixedOutcomes(t *testing.T) {
	goodContent := "good jar bytes"

	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.jar":
			fmt.Fprint(w, goodContent)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer cdn.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /mods/100/files/1000", func(w http.ResponseWriter, r *http.Request) {
		fileRecord(w, "good.jar", cdn.URL+"/good.jar", int64(len(goodContent)))
	})
	mux.HandleFunc("GET /mods/200/files/2000", func(w http.ResponseWriter, r *http.Request) {
		nullURLRecord(w, "blocked.jar")
	})
	mux.HandleFunc("GET /mods/300/files/3000", func(w http.ResponseWriter, r *http.Request) {
		fileRecord(w, "broken.jar", cdn.URL+"/broken.jar", 10)
	})
	api := httptest.NewServer(mux)
	defer api.Close()

	packPath := writePack(t, manifestJSON(`
		{"projectID": 100, "fileID": 1000, "required": true},
		{"projectID": 200, "fileID": 2000, "required": true},
		{"projectID": 300, "fileID": 3000, "required": true}
	`), map[string]string{
		"overrides/config/server.cfg": "option=1",
	})

	target := t.TempDir()
	in := newInstaller(api.URL, quickSettings())

	report, err := in.Install(context.Background(), packPath, target)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}

	if report.PackName != "Test Pack" {
		t.Errorf("PackName = %q", report.PackName)
	}
	if report.Total() != 3 {
		t.Fatalf("Total = %d, want 3 (blocked %d, succeeded %d, failed %d)",
			report.Total(), len(report.Blocked), len(report.Succeeded), len(report.Failed))
	}
	if len(report.Succeeded) != 1 || len(report.Blocked) != 1 || len(report.Failed) != 1 {
		t.Fatalf("split = %d/%d/%d, want 1/1/1",
			len(report.Succeeded), len(report.Blocked), len(report.Failed))
	}

	if report.Blocked[0].Reference.ProjectID != 200 {
		t.Errorf("blocked project = %d, want 200", report.Blocked[0].Reference.ProjectID)
	}
	if report.Blocked[0].Reason != model.BlockedNoDownloadURL {
		t.Errorf("blocked reason = %v", report.Blocked[0].Reason)
	}
	if report.Failed[0].ResolvedFile.Reference.ProjectID != 300 {
		t.Errorf("failed project = %d, want 300", report.Failed[0].ResolvedFile.Reference.ProjectID)
	}

	got, err := os.ReadFile(filepath.Join(target, "mods", "good.jar"))
	if err != nil {
		t.Fatalf("good.jar not installed: %v", err)
	}
	if string(got) != goodContent {
		t.Errorf("good.jar content = %q", got)
	}

	if report.OverridesExtracted != 1 {
		t.Errorf("OverridesExtracted = %d, want 1", report.OverridesExtracted)
	}
	override, err := os.ReadFile(filepath.Join(target, "config", "server.cfg"))
	if err != nil {
		t.Fatalf("override not extracted: %v", err)
	}
	if string(override) != "option=1" {
		t.Errorf("override content = %q", override)
	}

	if got := report.Classify(false); got != model.RunPartialSuccess {
		t.Errorf("Classify = %v, want partial success", got)
	}
}

func TestInstall_OverridesDisabled(t *testing.T) {
	mux := http.NewServeMux()
	api := httptest.NewServer(mux)
	defer api.Close()

	packPath := writePack(t, manifestJSON(""), map[string]string{
		"overrides/config/server.cfg": "option=1",
	})

	settings := quickSettings()
	settings.ExtractOverrides = false

	target := t.TempDir()
	report, err := newInstaller(api.URL, settings).Install(context.Background(), packPath, target)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if report.OverridesExtracted != 0 {
		t.Errorf("OverridesExtracted = %d, want 0", report.OverridesExtracted)
	}
	if _, err := os.Stat(filepath.Join(target, "config", "server.cfg")); !os.IsNotExist(err) {
		t.Error("override file should not exist")
	}
}

func TestInstall_InvalidArchive(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "not-a-pack.zip")
	if err := os.WriteFile(bad, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}

	in := newInstaller("http://127.0.0.1:0", quickSettings())
	if _, err := in.Install(context.Background(), bad, t.TempDir()); err == nil {
		t.Fatal("expected error for invalid archive")
	}
}

func TestInstall_ProgressCounters(t *testing.T) {
	content := "twelve bytes"
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, content)
	}))
	defer cdn.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /mods/{project}/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		fileRecord(w, "mod-"+r.PathValue("project")+".jar", cdn.URL, int64(len(content)))
	})
	api := httptest.NewServer(mux)
	defer api.Close()

	packPath := writePack(t, manifestJSON(`
		{"projectID": 1, "fileID": 1, "required": true},
		{"projectID": 2, "fileID": 2, "required": true}
	`), nil)

	in := newInstaller(api.URL, quickSettings())
	if _, err := in.Install(context.Background(), packPath, t.TempDir()); err != nil {
		t.Fatalf("Install: %v", err)
	}

	done, total, received, expected := in.Progress()
	if done != 2 || total != 2 {
		t.Errorf("files progress = %d/%d, want 2/2", done, total)
	}
	if received != int64(2*len(content)) || expected != int64(2*len(content)) {
		t.Errorf("bytes progress = %d/%d, want %d/%d", received, expected, 2*len(content), 2*len(content))
	}
}

// find-bad must never touch the download CDN or write files: it is a
// pure resolution dry run plus a name lookup.
func TestFindBad(t *testing.T) {
	var cdnHits atomic.Int32
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cdnHits.Add(1)
		fmt.Fprint(w, "bytes")
	}))
	defer cdn.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /mods/{project}/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("project") {
		case "200", "400":
			nullURLRecord(w, "blocked.jar")
		default:
			fileRecord(w, "fine.jar", cdn.URL, 5)
		}
	})
	mux.HandleFunc("POST /mods", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"id": 200, "name": "Blocked Mod Alpha", "slug": "blocked-alpha"},
			{"id": 400, "name": "Blocked Mod Beta", "slug": "blocked-beta"},
		}})
	})
	api := httptest.NewServer(mux)
	defer api.Close()

	packPath := writePack(t, manifestJSON(`
		{"projectID": 100, "fileID": 1, "required": true},
		{"projectID": 200, "fileID": 2, "required": true},
		{"projectID": 300, "fileID": 3, "required": true},
		{"projectID": 400, "fileID": 4, "required": false},
		{"projectID": 500, "fileID": 5, "required": true}
	`), nil)

	in := newInstaller(api.URL, quickSettings())
	blocked, err := in.FindBad(context.Background(), packPath)
	if err != nil {
		t.Fatalf("FindBad: %v", err)
	}

	if len(blocked) != 2 {
		t.Fatalf("got %d blocked, want 2", len(blocked))
	}
	if blocked[0].Reference.ProjectID != 200 || blocked[1].Reference.ProjectID != 400 {
		t.Errorf("blocked order = %d, %d; want manifest order 200, 400",
			blocked[0].Reference.ProjectID, blocked[1].Reference.ProjectID)
	}
	if blocked[0].ModName != "Blocked Mod Alpha" || blocked[1].ModName != "Blocked Mod Beta" {
		t.Errorf("names = %q, %q", blocked[0].ModName, blocked[1].ModName)
	}
	if blocked[0].ModSlug != "blocked-alpha" {
		t.Errorf("slug = %q", blocked[0].ModSlug)
	}

	if got := cdnHits.Load(); got != 0 {
		t.Errorf("find-bad issued %d downloads, want 0", got)
	}
}

func TestFindBad_NameLookupFailureIsTolerated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /mods/{project}/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		nullURLRecord(w, "blocked.jar")
	})
	mux.HandleFunc("POST /mods", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	api := httptest.NewServer(mux)
	defer api.Close()

	packPath := writePack(t, manifestJSON(`{"projectID": 1, "fileID": 1, "required": true}`), nil)

	blocked, err := newInstaller(api.URL, quickSettings()).FindBad(context.Background(), packPath)
	if err != nil {
		t.Fatalf("FindBad: %v", err)
	}
	if len(blocked) != 1 {
		t.Fatalf("got %d blocked, want 1", len(blocked))
	}
	if blocked[0].ModName != "" {
		t.Errorf("ModName = %q, want empty when enrichment fails", blocked[0].ModName)
	}
}
