package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quillon/packgrab/internal/curse"
	"github.com/quillon/packgrab/internal/model"
)

// Resolver classifies manifest references into downloadable descriptors
// and blocked mods by querying the hosting API.
type Resolver struct {
	client      *curse.Client
	parallelism int
	onProgress  model.ProgressFunc
}

// New creates a Resolver issuing at most parallelism concurrent lookups.
func New(client *curse.Client, parallelism int, onProgress model.ProgressFunc) *Resolver {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Resolver{
		client:      client,
		parallelism: parallelism,
		onProgress:  onProgress,
	}
}

// Resolve looks up every reference and splits the set into resolved
// files and blocked mods.
//
// Lookups run concurrently and independently; a failing lookup is
// recorded as a blocked mod and never aborts the pass. Emission order
// is completion order, not manifest order — callers needing manifest
// order re-sort by ModReference.ManifestIndex.
//
// Every input reference appears in exactly one of the two results.
func (r *Resolver) Resolve(ctx context.Context, refs []model.ModReference) ([]model.ResolvedFile, []model.BlockedMod) {
	var (
		mu       sync.Mutex
		resolved []model.ResolvedFile
		blocked  []model.BlockedMod
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for _, ref := range refs {
		g.Go(func() error {
			file, bad := r.lookup(ctx, ref)

			mu.Lock()
			defer mu.Unlock()
			if bad != nil {
				blocked = append(blocked, *bad)
			} else {
				resolved = append(resolved, *file)
			}
			return nil
		})
	}

	// Workers never return errors; failures are classified per reference.
	g.Wait()

	return resolved, blocked
}

func (r *Resolver) lookup(ctx context.Context, ref model.ModReference) (*model.ResolvedFile, *model.BlockedMod) {
	file, err := r.client.GetModFile(ctx, ref.ProjectID, ref.FileID)

	switch {
	case errors.Is(err, curse.ErrNotFound):
		r.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Mod %s not found", ref))
		return nil, &model.BlockedMod{Reference: ref, Reason: model.BlockedNotFound}

	case err != nil:
		r.onProgress.Emit(model.LevelError, fmt.Sprintf("Lookup failed for %s: %v", ref, err))
		return nil, &model.BlockedMod{Reference: ref, Reason: model.BlockedAPIError, Detail: err.Error()}

	case file.DownloadURL == "":
		r.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Mod %s (%s) has no download URL", ref, file.FileName))
		return nil, &model.BlockedMod{Reference: ref, Reason: model.BlockedNoDownloadURL}
	}

	name := model.SanitizeFileName(file.FileName)
	if name == "" {
		name = fmt.Sprintf("%d-%d.jar", ref.ProjectID, ref.FileID)
	}

	r.onProgress.Emit(model.LevelVerbose, fmt.Sprintf("Resolved %s -> %s", ref, name))

	return &model.ResolvedFile{
		Reference:   ref,
		DownloadURL: file.DownloadURL,
		FileName:    name,
		ByteSize:    file.FileLength,
	}, nil
}
