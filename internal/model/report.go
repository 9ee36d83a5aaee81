package model

import "sort"

// DownloadStatus is the terminal state of one download task.
type DownloadStatus int

const (
	// StatusSucceeded means the file was fully written and verified.
	StatusSucceeded DownloadStatus = iota

	// StatusFailed means the download gave up, either after the retry
	// budget was exhausted or immediately on a non-retryable condition.
	StatusFailed
)

// DownloadOutcome records the result of downloading one resolved file.
// Exactly one outcome is produced per ResolvedFile; outcomes are
// immutable once the scheduler returns them.
type DownloadOutcome struct {
	// ResolvedFile is the descriptor this outcome belongs to.
	ResolvedFile ResolvedFile

	// Status is the terminal state.
	Status DownloadStatus

	// Attempts is the number of network attempts made. Zero means the
	// file was already present with the expected size and no request
	// was issued.
	Attempts int

	// Error holds the final failure text when Status is StatusFailed.
	Error string
}

// Skipped reports whether the file was satisfied without any network
// request (already present with the expected byte size).
func (o DownloadOutcome) Skipped() bool {
	return o.Status == StatusSucceeded && o.Attempts == 0
}

// InstallationReport aggregates the fate of every manifest reference
// after an install run. Every reference appears in exactly one of
// Blocked, Succeeded or Failed.
type InstallationReport struct {
	// PackName is the manifest's pack name, for display.
	PackName string

	// Blocked lists references that could not be resolved.
	Blocked []BlockedMod

	// Succeeded lists downloads that completed (or were skipped as
	// already satisfied).
	Succeeded []DownloadOutcome

	// Failed lists downloads that gave up.
	Failed []DownloadOutcome

	// OverridesExtracted is the number of override files copied out of
	// the pack archive into the install directory.
	OverridesExtracted int
}

// Total returns the number of references accounted for.
func (r *InstallationReport) Total() int {
	return len(r.Blocked) + len(r.Succeeded) + len(r.Failed)
}

// RunClass is the overall success classification of an install run,
// used to pick the process exit code.
type RunClass int

const (
	// RunFullSuccess: nothing blocked, nothing failed.
	RunFullSuccess RunClass = iota

	// RunPartialSuccess: at least one success alongside blocked or
	// failed entries.
	RunPartialSuccess

	// RunTotalFailure: references were attempted and none succeeded.
	RunTotalFailure
)

// Classify derives the run classification from the report.
//
// With failOnOptional false, blocked or failed mods whose manifest entry
// is marked required=false are still enumerated but do not demote the
// classification; a run where only optional mods went wrong still counts
// as a full success. An empty manifest classifies as full success.
func (r *InstallationReport) Classify(failOnOptional bool) RunClass {
	bad := 0
	for _, b := range r.Blocked {
		if b.Reference.Required || failOnOptional {
			bad++
		}
	}
	for _, f := range r.Failed {
		if f.ResolvedFile.Reference.Required || failOnOptional {
			bad++
		}
	}

	switch {
	case bad == 0:
		return RunFullSuccess
	case len(r.Succeeded) > 0:
		return RunPartialSuccess
	default:
		return RunTotalFailure
	}
}

// SortBlockedByManifest orders a blocked list by manifest position.
func SortBlockedByManifest(blocked []BlockedMod) {
	sort.Slice(blocked, func(i, j int) bool {
		return blocked[i].Reference.ManifestIndex < blocked[j].Reference.ManifestIndex
	})
}

// SortByManifest orders all three sequences by the references' manifest
// positions. Resolution and download emit by completion order; sorting
// here keeps report output deterministic.
func (r *InstallationReport) SortByManifest() {
	sort.Slice(r.Blocked, func(i, j int) bool {
		return r.Blocked[i].Reference.ManifestIndex < r.Blocked[j].Reference.ManifestIndex
	})
	sort.Slice(r.Succeeded, func(i, j int) bool {
		return r.Succeeded[i].ResolvedFile.Reference.ManifestIndex < r.Succeeded[j].ResolvedFile.Reference.ManifestIndex
	})
	sort.Slice(r.Failed, func(i, j int) bool {
		return r.Failed[i].ResolvedFile.Reference.ManifestIndex < r.Failed[j].ResolvedFile.Reference.ManifestIndex
	})
}
