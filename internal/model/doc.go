// Package model defines the core data structures used throughout
// packgrab.
//
// # References and resolution
//
// ModReference identifies one manifest entry. The resolution pass turns
// each reference into either a ResolvedFile (downloadable descriptor) or
// a BlockedMod (terminal classification with a BlockReason):
//
//	ref := model.ModReference{ProjectID: 238222, FileID: 4509394, Required: true}
//
// # Download outcomes
//
// The download scheduler produces exactly one DownloadOutcome per
// ResolvedFile, recording the terminal status and the number of attempts
// consumed.
//
// # Reports
//
// InstallationReport aggregates blocked, succeeded and failed entries.
// Every manifest reference lands in exactly one of the three sequences:
//
//	report.SortByManifest()
//	switch report.Classify(false) {
//	case model.RunFullSuccess:    // ...
//	case model.RunPartialSuccess: // ...
//	case model.RunTotalFailure:   // ...
//	}
package model
