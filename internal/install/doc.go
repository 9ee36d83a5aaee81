// Package install orchestrates the full installation pipeline.
//
// An Installer wires the pack reader, the API resolver, and the
// download scheduler into the two user-facing operations: Install,
// which populates an install directory and returns a complete
// InstallationReport, and FindBad, which dry-runs the resolution phase
// to enumerate undownloadable mods without touching the disk.
//
// Install tolerates blocked and failed mods: they are recorded in the
// report rather than aborting the run. Only faults that make the run
// meaningless, such as an unreadable archive or an unusable target
// directory, surface as errors.
package install
