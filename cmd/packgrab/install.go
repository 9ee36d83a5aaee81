package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillon/packgrab/internal/model"
)

var (
	flagKey      string
	flagKeyFile  string
	flagParallel int
)

var installCmd = &cobra.Command{
	Use:   "install PACK_ZIP [INSTALL_TO]",
	Short: "Install a modpack archive into a directory",
	Long: `Install resolves every mod in the pack's manifest, downloads the
resolvable ones into the mods subdirectory and extracts the pack's
overrides. Mods the API refuses to serve are reported, not fatal.

When INSTALL_TO is omitted the pack is installed into a directory named
after the archive.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		packPath := args[0]
		targetDir := strings.TrimSuffix(filepath.Base(packPath), filepath.Ext(packPath))
		if len(args) == 2 {
			targetDir = args[1]
		}

		settings, err := loadSettings()
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}
		if flagParallel > 0 {
			settings.Parallelism = flagParallel
			if err := settings.Validate(); err != nil {
				return &exitError{code: exitConfig, err: err}
			}
		}

		installer, err := newInstaller(settings)
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}

		report, err := installer.Install(cmd.Context(), packPath, targetDir)
		if err != nil {
			code := exitFailure
			if report == nil {
				// Run produced nothing at all: bad archive or target.
				code = exitConfig
			}
			return &exitError{code: code, err: err}
		}

		printReport(report)

		switch report.Classify(settings.FailOnOptional) {
		case model.RunFullSuccess:
			return nil
		case model.RunPartialSuccess:
			return &exitError{code: exitPartial}
		default:
			return &exitError{code: exitFailure}
		}
	},
}

func init() {
	installCmd.Flags().StringVar(&flagKey, "key", "", "API key value")
	installCmd.Flags().StringVar(&flagKeyFile, "key-file", "", "path to API key file")
	installCmd.Flags().IntVar(&flagParallel, "parallel", 0, "max concurrent downloads (overrides config)")
}

// printReport enumerates the fate of every manifest reference.
func printReport(report *model.InstallationReport) {
	logger.Info(fmt.Sprintf("%s: %d mods downloaded, %d blocked, %d failed, %d override files",
		report.PackName, len(report.Succeeded), len(report.Blocked), len(report.Failed),
		report.OverridesExtracted))

	for _, blocked := range report.Blocked {
		name := blocked.ModName
		if name == "" {
			name = blocked.Reference.String()
		}
		line := fmt.Sprintf("blocked: %s (%s)", name, blocked.Reason)
		if blocked.Detail != "" {
			line += ": " + blocked.Detail
		}
		logger.Warn(line)
	}
	for _, failed := range report.Failed {
		logger.Error(fmt.Sprintf("failed: %s after %d attempt(s): %s",
			failed.ResolvedFile.FileName, failed.Attempts, failed.Error))
	}
}
