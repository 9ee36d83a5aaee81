package main

import (
	"github.com/spf13/cobra"

	pghttp "github.com/quillon/packgrab/internal/http"
	"github.com/quillon/packgrab/internal/key"
)

var (
	flagBundleVersion string
	flagBundleURL     string
	flagKeyOutput     string
)

var grabKeyCmd = &cobra.Command{
	Use:   "grab-key",
	Short: "Extract the vendor client's API key into a key file",
	Long: `Grab-key downloads the vendor's desktop client bundle, extracts the
API key embedded in it and writes the key to a file for the other
commands to use. That key can download mods a personal key cannot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}

		bundleURL := flagBundleURL
		if bundleURL == "" {
			bundleURL = key.BundleURL(flagBundleVersion)
		}
		destPath := flagKeyOutput
		if destPath == "" {
			destPath = settings.KeyFile
		}

		httpClient := pghttp.NewClient(pghttp.Options{
			Timeout:   settings.HTTPTimeout(),
			UserAgent: settings.UserAgent,
		})

		logger.Info("Downloading client bundle", "url", bundleURL)
		if err := key.Grab(cmd.Context(), httpClient, bundleURL, destPath); err != nil {
			return &exitError{code: exitFailure, err: err}
		}

		logger.Info("Key written", "path", destPath)
		return nil
	},
}

func init() {
	grabKeyCmd.Flags().StringVar(&flagBundleVersion, "cf-version", "", "client bundle version (default: a known-good pinned version)")
	grabKeyCmd.Flags().StringVar(&flagBundleURL, "cf-url", "", "full client bundle URL (overrides --cf-version)")
	grabKeyCmd.Flags().StringVarP(&flagKeyOutput, "output", "o", "", "key file to write (default: configured key file)")
}
