package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var findBadCmd = &cobra.Command{
	Use:   "find-bad PACK_ZIP",
	Short: "List the mods of a pack that cannot be downloaded",
	Long: `Find-bad resolves every mod in the pack's manifest without
downloading anything and lists the ones the API will not serve, so they
can be fetched manually before an install.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}

		installer, err := newInstaller(settings)
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}

		blocked, err := installer.FindBad(cmd.Context(), args[0])
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}

		if len(blocked) == 0 {
			logger.Info("All mods are downloadable")
			return nil
		}

		logger.Warn(fmt.Sprintf("%d mod(s) cannot be downloaded:", len(blocked)))
		for _, b := range blocked {
			name := b.ModName
			if name == "" {
				name = b.Reference.String()
			}
			line := fmt.Sprintf("  %s (%s)", name, b.Reason)
			if b.ModSlug != "" {
				line += fmt.Sprintf(" https://www.curseforge.com/minecraft/mc-mods/%s", b.ModSlug)
			}
			logger.Warn(line)
		}
		return &exitError{code: exitFailure}
	},
}

func init() {
	findBadCmd.Flags().StringVar(&flagKey, "key", "", "API key value")
	findBadCmd.Flags().StringVar(&flagKeyFile, "key-file", "", "path to API key file")
}
