package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quillon/packgrab/internal/config"
	"github.com/quillon/packgrab/internal/curse"
	pghttp "github.com/quillon/packgrab/internal/http"
	"github.com/quillon/packgrab/internal/install"
	"github.com/quillon/packgrab/internal/key"
	"github.com/quillon/packgrab/internal/model"
)

// Process exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
	exitConfig  = 2
	exitPartial = 3
)

// exitError carries a process exit code out of a command's RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

var (
	flagConfig  string
	flagVerbose bool

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
)

var rootCmd = &cobra.Command{
	Use:           "packgrab",
	Short:         "Install modpack archives from the hosting API",
	Long:          "packgrab resolves and downloads the mods of a modpack archive and extracts its overrides.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

// loadSettings builds Settings from defaults, the optional config file
// and the environment.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// newInstaller wires the API and HTTP clients for a command invocation.
// Key precedence: --key, then --key-file, then the configured key file,
// then the default key file in the working directory.
func newInstaller(settings *config.Settings) (*install.Installer, error) {
	provider := key.Provider{Explicit: flagKey, File: flagKeyFile}
	if provider.File == "" && settings.KeyFile != key.DefaultKeyFile {
		provider.File = settings.KeyFile
	}
	apiKey, err := provider.Get()
	if err != nil {
		return nil, err
	}

	httpClient := pghttp.NewClient(pghttp.Options{
		Timeout:   settings.HTTPTimeout(),
		UserAgent: settings.UserAgent,
		APIKey:    apiKey,
	})
	api := curse.NewClient(httpClient, curse.Options{
		MaxRetries:    settings.MaxRetries,
		RetryCooldown: settings.RetryCooldown,
		RetryExponent: settings.RetryExponent,
	})

	return install.New(httpClient, api, settings, progressLogger()), nil
}

// progressLogger adapts install progress events to the logger.
func progressLogger() model.ProgressFunc {
	return func(event model.ProgressEvent) {
		switch event.Level {
		case model.LevelError:
			logger.Error(event.Message)
		case model.LevelWarning:
			logger.Warn(event.Message)
		case model.LevelVerbose:
			logger.Debug(event.Message)
		default:
			logger.Info(event.Message)
		}
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show verbose output")

	rootCmd.AddCommand(installCmd, findBadCmd, grabKeyCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.err != nil {
				logger.Error(exit.err.Error())
			}
			os.Exit(exit.code)
		}
		logger.Error(err.Error())
		os.Exit(exitConfig)
	}
}
