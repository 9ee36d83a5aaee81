// Package config provides configuration management for packgrab.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from an optional config file (any format viper
//     understands: JSON, YAML, TOML) with PACKGRAB_* environment
//     variable overrides
//   - Validation of the knobs that guard shared resources
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Key read from ./.cfkey
//	// 4 concurrent downloads, 3 attempts, exponential backoff
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/packgrab.yaml")
//	if err != nil {
//	    // file unreadable or malformed
//	}
//	if err := settings.Validate(); err != nil {
//	    // out-of-range values, e.g. parallelism > config.MaxParallelism
//	}
//
// # Configuration Options
//
// Settings includes options for:
//   - Key file location
//   - Concurrent download limit (bounded by MaxParallelism)
//   - Retry budget and backoff curve
//   - HTTP timeout and User-Agent
//   - Install layout (mods subdirectory, overrides extraction)
//   - Optional-mod failure policy
package config
