package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// MaxParallelism is the hard upper bound on concurrent downloads.
// Anything higher risks tripping the hosting API's rate limits.
const MaxParallelism = 16

// Settings holds all configuration options.
type Settings struct {
	// Key settings
	KeyFile string `json:"key_file" mapstructure:"key_file"`

	// Download settings
	Parallelism   int     `json:"parallelism" mapstructure:"parallelism"`
	MaxRetries    int     `json:"max_retries" mapstructure:"max_retries"`
	RetryCooldown float64 `json:"retry_cooldown" mapstructure:"retry_cooldown"`
	RetryExponent float64 `json:"retry_exponent" mapstructure:"retry_exponent"`

	// HTTP settings
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds" mapstructure:"http_timeout_seconds"`
	UserAgent          string `json:"user_agent" mapstructure:"user_agent"`

	// Install layout
	ModsSubdir       string `json:"mods_subdir" mapstructure:"mods_subdir"`
	ExtractOverrides bool   `json:"extract_overrides" mapstructure:"extract_overrides"`

	// Reporting policy: when true, blocked or failed mods that the
	// manifest marks as optional still demote the run classification.
	FailOnOptional bool `json:"fail_on_optional" mapstructure:"fail_on_optional"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		KeyFile:            ".cfkey",
		Parallelism:        4,
		MaxRetries:         3,
		RetryCooldown:      0.5,
		RetryExponent:      2.0,
		HTTPTimeoutSeconds: 60,
		UserAgent:          "packgrab",
		ModsSubdir:         "mods",
		ExtractOverrides:   true,
		FailOnOptional:     false,
	}
}

// Load reads settings from an optional config file with PACKGRAB_*
// environment variable overrides. An empty path returns the defaults
// (plus environment overrides); an unreadable or malformed file is an
// error.
func Load(path string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("key_file", defaults.KeyFile)
	v.SetDefault("parallelism", defaults.Parallelism)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("retry_cooldown", defaults.RetryCooldown)
	v.SetDefault("retry_exponent", defaults.RetryExponent)
	v.SetDefault("http_timeout_seconds", defaults.HTTPTimeoutSeconds)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("mods_subdir", defaults.ModsSubdir)
	v.SetDefault("extract_overrides", defaults.ExtractOverrides)
	v.SetDefault("fail_on_optional", defaults.FailOnOptional)

	v.SetEnvPrefix("PACKGRAB")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return settings, nil
}

// Validate checks bounds on the settings that guard shared resources.
func (s *Settings) Validate() error {
	if s.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", s.Parallelism)
	}
	if s.Parallelism > MaxParallelism {
		return fmt.Errorf("parallelism must be at most %d, got %d", MaxParallelism, s.Parallelism)
	}
	if s.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", s.MaxRetries)
	}
	if s.RetryCooldown <= 0 {
		return fmt.Errorf("retry_cooldown must be positive, got %g", s.RetryCooldown)
	}
	if s.RetryExponent < 1 {
		return fmt.Errorf("retry_exponent must be at least 1, got %g", s.RetryExponent)
	}
	if s.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("http_timeout_seconds must be at least 1, got %d", s.HTTPTimeoutSeconds)
	}
	if s.ModsSubdir == "" {
		return errors.New("mods_subdir must not be empty")
	}
	return nil
}

// HTTPTimeout returns the HTTP timeout as a duration.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// RetryDelay returns the backoff delay before retry attempt number
// tries (zero-based): cooldown * exponent^tries.
func (s *Settings) RetryDelay(tries int) time.Duration {
	delay := s.RetryCooldown
	for i := 0; i < tries; i++ {
		delay *= s.RetryExponent
	}
	return time.Duration(delay * float64(time.Second))
}
