// Package config loads stubgen settings from a config file, environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"

	"stubgen/internal/gen"
)

// Provider names.
const (
	ProviderSource   = "source"
	ProviderPackages = "packages"
)

// Default values.
const (
	DefaultProvider = ProviderSource
	DefaultJobs     = 4
	DefaultLogLevel = "info"
)

var (
	// ErrInvalidProvider is returned for an unknown provider name.
	ErrInvalidProvider = errors.New("invalid provider")
	// ErrInvalidJobs is returned when jobs is not positive.
	ErrInvalidJobs = errors.New("jobs must be positive")
	// ErrInvalidLogLevel is returned for an unknown log level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config is the top-level stubgen configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Generation gen.Settings   `mapstructure:"generation"`
	Analysis   AnalysisConfig `mapstructure:"analysis"`
	Batch      BatchConfig    `mapstructure:"batch"`
	Log        LogConfig      `mapstructure:"log"`
}

// AnalysisConfig selects how buffers are type-checked.
type AnalysisConfig struct {
	// Provider is "source" (go/types over the directory) or "packages"
	// (golang.org/x/tools/go/packages).
	Provider string `mapstructure:"provider"`
	// PkgPath is the import path given to source-checked packages.
	PkgPath string `mapstructure:"pkg_path"`
}

// BatchConfig holds batch runner knobs.
type BatchConfig struct {
	Jobs int `mapstructure:"jobs"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Generation.Validate(); err != nil {
		return err
	}

	switch c.Analysis.Provider {
	case ProviderSource, ProviderPackages:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Analysis.Provider)
	}

	if c.Batch.Jobs <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidJobs, c.Batch.Jobs)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	return nil
}
