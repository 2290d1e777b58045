package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"stubgen/internal/gen"
)

const (
	configName      = ".stubgen"
	configType      = "yaml"
	envPrefix       = "STUBGEN"
	envKeySeparator = "_"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	def := gen.DefaultSettings()

	v.SetDefault("generation.indent_unit", def.IndentUnit)
	v.SetDefault("generation.indent_level", def.IndentLevel)
	v.SetDefault("generation.line_delimiter", def.LineDelimiter)
	v.SetDefault("generation.import_order", def.ImportOrder)
	v.SetDefault("generation.import_threshold", def.ImportThreshold)
	v.SetDefault("generation.body", string(def.Body))
	v.SetDefault("generation.comments", def.Comments)
	v.SetDefault("generation.delegate", def.Delegate)
	v.SetDefault("generation.deprecate", def.Deprecate)

	v.SetDefault("analysis.provider", DefaultProvider)
	v.SetDefault("analysis.pkg_path", "")

	v.SetDefault("batch.jobs", DefaultJobs)

	v.SetDefault("log.level", DefaultLogLevel)
}
