// Package config loads insightq configuration from an optional file and
// INSIGHTQ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "INSIGHTQ_"

// DatasetConfig describes a dataset to load at startup
type DatasetConfig struct {
	ID   string `mapstructure:"id"`
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"` // file or glob pattern
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`  // DEBUG, INFO, WARN, ERROR
	Format string `mapstructure:"format"` // text, json
}

// OutputConfig holds result formatting settings
type OutputConfig struct {
	Format string `mapstructure:"format"` // jsonl, json, csv, table
	Limit  int    `mapstructure:"limit"`  // 0 = unlimited
}

// Config is the complete configuration
type Config struct {
	Log      LogConfig       `mapstructure:"log"`
	Output   OutputConfig    `mapstructure:"output"`
	Datasets []DatasetConfig `mapstructure:"datasets"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "WARN")
	v.SetDefault("log.format", "text")
	v.SetDefault("output.format", "table")
	v.SetDefault("output.limit", 0)
}

// Load reads configuration from path (optional; YAML, JSON or TOML by
// extension) and then applies environment overrides.
//
// Environment keys map onto nested settings by replacing "_" with ".":
// INSIGHTQ_LOG_LEVEL=DEBUG sets log.level.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Iterate env vars explicitly; AutomaticEnv does not populate keys
	// that Unmarshal has never seen.
	for _, envStr := range os.Environ() {
		key, value, ok := strings.Cut(envStr, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		propKey := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		propKey = strings.ReplaceAll(propKey, "_", ".")
		v.Set(propKey, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that viper cannot type-check
func (c *Config) Validate() error {
	if c.Output.Limit < 0 {
		return fmt.Errorf("output.limit must be non-negative, got %d", c.Output.Limit)
	}
	for i, ds := range c.Datasets {
		if ds.ID == "" || ds.Kind == "" || ds.Path == "" {
			return fmt.Errorf("datasets[%d]: id, kind and path are required", i)
		}
	}
	return nil
}
