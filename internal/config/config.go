package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the dashboard server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Build  BuildConfig  `yaml:"build"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"` // directory holding aggregates.db and sample.db
}

// BuildConfig configures the offline aggregation run.
type BuildConfig struct {
	Input      string `yaml:"input"` // raw CSV path
	SampleSize int    `yaml:"sample_size"`
	Seed       int64  `yaml:"seed"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			DataDir: "data",
		},
		Build: BuildConfig{
			SampleSize: 50_000,
			Seed:       42,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
