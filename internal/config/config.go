// Package config loads the pipeline configuration from environment
// variables and an optional YAML file. Environment variables win over
// the file, which wins over defaults.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Inputs   InputsConfig   `yaml:"inputs" envconfig:"INPUTS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// DatabaseConfig contains the Postgres connection settings.
type DatabaseConfig struct {
	URL      string `yaml:"url" envconfig:"URL" validate:"required"`
	MaxConns int32  `yaml:"max_conns" envconfig:"MAX_CONNS" default:"4" validate:"gte=1,lte=64"`
}

// InputsConfig locates the source report files for one batch run.
type InputsConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports" validate:"required"`
	StocksDir  string `yaml:"stocks_dir" envconfig:"STOCKS_DIR" default:"stocks" validate:"required"`
}

// OutputConfig locates the artifact directory.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"public" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// Load reads the optional YAML file first, then lets environment
// variables override it. envconfig fills defaults for anything still
// unset, so precedence is env, then file, then defaults.
func Load() (*Config, error) {
	var cfg Config

	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("CMX", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// DATABASE_URL is the conventional name on hosted platforms; honor
	// it when the prefixed variable is absent.
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints on the assembled configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// configFilePath returns the first config file found in the common
// locations, or empty when only env vars apply.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration with a placeholder
// database URL. Used by tests; Load is the production entry point.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:      "postgres://localhost:5432/cmx?sslmode=disable",
			MaxConns: 4,
		},
		Inputs: InputsConfig{
			ReportsDir: "reports",
			StocksDir:  "stocks",
		},
		Output: OutputConfig{
			Dir: "public",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/pipeline.log",
		},
	}
}
