package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// UnresolvedPolicy controls what happens to order lines whose region or
// product foreign key did not resolve during the join step.
type UnresolvedPolicy string

const (
	// UnresolvedBucket keeps unresolved rows in their own labelled group.
	UnresolvedBucket UnresolvedPolicy = "bucket"
	// UnresolvedDrop excludes unresolved rows from keyed aggregations.
	UnresolvedDrop UnresolvedPolicy = "drop"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/salespulse.log"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against the executable directory, never the working directory.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"data/charts"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// AnalysisConfig contains knobs for the aggregation and reporting steps.
type AnalysisConfig struct {
	TopN            int              `yaml:"top_n" envconfig:"TOP_N" default:"10" validate:"min=1"`
	Unresolved      UnresolvedPolicy `yaml:"unresolved" envconfig:"UNRESOLVED" default:"bucket" validate:"oneof=bucket drop"`
	UnresolvedLabel string           `yaml:"unresolved_label" envconfig:"UNRESOLVED_LABEL" default:"Unknown"`
	CurrencyCode    string           `yaml:"currency_code" envconfig:"CURRENCY_CODE" default:"USD" validate:"len=3"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.ChartsDir == "" {
		envConfig.Paths.ChartsDir = fileConfig.Paths.ChartsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Analysis.TopN == 0 {
		envConfig.Analysis.TopN = fileConfig.Analysis.TopN
	}
	if envConfig.Analysis.Unresolved == "" {
		envConfig.Analysis.Unresolved = fileConfig.Analysis.Unresolved
	}
	if envConfig.Analysis.UnresolvedLabel == "" {
		envConfig.Analysis.UnresolvedLabel = fileConfig.Analysis.UnresolvedLabel
	}
	if envConfig.Analysis.CurrencyCode == "" {
		envConfig.Analysis.CurrencyCode = fileConfig.Analysis.CurrencyCode
	}

	return envConfig
}

// Validate validates the configuration using struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	// JSON is the only supported log format; normalize silently.
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/salespulse.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "data/reports",
			ChartsDir:  "data/charts",
			LogsDir:    "logs",
		},
		Analysis: AnalysisConfig{
			TopN:            10,
			Unresolved:      UnresolvedBucket,
			UnresolvedLabel: "Unknown",
			CurrencyCode:    "USD",
		},
	}
}
