// Package config loads run settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Report formats accepted by Report.Format.
var reportFormats = []string{"text", "markdown", "json", "yaml"}

// Log modes accepted by LogMode.
var logModes = []string{"dev", "prod", "nop"}

// Config holds all settings of one pipeline run.
// Environment variables always override YAML values.
type Config struct {
	// DataDir holds ratings.csv, movies.csv, tags.csv and links.csv.
	DataDir string `yaml:"data_dir" env:"MOVIELENS_DATA_DIR" env-default:"ml-latest-small"`

	// Output is the enriched CSV path. Empty skips the export.
	Output string `yaml:"output" env:"MOVIELENS_OUTPUT" env-default:"enhanced_movielens_dataset.csv"`

	Report ReportConfig `yaml:"report"`

	Thresholds ThresholdConfig `yaml:"thresholds"`

	LogMode string `yaml:"log_mode" env:"MOVIELENS_LOG_MODE" env-default:"dev"`
}

// ReportConfig selects the renderer and its sink.
type ReportConfig struct {
	Format string `yaml:"format" env:"MOVIELENS_REPORT_FORMAT" env-default:"text"`
	// Out is the report file. Empty writes to stdout.
	Out string `yaml:"out" env:"MOVIELENS_REPORT_OUT" env-default:""`
}

// ThresholdConfig tunes the insight queries.
type ThresholdConfig struct {
	HighRating float64 `yaml:"high_rating" env:"MOVIELENS_HIGH_RATING" env-default:"3.5"`
	HeavyUser  int     `yaml:"heavy_user" env:"MOVIELENS_HEAVY_USER" env-default:"100"`
}

// Load reads path if it exists, then applies environment overrides and
// defaults. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	fromFile := false
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			fromFile = true
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if fromFile {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerated fields and thresholds.
func (c *Config) Validate() error {
	c.Report.Format = strings.ToLower(strings.TrimSpace(c.Report.Format))
	c.LogMode = strings.ToLower(strings.TrimSpace(c.LogMode))

	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if !contains(reportFormats, c.Report.Format) {
		return fmt.Errorf("report.format %q must be one of %s", c.Report.Format, strings.Join(reportFormats, ", "))
	}
	if !contains(logModes, c.LogMode) {
		return fmt.Errorf("log_mode %q must be one of %s", c.LogMode, strings.Join(logModes, ", "))
	}
	if c.Thresholds.HighRating < 0.5 || c.Thresholds.HighRating > 5.0 {
		return fmt.Errorf("thresholds.high_rating %v must be within 0.5..5.0", c.Thresholds.HighRating)
	}
	if c.Thresholds.HeavyUser < 1 {
		return fmt.Errorf("thresholds.heavy_user %d must be positive", c.Thresholds.HeavyUser)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
