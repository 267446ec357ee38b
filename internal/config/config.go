// Package config holds the application configuration: which server to
// talk to, which containers to drill into, and the segmentation and
// output parameters.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config keys as used in the YAML config file and flag bindings.
const (
	KeyBaseURL          = "base_url"
	KeyExperimentMarker = "experiment_marker"
	KeyProjectID        = "project_id"
	KeyDatasetID        = "dataset_id"
	KeyImageID          = "image_id"
	KeyThreshold        = "threshold"
	KeyMinArea          = "min_area"
	KeySmoothWindow     = "smooth_window"
	KeyWorkers          = "workers"
	KeyOutputDir        = "output_dir"
	KeyMontageColumns   = "montage_columns"
	KeyMontageTile      = "montage_tile"
)

// Config holds the application configuration.
type Config struct {
	// BaseURL is the repository server, e.g. https://idr.openmicroscopy.org.
	BaseURL string `mapstructure:"base_url"`
	// ExperimentMarker filters the project list down to curated entries.
	ExperimentMarker string `mapstructure:"experiment_marker"`

	// Container selection for the full pipeline run.
	ProjectID int64 `mapstructure:"project_id"`
	DatasetID int64 `mapstructure:"dataset_id"`
	ImageID   int64 `mapstructure:"image_id"`

	// Segmentation parameters.
	Threshold    int `mapstructure:"threshold"`
	MinArea      int `mapstructure:"min_area"`
	SmoothWindow int `mapstructure:"smooth_window"`

	// Workers bounds concurrent thumbnail fetches.
	Workers int `mapstructure:"workers"`

	// Output settings.
	OutputDir      string `mapstructure:"output_dir"`
	MontageColumns int    `mapstructure:"montage_columns"`
	MontageTile    int    `mapstructure:"montage_tile"`
}

// Default returns a configuration with default values, pointed at the
// public IDR server.
func Default() Config {
	return Config{
		BaseURL:          "https://idr.openmicroscopy.org",
		ExperimentMarker: "/experiment",
		Threshold:        90,
		MinArea:          20,
		SmoothWindow:     7,
		Workers:          4,
		OutputDir:        "out",
		MontageColumns:   5,
		MontageTile:      96,
	}
}

// setDefaults seeds a viper instance with Default values.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyExperimentMarker, d.ExperimentMarker)
	v.SetDefault(KeyThreshold, d.Threshold)
	v.SetDefault(KeyMinArea, d.MinArea)
	v.SetDefault(KeySmoothWindow, d.SmoothWindow)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyOutputDir, d.OutputDir)
	v.SetDefault(KeyMontageColumns, d.MontageColumns)
	v.SetDefault(KeyMontageTile, d.MontageTile)
}

// Load reads configuration from an optional YAML file layered over the
// defaults. An empty path returns the defaults; a named file that does
// not exist is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be between 0 and 255")
	}
	if c.MinArea < 0 {
		return fmt.Errorf("min_area must not be negative")
	}
	if c.SmoothWindow < 0 {
		return fmt.Errorf("smooth_window must not be negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.MontageColumns < 1 {
		return fmt.Errorf("montage_columns must be at least 1")
	}
	if c.MontageTile < 16 {
		return fmt.Errorf("montage_tile must be at least 16")
	}
	return nil
}
