// Package config provides configuration loading and management for fracnet.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fracnet/pkg/digitise"
	"fracnet/pkg/threshold"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Threshold parameters controlling binarization of input rasters
	Threshold struct {
		// Method selects the thresholding strategy: otsu, adaptive or percentile
		Method string `yaml:"method"`

		// Invert flips the grayscale image before thresholding
		Invert bool `yaml:"invert"`

		// BlockSize is the local neighbourhood size, 0 for global/automatic
		BlockSize float64 `yaml:"blockSize"`

		// AdaptiveMethod is the local statistic for the adaptive strategy:
		// gaussian, mean or median
		AdaptiveMethod string `yaml:"adaptiveMethod"`

		// ModalBlur applies modal smoothing over a disk of this radius
		ModalBlur float64 `yaml:"modalBlur"`

		// Percentile is the rank for the percentile strategy, in [0, 1]
		Percentile float64 `yaml:"percentile"`
	} `yaml:"threshold"`

	// Digitise parameters controlling vectorization of the binary mask
	Digitise struct {
		// Invert flips foreground and background before skeletonization
		Invert bool `yaml:"invert"`

		// SimplifyTolerance reduces vertices with Douglas-Peucker when positive
		SimplifyTolerance float64 `yaml:"simplifyTolerance"`

		// MinBranchLength drops traced lines shorter than this when positive
		MinBranchLength float64 `yaml:"minBranchLength"`
	} `yaml:"digitise"`

	// Render parameters for PNG view export
	Render struct {
		// Width and Height are the output image size in pixels
		Width  int `yaml:"width"`
		Height int `yaml:"height"`

		// ShowGrid overlays coordinate grid lines
		ShowGrid bool `yaml:"showGrid"`

		// ShowScaleBar overlays a labelled scale bar
		ShowScaleBar bool `yaml:"showScaleBar"`

		// GridSpacing is the grid interval in map units
		GridSpacing float64 `yaml:"gridSpacing"`

		// ScaleBarLength is the scale bar length in map units
		ScaleBarLength float64 `yaml:"scaleBarLength"`
	} `yaml:"render"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default threshold parameters
	cfg.Threshold.Method = string(threshold.MethodOtsu)
	cfg.Threshold.AdaptiveMethod = string(threshold.AdaptiveGaussian)
	cfg.Threshold.Percentile = 0.05

	// Set default digitise parameters (no simplification, no filtering)
	cfg.Digitise.SimplifyTolerance = 0.0
	cfg.Digitise.MinBranchLength = 0.0

	// Set default render parameters
	cfg.Render.Width = 1024
	cfg.Render.Height = 768
	cfg.Render.GridSpacing = 100
	cfg.Render.ScaleBarLength = 100

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
}

// ThresholdOptions converts the threshold section into pipeline options
func (cfg *Config) ThresholdOptions() threshold.Options {
	return threshold.Options{
		Method:         threshold.Method(cfg.Threshold.Method),
		Invert:         cfg.Threshold.Invert,
		BlockSize:      cfg.Threshold.BlockSize,
		AdaptiveMethod: threshold.AdaptiveMethod(cfg.Threshold.AdaptiveMethod),
		ModalBlur:      cfg.Threshold.ModalBlur,
		Percentile:     cfg.Threshold.Percentile,
	}
}

// DigitiseOptions converts the digitise section into pipeline options
func (cfg *Config) DigitiseOptions() digitise.Options {
	return digitise.Options{
		Invert:            cfg.Digitise.Invert,
		SimplifyTolerance: cfg.Digitise.SimplifyTolerance,
		MinBranchLength:   cfg.Digitise.MinBranchLength,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
