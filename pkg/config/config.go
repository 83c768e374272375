// Package config provides configuration loading and management for wassnn.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the imputer configuration loaded from YAML
type Config struct {
	// Estimator parameters
	Estimator struct {
		// NeighborMode selects the neighbor direction: "ii" compares columns
		// (item-item), "uu" compares rows (user-user)
		NeighborMode string `yaml:"neighborMode"`

		// EtaAxis selects the axis for axis-wise eta searches; the
		// block-style search performed here accepts but does not consult it
		EtaAxis int `yaml:"etaAxis"`
	} `yaml:"estimator"`

	// Hyperparameter search parameters
	Search struct {
		// Algorithm selects the search driver: "random" or "grid"
		Algorithm string `yaml:"algorithm"`

		// EtaMin is the lower bound of the eta search space
		EtaMin float64 `yaml:"etaMin"`

		// EtaMax is the upper bound of the eta search space
		EtaMax float64 `yaml:"etaMax"`

		// MaxEvals is the number of candidate thresholds the search evaluates
		MaxEvals int `yaml:"maxEvals"`

		// Seed seeds the random source; 0 uses the system time (not reproducible)
		Seed int64 `yaml:"seed"`
	} `yaml:"search"`

	// Cross-validation parameters
	CrossValidation struct {
		// Folds is the number of folds; 0 selects leave-one-out
		Folds int `yaml:"folds"`
	} `yaml:"crossValidation"`

	// Runtime parameters
	Runtime struct {
		// Workers specifies how many goroutines evaluate folds in parallel
		Workers int `yaml:"workers"`
	} `yaml:"runtime"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default estimator parameters
	cfg.Estimator.NeighborMode = "ii"
	cfg.Estimator.EtaAxis = 0

	// Set default search parameters
	cfg.Search.Algorithm = "random"
	cfg.Search.EtaMin = 0.0
	cfg.Search.EtaMax = 1.0
	cfg.Search.MaxEvals = 20
	cfg.Search.Seed = 0

	// Set default cross-validation parameters
	cfg.CrossValidation.Folds = 0 // leave-one-out

	// Set default runtime parameters
	cfg.Runtime.Workers = runtime.NumCPU() // Use all available cores by default

	return cfg
}

// Validate checks the configuration for values the imputer cannot accept
func (cfg *Config) Validate() error {
	switch cfg.Estimator.NeighborMode {
	case "ii", "uu":
	default:
		return fmt.Errorf("invalid neighbor mode %q: must be \"ii\" or \"uu\"", cfg.Estimator.NeighborMode)
	}

	if cfg.Estimator.EtaAxis != 0 && cfg.Estimator.EtaAxis != 1 {
		return fmt.Errorf("invalid eta axis %d: must be 0 or 1", cfg.Estimator.EtaAxis)
	}

	switch cfg.Search.Algorithm {
	case "random", "grid":
	default:
		return fmt.Errorf("invalid search algorithm %q: must be \"random\" or \"grid\"", cfg.Search.Algorithm)
	}

	if cfg.Search.EtaMax <= cfg.Search.EtaMin {
		return fmt.Errorf("invalid eta bounds [%g, %g]: max must exceed min", cfg.Search.EtaMin, cfg.Search.EtaMax)
	}

	if cfg.Search.MaxEvals < 1 {
		return fmt.Errorf("invalid max evals %d: must be at least 1", cfg.Search.MaxEvals)
	}

	if cfg.CrossValidation.Folds == 1 || cfg.CrossValidation.Folds < 0 {
		return fmt.Errorf("invalid fold count %d: must be 0 (leave-one-out) or at least 2", cfg.CrossValidation.Folds)
	}

	if cfg.Runtime.Workers < 0 {
		return fmt.Errorf("invalid worker count %d: must not be negative", cfg.Runtime.Workers)
	}

	return nil
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
