package config

import (
	"os"
	"path/filepath"
	"testing"
)

// createTempDir creates a temporary directory for test files
func createTempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "wassnn-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	return dir
}

// TestDefaultConfig verifies the default values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Estimator.NeighborMode != "ii" {
		t.Errorf("Expected default neighbor mode ii, got %s", cfg.Estimator.NeighborMode)
	}
	if cfg.Estimator.EtaAxis != 0 {
		t.Errorf("Expected default eta axis 0, got %d", cfg.Estimator.EtaAxis)
	}
	if cfg.Search.Algorithm != "random" {
		t.Errorf("Expected default search algorithm random, got %s", cfg.Search.Algorithm)
	}
	if cfg.Search.EtaMin != 0 || cfg.Search.EtaMax != 1 {
		t.Errorf("Expected default eta bounds [0, 1], got [%g, %g]", cfg.Search.EtaMin, cfg.Search.EtaMax)
	}
	if cfg.Search.MaxEvals != 20 {
		t.Errorf("Expected 20 default evaluations, got %d", cfg.Search.MaxEvals)
	}
	if cfg.CrossValidation.Folds != 0 {
		t.Errorf("Expected leave-one-out by default, got %d folds", cfg.CrossValidation.Folds)
	}
	if cfg.Runtime.Workers < 1 {
		t.Errorf("Expected at least one worker by default, got %d", cfg.Runtime.Workers)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected the default configuration to validate, got %v", err)
	}
}

// TestValidate verifies that each invalid field is rejected
func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"unknown neighbor mode", func(cfg *Config) { cfg.Estimator.NeighborMode = "xy" }},
		{"eta axis out of range", func(cfg *Config) { cfg.Estimator.EtaAxis = 2 }},
		{"unknown search algorithm", func(cfg *Config) { cfg.Search.Algorithm = "annealing" }},
		{"equal eta bounds", func(cfg *Config) { cfg.Search.EtaMax = cfg.Search.EtaMin }},
		{"inverted eta bounds", func(cfg *Config) { cfg.Search.EtaMin = 2; cfg.Search.EtaMax = 1 }},
		{"zero max evals", func(cfg *Config) { cfg.Search.MaxEvals = 0 }},
		{"single fold", func(cfg *Config) { cfg.CrossValidation.Folds = 1 }},
		{"negative folds", func(cfg *Config) { cfg.CrossValidation.Folds = -2 }},
		{"negative workers", func(cfg *Config) { cfg.Runtime.Workers = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}

// TestSaveAndLoadConfig verifies that a saved configuration round-trips
func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	cfg := DefaultConfig()
	cfg.Estimator.NeighborMode = "uu"
	cfg.Search.Algorithm = "grid"
	cfg.Search.EtaMax = 50
	cfg.Search.MaxEvals = 7
	cfg.Search.Seed = 42
	cfg.CrossValidation.Folds = 5

	configPath := filepath.Join(tmpDir, "nested", "config.yaml")
	if err := SaveConfig(cfg, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Estimator.NeighborMode != "uu" {
		t.Errorf("Expected neighbor mode uu, got %s", loaded.Estimator.NeighborMode)
	}
	if loaded.Search.Algorithm != "grid" || loaded.Search.EtaMax != 50 {
		t.Errorf("Expected grid search up to eta 50, got %s up to %g",
			loaded.Search.Algorithm, loaded.Search.EtaMax)
	}
	if loaded.Search.MaxEvals != 7 || loaded.Search.Seed != 42 {
		t.Errorf("Expected 7 evaluations with seed 42, got %d with %d",
			loaded.Search.MaxEvals, loaded.Search.Seed)
	}
	if loaded.CrossValidation.Folds != 5 {
		t.Errorf("Expected 5 folds, got %d", loaded.CrossValidation.Folds)
	}
}

// TestLoadConfigMissingFile verifies that a missing file yields the
// defaults rather than an error
func TestLoadConfigMissingFile(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	cfg, err := LoadConfig(filepath.Join(tmpDir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got error: %v", err)
	}
	if cfg.Estimator.NeighborMode != "ii" || cfg.Search.MaxEvals != 20 {
		t.Error("Expected the default configuration for a missing file")
	}
}

// TestLoadConfigMalformed verifies that invalid YAML is reported
func TestLoadConfigMalformed(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("estimator: [not: a: mapping"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("Expected an error for malformed YAML")
	}
}

// TestLoadConfigPartial verifies that omitted fields keep their defaults
func TestLoadConfigPartial(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	partial := "search:\n  maxEvals: 50\n"
	if err := os.WriteFile(configPath, []byte(partial), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Search.MaxEvals != 50 {
		t.Errorf("Expected the file's 50 evaluations, got %d", cfg.Search.MaxEvals)
	}
	if cfg.Estimator.NeighborMode != "ii" || cfg.Search.Algorithm != "random" {
		t.Error("Expected omitted fields to keep their defaults")
	}
}

// TestCreateDefaultConfigFile verifies that the generated file loads back
// as the defaults
func TestCreateDefaultConfigFile(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := CreateDefaultConfigFile(configPath); err != nil {
		t.Fatalf("Failed to create default config file: %v", err)
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("Expected the generated configuration to validate, got %v", err)
	}
}
