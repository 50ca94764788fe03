/*
Package config handles loading, validating, and saving configuration.

Configuration lives in ~/.markovsuggestor.json:

	{
	  "model":      {"order": 3},
	  "ranker":     {"alpha": 0.6, "topN": 10},
	  "classifier": {"minConfidence": 0.55},
	  "catalog":    {"databasePath": ""}
	}

A missing file yields the defaults; out-of-range values are rejected at
load time and never applied partially.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	Model      ModelConfig      `json:"model"`
	Ranker     RankerConfig     `json:"ranker"`
	Classifier ClassifierConfig `json:"classifier"`
	Catalog    CatalogConfig    `json:"catalog"`
}

// ModelConfig configures the token-sequence model.
type ModelConfig struct {
	// Order is the Markov conditioning order k, in [1,4].
	Order int `json:"order"`
}

// RankerConfig configures score fusion.
type RankerConfig struct {
	// Alpha is the fusion weight on the sequence signal, in [0,1].
	Alpha float64 `json:"alpha"`

	// TopN bounds the similarity candidates, at least 1.
	TopN int `json:"topN"`
}

// ClassifierConfig configures the structure classifier.
type ClassifierConfig struct {
	// MinConfidence is the threshold below which fragments stay
	// unclassified, in [0,1].
	MinConfidence float64 `json:"minConfidence"`
}

// CatalogConfig configures catalog persistence.
type CatalogConfig struct {
	// DatabasePath overrides the default sqlite location. Empty means
	// ~/.markovsuggestor/catalog.db.
	DatabasePath string `json:"databasePath,omitempty"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		Model:      ModelConfig{Order: 3},
		Ranker:     RankerConfig{Alpha: 0.6, TopN: 10},
		Classifier: ClassifierConfig{MinConfidence: 0.55},
	}
}

// DefaultConfigPath returns the path to ~/.markovsuggestor.json.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".markovsuggestor.json"), nil
}

// DefaultDatabasePath returns ~/.markovsuggestor/catalog.db, honoring an
// override from the config.
func (c *Config) DefaultDatabasePath() (string, error) {
	if c.Catalog.DatabasePath != "" {
		return c.Catalog.DatabasePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".markovsuggestor", "catalog.db"), nil
}

// Load reads the configuration from the default path, falling back to
// defaults when no file exists.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Start from defaults so absent fields keep their documented values.
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
