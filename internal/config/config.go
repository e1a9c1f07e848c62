// Package config provides configuration management for the preprocessing
// pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for one pipeline run
type Config struct {
	// Schema Configuration
	NumericColumns     []string `json:"numeric_columns" yaml:"numeric_columns"`         // Columns routed to the numeric sub-pipeline
	CategoricalColumns []string `json:"categorical_columns" yaml:"categorical_columns"` // Columns routed to the categorical sub-pipeline
	TargetColumn       string   `json:"target_column" yaml:"target_column"`             // Label column separated before routing

	// Rebalancing Configuration
	RandomSeed int64 `json:"random_seed" yaml:"random_seed"` // Seed for synthetic sample generation
	KNeighbors int   `json:"k_neighbors" yaml:"k_neighbors"` // Neighbors considered when interpolating

	// Artifact Configuration
	ArtifactsDir     string `json:"artifacts_dir" yaml:"artifacts_dir"`         // Directory for persisted transform state
	PersistArtifacts bool   `json:"persist_artifacts" yaml:"persist_artifacts"` // Write the fitted preprocessor to disk

	// Debugging Configuration
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"` // Enable verbose logging
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultTargetColumn = "Failure Type"
	DefaultArtifactsDir = "artifacts"
	DefaultRandomSeed   = 42
	DefaultKNeighbors   = 5
)

// DefaultNumericColumns lists the sensor features of the machine
// maintenance schema in routing order.
var DefaultNumericColumns = []string{
	"Air temperature K",
	"Process temperature K",
	"Rotational speed rpm",
	"Torque Nm",
	"Tool wear min",
}

// DefaultCategoricalColumns lists the categorical features in routing order.
var DefaultCategoricalColumns = []string{"Type"}

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		NumericColumns:     append([]string(nil), DefaultNumericColumns...),
		CategoricalColumns: append([]string(nil), DefaultCategoricalColumns...),
		TargetColumn:       DefaultTargetColumn,
		RandomSeed:         DefaultRandomSeed,
		KNeighbors:         DefaultKNeighbors,
		ArtifactsDir:       DefaultArtifactsDir,
		PersistArtifacts:   false,
		VerboseLogging:     false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if len(c.NumericColumns) == 0 && len(c.CategoricalColumns) == 0 {
		return fmt.Errorf("at least one feature column must be configured")
	}

	if c.TargetColumn == "" {
		return fmt.Errorf("TargetColumn must not be empty")
	}

	seen := make(map[string]bool)
	for _, col := range append(append([]string(nil), c.NumericColumns...), c.CategoricalColumns...) {
		if seen[col] {
			return fmt.Errorf("column %q configured more than once", col)
		}
		seen[col] = true
	}
	if seen[c.TargetColumn] {
		return fmt.Errorf("target column %q also configured as a feature", c.TargetColumn)
	}

	if c.KNeighbors <= 0 {
		return fmt.Errorf("KNeighbors must be positive, got %d", c.KNeighbors)
	}

	if c.ArtifactsDir == "" {
		return fmt.Errorf("ArtifactsDir must not be empty")
	}

	return nil
}

// PreprocessorPath returns the location where the fitted feature-transform
// artifact is (or would be) persisted.
func (c Config) PreprocessorPath() string {
	return filepath.Join(c.ArtifactsDir, "preprocessor.json")
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data. Keys absent from the
// document keep their default values; explicit values survive as written,
// including a zero random seed.
func LoadFromJSON(data []byte) (Config, error) {
	config := NewConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config, nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML).
// Keys absent from the file keep their default values.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	config := NewConfig()
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("TABPREP_TARGET_COLUMN"); val != "" {
		config.TargetColumn = val
	}

	if val := os.Getenv("TABPREP_NUMERIC_COLUMNS"); val != "" {
		config.NumericColumns = splitList(val)
	}

	if val := os.Getenv("TABPREP_CATEGORICAL_COLUMNS"); val != "" {
		config.CategoricalColumns = splitList(val)
	}

	if val := os.Getenv("TABPREP_RANDOM_SEED"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.RandomSeed = parsed
		}
	}

	if val := os.Getenv("TABPREP_K_NEIGHBORS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.KNeighbors = parsed
		}
	}

	if val := os.Getenv("TABPREP_ARTIFACTS_DIR"); val != "" {
		config.ArtifactsDir = val
	}

	if val := os.Getenv("TABPREP_PERSIST_ARTIFACTS"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.PersistArtifacts = parsed
		}
	}

	if val := os.Getenv("TABPREP_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	return config
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
