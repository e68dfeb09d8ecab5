// Package config provides configuration loading and management for csvw-ontomap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	semconfig "github.com/c360studio/semstreams/config"
	"gopkg.in/yaml.v3"
)

// Config represents the complete csvw-ontomap configuration
type Config struct {
	Ontomap   OntomapConfig   `yaml:"ontomap"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	VectorDB  VectorDBConfig  `yaml:"vectordb"`
}

// OntomapConfig controls how profiled columns are mapped to ontology concepts.
type OntomapConfig struct {
	// CommentBestMatches is the number of matches listed in the column
	// comment (0 disables the comment)
	CommentBestMatches int `yaml:"comment_best_matches"`
	// SearchThreshold is the minimum similarity for a match to become the
	// column propertyUrl (0.0-1.0)
	SearchThreshold float64 `yaml:"search_threshold"`
}

// EmbeddingConfig configures the embedding provider
type EmbeddingConfig struct {
	// Provider is the registered provider name (tei, openai, ollama, lexical)
	Provider string `yaml:"provider"`
	// Endpoint overrides the provider's default base URL
	Endpoint string `yaml:"endpoint"`
	// Model is the embedding model name
	Model string `yaml:"model"`
	// Dimensions is the vector size produced by Model
	Dimensions int `yaml:"dimensions"`
	// APIKey is sent as a bearer token when set
	APIKey string `yaml:"api_key"`
	// Timeout bounds a single embedding request
	Timeout time.Duration `yaml:"timeout"`
	// BatchSize is the maximum number of texts per request
	BatchSize int `yaml:"batch_size"`
}

// VectorDBConfig configures the persistent vector index
type VectorDBConfig struct {
	// Path is the directory holding the index database
	Path string `yaml:"path"`
	// Collection is the collection holding ontology concepts
	Collection string `yaml:"collection"`
}

const (
	// DefaultModel is the sentence embedding model used for labels and titles.
	DefaultModel = "BAAI/bge-base-en"
	// DefaultDimensions is the vector size of DefaultModel.
	DefaultDimensions = 768
	// DefaultCollection is the collection concepts are indexed into.
	DefaultCollection = "csvw-ontomap"
	// DefaultVectorDBPath is where the index lives unless overridden.
	DefaultVectorDBPath = "data/vectordb"
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ontomap: OntomapConfig{
			CommentBestMatches: 0,
			SearchThreshold:    0,
		},
		Embedding: EmbeddingConfig{
			Provider:   "tei",
			Model:      DefaultModel,
			Dimensions: DefaultDimensions,
			Timeout:    60 * time.Second,
			BatchSize:  256,
		},
		VectorDB: VectorDBConfig{
			Path:       DefaultVectorDBPath,
			Collection: DefaultCollection,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.Ontomap.Validate(); err != nil {
		return err
	}
	if c.Embedding.Provider == "" {
		return fmt.Errorf("embedding.provider is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive")
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive")
	}
	if c.VectorDB.Path == "" {
		return fmt.Errorf("vectordb.path is required")
	}
	if c.VectorDB.Collection == "" {
		return fmt.Errorf("vectordb.collection is required")
	}
	return nil
}

// Validate checks the mapping options
func (o OntomapConfig) Validate() error {
	if o.CommentBestMatches < 0 {
		return fmt.Errorf("ontomap.comment_best_matches must not be negative")
	}
	if o.SearchThreshold < 0 || o.SearchThreshold > 1 {
		return fmt.Errorf("ontomap.search_threshold must be between 0 and 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the
// defaults. ${VAR:-default} references are expanded before parsing.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.ApplyFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyFile decodes a YAML file onto c. Keys absent from the file keep
// their current values, so files can be layered in precedence order. On
// error c is left unchanged.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	expanded := semconfig.ExpandEnvWithDefaults(string(data))

	next := *c
	if err := yaml.Unmarshal([]byte(expanded), &next); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	*c = next
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
