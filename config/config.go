// Package config provides configuration loading and management for sintology.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/sintology/vocabulary/owl"
)

// Config represents the complete sintology configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Ontology OntologyConfig `yaml:"ontology"`
	Watch    WatchConfig    `yaml:"watch"`
}

// PathsConfig configures input and output locations
type PathsConfig struct {
	// ERD is the markdown document holding the mermaid diagram
	ERD string `yaml:"erd"`
	// Turtle is the ontology output path
	Turtle string `yaml:"turtle"`
	// JSON is the manifest output path
	JSON string `yaml:"json"`
	// NTriples is an optional N-Triples output path (empty = not written)
	NTriples string `yaml:"ntriples"`
	// Data is the graph store consumed by the node and ingest commands
	Data string `yaml:"data"`
}

// OntologyConfig configures the emitted ontology
type OntologyConfig struct {
	// Namespace is the IRI bound to the empty prefix
	Namespace string `yaml:"namespace"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long to wait for more changes before regenerating
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			ERD:    filepath.Join("erd", "erd.md"),
			Turtle: filepath.Join("ontology", "sintology.ttl"),
			JSON:   filepath.Join("ontology", "ontology.json"),
			Data:   filepath.Join("data", "graph.json"),
		},
		Ontology: OntologyConfig{
			Namespace: owl.DefaultNamespace,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Paths.ERD == "" {
		return fmt.Errorf("paths.erd is required")
	}
	if c.Paths.Turtle == "" {
		return fmt.Errorf("paths.turtle is required")
	}
	if c.Paths.JSON == "" {
		return fmt.Errorf("paths.json is required")
	}
	outputs := map[string]string{filepath.Clean(c.Paths.Turtle): "paths.turtle"}
	for key, path := range map[string]string{"paths.json": c.Paths.JSON, "paths.ntriples": c.Paths.NTriples} {
		if path == "" {
			continue
		}
		if other, ok := outputs[filepath.Clean(path)]; ok {
			return fmt.Errorf("%s and %s must differ", other, key)
		}
		outputs[filepath.Clean(path)] = key
	}
	if c.Ontology.Namespace == "" {
		return fmt.Errorf("ontology.namespace is required")
	}
	if !strings.HasSuffix(c.Ontology.Namespace, "#") && !strings.HasSuffix(c.Ontology.Namespace, "/") {
		return fmt.Errorf("ontology.namespace must end with '#' or '/'")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Paths
	if other.Paths.ERD != "" {
		c.Paths.ERD = other.Paths.ERD
	}
	if other.Paths.Turtle != "" {
		c.Paths.Turtle = other.Paths.Turtle
	}
	if other.Paths.JSON != "" {
		c.Paths.JSON = other.Paths.JSON
	}
	if other.Paths.NTriples != "" {
		c.Paths.NTriples = other.Paths.NTriples
	}
	if other.Paths.Data != "" {
		c.Paths.Data = other.Paths.Data
	}

	// Ontology
	if other.Ontology.Namespace != "" {
		c.Ontology.Namespace = other.Ontology.Namespace
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
