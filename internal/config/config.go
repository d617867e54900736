// Package config loads semscout configuration from a YAML file, falling
// back to defaults when no file is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig selects the embedding provider. An empty provider lets the
// factory auto-detect one from the environment.
type EmbedderConfig struct {
	Provider  string `yaml:"provider,omitempty"`
	CacheSize int    `yaml:"cache_size"`
}

// RetrievalConfig tunes the retrieval pipeline.
type RetrievalConfig struct {
	TopK              int      `yaml:"top_k"`
	BatchSize         int      `yaml:"batch_size"`
	Include           []string `yaml:"include"`
	ProgressAfterSecs int      `yaml:"progress_after_secs"`
}

// CacheConfig locates the durable embedding cache.
type CacheConfig struct {
	Root string `yaml:"root,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Cache     CacheConfig     `yaml:"cache"`
}

// Load reads a config from the given path. A missing file yields defaults;
// a malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./semscout.yaml first, then ~/.config/semscout/config.yaml.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat("semscout.yaml"); err == nil {
		return Load("semscout.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Load("semscout.yaml") // falls through to defaults
	}
	return Load(filepath.Join(home, ".config", "semscout", "config.yaml"))
}

// ProgressAfter returns the still-working latency budget as a duration.
func (c *Config) ProgressAfter() time.Duration {
	return time.Duration(c.Retrieval.ProgressAfterSecs) * time.Second
}

func applyDefaults(cfg *Config) {
	if cfg.Embedder.CacheSize <= 0 {
		cfg.Embedder.CacheSize = 10000
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.BatchSize <= 0 {
		cfg.Retrieval.BatchSize = 100
	}
	if len(cfg.Retrieval.Include) == 0 {
		cfg.Retrieval.Include = []string{"*.go", "*.md"}
	}
	if cfg.Retrieval.ProgressAfterSecs <= 0 {
		cfg.Retrieval.ProgressAfterSecs = 5
	}
}
