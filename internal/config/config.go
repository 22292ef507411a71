// Package config loads the arbor.yaml server configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/arbor/pkg/domain"
)

// Config holds the runtime settings for the serve and mcp commands.
type Config struct {
	Listen       string      `yaml:"listen" json:"listen"`
	LogLevel     string      `yaml:"log_level" json:"log_level"`
	OrphanPolicy string      `yaml:"orphan_policy" json:"orphan_policy"`
	Redis        RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the optional Redis fact log. An empty Address
// means facts are kept in memory only.
type RedisConfig struct {
	Address  string `yaml:"address" json:"address"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Key      string `yaml:"key" json:"key"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen:       ":8080",
		LogLevel:     "info",
		OrphanPolicy: domain.OrphanCascade.String(),
	}
}

// Load reads a configuration file (YAML or JSON). A missing file at the
// default path is not an error; defaults are returned instead.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if _, ok := domain.ParseOrphanPolicy(cfg.OrphanPolicy); !ok {
		return cfg, fmt.Errorf("unknown orphan_policy %q", cfg.OrphanPolicy)
	}

	return cfg, nil
}
