// Package config loads the optional YAML settings file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sourcery/internal/model"
)

// DefaultWebAddr is where web mode listens unless configured.
const DefaultWebAddr = ":8080"

// Config seeds a session. Substitutions are applied through the normal
// rule validation and nothing is ever written back.
type Config struct {
	Tool          string                   `yaml:"tool"`   // addr2line binary
	Module        string                   `yaml:"module"` // Executable to attach at start-up
	Sync          *bool                    `yaml:"sync"`   // Initial sync state, default on
	Substitutions []model.SubstitutionRule `yaml:"substitutions"`
	Web           WebConfig                `yaml:"web"`
}

// WebConfig configures the HTTP front-end.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Web: WebConfig{Addr: DefaultWebAddr},
	}
}

// Load reads a config file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if c.Web.Addr == "" {
		c.Web.Addr = DefaultWebAddr
	}
	return c, nil
}

// SyncEnabled reports the configured initial sync state.
func (c *Config) SyncEnabled() bool {
	return c.Sync == nil || *c.Sync
}
