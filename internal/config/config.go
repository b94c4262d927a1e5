// Package config loads mnemo configuration from a YAML file with sensible
// defaults for everything left unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all mnemo configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

// StoreConfig configures the memory document and its optional archive.
type StoreConfig struct {
	Path     string `yaml:"path"`
	Autosave *bool  `yaml:"autosave"` // nil = on
	Archive  string `yaml:"archive"`  // empty = no tombstone archive
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// Default returns a Config with defaults applied.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8642,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is fine:
// the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath()
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8642
	}
	return cfg, nil
}

// AutosaveEnabled resolves the tri-state autosave flag.
func (c StoreConfig) AutosaveEnabled() bool {
	return c.Autosave == nil || *c.Autosave
}

// ListenAddr returns the bind:port address string.
func (c ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

func defaultStorePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mnemo", "memories.json")
}
