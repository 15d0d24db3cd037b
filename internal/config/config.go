package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents ~/.macrod/config.toml.
type Config struct {
	APIBaseURL           string `toml:"api_base_url"`
	ConfigToken          string `toml:"config_token"`
	RetentionDays        int    `toml:"retention_days"`
	MaxCachedDays        int    `toml:"max_cached_days"`
	MaxQueue             int    `toml:"max_queue"`
	ProbeIntervalSeconds int    `toml:"probe_interval_seconds"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		APIBaseURL:           "http://localhost:8000/api",
		RetentionDays:        30,
		MaxCachedDays:        100,
		MaxQueue:             100,
		ProbeIntervalSeconds: 30,
	}
}

// Load reads config from the given path, filling unset fields from
// defaults. A missing file returns the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = Default().APIBaseURL
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = Default().RetentionDays
	}
	if cfg.MaxCachedDays <= 0 {
		cfg.MaxCachedDays = Default().MaxCachedDays
	}
	if cfg.MaxQueue <= 0 {
		cfg.MaxQueue = Default().MaxQueue
	}
	if cfg.ProbeIntervalSeconds <= 0 {
		cfg.ProbeIntervalSeconds = Default().ProbeIntervalSeconds
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
