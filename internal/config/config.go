package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.chatlens/config.toml.
type Config struct {
	// ListenAddr is where the daemon serves the dashboard API.
	ListenAddr string `toml:"listen_addr"`
	// DataDir overrides the default workspace directory.
	DataDir string `toml:"data_dir"`
	// DefaultLanguage is the fallback when language detection is
	// inconclusive.
	DefaultLanguage string `toml:"default_language"`
	// DefaultMinShare is the minimum sender share (percent) applied when a
	// filter request does not carry one.
	DefaultMinShare float64 `toml:"default_min_share"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8420",
		DefaultLanguage: "en",
		DefaultMinShare: 0,
	}
}

// Load reads config from the given path, filling unset fields with
// defaults. Returns the defaults and an error if the file is missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Default().ListenAddr
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = Default().DefaultLanguage
	}
	return &cfg, nil
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
