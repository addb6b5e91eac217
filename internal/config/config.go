// Package config loads termsense configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (TERMSENSE_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .termsense.yaml in current directory
//  2. ~/.config/termsense/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all termsense configuration.
type Config struct {
	// Multiplexer selection ("tmux"; empty auto-detects)
	Mux string `yaml:"mux"`
	// Filter restricts pane listing to sessions matching this regex.
	Filter string `yaml:"filter"`

	// Refresh is the watch-loop poll interval, a Go duration string.
	Refresh string `yaml:"refresh"`

	// Snapshot tuning
	HistoryCapacity int `yaml:"history_capacity"`
	RecentWindow    int `yaml:"recent_window"`

	// SocketPath is where the execution tracker pushes state updates.
	// Empty uses the runtime-dir default.
	SocketPath string `yaml:"socket_path"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	RefreshDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Refresh:         "2s",
		HistoryCapacity: 10,
		RecentWindow:    30,
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.RefreshDuration, err = parseDurationOrDisable(cfg.Refresh, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}

	if cfg.HistoryCapacity < 1 {
		return nil, fmt.Errorf("history_capacity must be positive, got %d", cfg.HistoryCapacity)
	}
	if cfg.RecentWindow < 1 {
		return nil, fmt.Errorf("recent_window must be positive, got %d", cfg.RecentWindow)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".termsense.yaml"); err == nil {
		return ".termsense.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "termsense", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Mux != "" {
		cfg.Mux = file.Mux
	}
	if file.Filter != "" {
		cfg.Filter = file.Filter
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.HistoryCapacity > 0 {
		cfg.HistoryCapacity = file.HistoryCapacity
	}
	if file.RecentWindow > 0 {
		cfg.RecentWindow = file.RecentWindow
	}
	if file.SocketPath != "" {
		cfg.SocketPath = file.SocketPath
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("TERMSENSE_MUX"); v != "" {
		cfg.Mux = v
	}
	if v := os.Getenv("TERMSENSE_FILTER"); v != "" {
		cfg.Filter = v
	}
	if v := os.Getenv("TERMSENSE_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("TERMSENSE_HISTORY_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryCapacity = n
		}
	}
	if v := os.Getenv("TERMSENSE_RECENT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecentWindow = n
		}
	}
	if v := os.Getenv("TERMSENSE_SOCKET_PATH"); v != "" {
		cfg.SocketPath = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable"
// return 0. Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
