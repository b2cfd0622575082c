package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Overrides are command-line settings applied on top of the config file.
// Zero values leave the loaded setting untouched.
type Overrides struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	OutputDir  string
	Summary    bool
}

// Load loads configuration with priority: defaults < file < overrides.
func Load(o Overrides) (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations.
	configPath := o.ConfigPath
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyOverrides(cfg, o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./oslexport.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "oslexport")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "oslexport")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "oslexport")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "oslexport")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyOverrides applies CLI overrides to the config.
func applyOverrides(cfg *Config, o Overrides) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.OutputDir != "" {
		cfg.Export.OutputDir = o.OutputDir
	}
	if o.Summary {
		cfg.Export.Summary = true
	}
}
