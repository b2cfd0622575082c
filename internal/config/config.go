// Package config handles exporter configuration loading and management.
package config

import (
	"fmt"
	"strings"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig controls where and how .osl files are written.
type ExportConfig struct {
	Extension string   `yaml:"extension"`  // Output file extension, including the dot
	OutputDir string   `yaml:"output_dir"` // Empty = next to the input scene
	Summary   bool     `yaml:"summary"`    // Print a section table after export
	FileMode  FileMode `yaml:"file_mode"`  // Permissions of written files, octal
}

// ImportConfig controls how scene files are read.
type ImportConfig struct {
	// DefaultFormat is used when the input extension is not recognised
	// ("yaml" or "gltf"). Empty means unrecognised files are rejected.
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Extension: ".osl",
			OutputDir: "",
			Summary:   false,
			FileMode:  0644,
		},
		Import: ImportConfig{
			DefaultFormat: "",
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// Validate checks values that cannot be repaired silently.
func (c *Config) Validate() error {
	if c.Export.Extension == "" || !strings.HasPrefix(c.Export.Extension, ".") {
		return fmt.Errorf("export.extension must start with '.', got %q", c.Export.Extension)
	}
	if c.Export.FileMode&0600 != 0600 {
		return fmt.Errorf("export.file_mode %o must allow owner read and write", c.Export.FileMode)
	}
	switch c.Import.DefaultFormat {
	case "", "yaml", "gltf":
	default:
		return fmt.Errorf("import.default_format must be yaml or gltf, got %q", c.Import.DefaultFormat)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
