package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.Extension != ".osl" {
		t.Errorf("expected extension .osl, got %s", cfg.Export.Extension)
	}
	if cfg.Export.OutputDir != "" {
		t.Errorf("expected empty output dir, got %s", cfg.Export.OutputDir)
	}
	if cfg.Export.Summary {
		t.Error("expected summary to be false by default")
	}
	if cfg.Export.FileMode != 0644 {
		t.Errorf("expected file mode 0644, got %o", cfg.Export.FileMode)
	}
	if cfg.Import.DefaultFormat != "" {
		t.Errorf("expected no default import format, got %s", cfg.Import.DefaultFormat)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  extension: ".bin"
  output_dir: "out"
  summary: true

import:
  default_format: "gltf"

logging:
  level: "debug"
  log_file: "export.log"
  max_backups: 5
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Extension != ".bin" {
		t.Errorf("expected extension .bin, got %s", cfg.Export.Extension)
	}
	if cfg.Export.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got %s", cfg.Export.OutputDir)
	}
	if !cfg.Export.Summary {
		t.Error("expected summary to be true")
	}
	if cfg.Import.DefaultFormat != "gltf" {
		t.Errorf("expected default format gltf, got %s", cfg.Import.DefaultFormat)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.MaxBackups != 5 {
		t.Errorf("expected max backups 5, got %d", cfg.Logging.MaxBackups)
	}

	// Values absent from the file keep their defaults.
	if cfg.Export.FileMode != 0644 {
		t.Errorf("expected default file mode to survive, got %o", cfg.Export.FileMode)
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("expected default max size to survive, got %d", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
export:
  summary: not a bool
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errSub string
	}{
		{"extension without dot", func(c *Config) { c.Export.Extension = "osl" }, "export.extension"},
		{"empty extension", func(c *Config) { c.Export.Extension = "" }, "export.extension"},
		{"read-only file mode", func(c *Config) { c.Export.FileMode = 0444 }, "export.file_mode"},
		{"unknown import format", func(c *Config) { c.Import.DefaultFormat = "fbx" }, "import.default_format"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("expected error mentioning %s, got %v", tt.errSub, err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	savePath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := Default()
	cfg.Export.OutputDir = "/tmp/scenes"
	cfg.Logging.Level = "warn"

	if err := cfg.SaveTo(savePath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded := Default()
	if err := loadFromFile(loaded, savePath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.Export.OutputDir != "/tmp/scenes" {
		t.Errorf("expected output dir /tmp/scenes, got %s", loaded.Export.OutputDir)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", loaded.Logging.Level)
	}
	if loaded.Export.FileMode != cfg.Export.FileMode {
		t.Errorf("expected file mode %o, got %o", cfg.Export.FileMode, loaded.Export.FileMode)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.Contains(strings.ToLower(dir), "oslexport") {
		t.Errorf("ConfigDir should contain 'oslexport', got %s", dir)
	}
}

func TestConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is only used on Linux and other Unix systems")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if got, want := ConfigDir(), filepath.Join(xdg, "oslexport"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "oslexport.yaml"), []byte("export:\n  summary: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find oslexport.yaml in current directory")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	applyOverrides(cfg, Overrides{
		Debug:     true,
		LogFile:   "run.log",
		OutputDir: "build",
		Summary:   true,
	})

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "run.log" {
		t.Errorf("expected log file run.log, got %s", cfg.Logging.LogFile)
	}
	if cfg.Export.OutputDir != "build" {
		t.Errorf("expected output dir build, got %s", cfg.Export.OutputDir)
	}
	if !cfg.Export.Summary {
		t.Error("expected summary to be enabled")
	}

	// Zero overrides change nothing.
	plain := Default()
	applyOverrides(plain, Overrides{})
	if plain.Logging.Level != "info" || plain.Export.Summary {
		t.Error("empty overrides should keep defaults")
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  output_dir: "from-file"
  extension: ".scene"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(Overrides{ConfigPath: configPath, OutputDir: "from-flag"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Output dir from the override, not the file.
	if cfg.Export.OutputDir != "from-flag" {
		t.Errorf("expected output dir from-flag, got %s", cfg.Export.OutputDir)
	}

	// Extension from the file since nothing overrides it.
	if cfg.Export.Extension != ".scene" {
		t.Errorf("expected extension .scene from file, got %s", cfg.Export.Extension)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  extension: osl\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(Overrides{ConfigPath: configPath}); err == nil {
		t.Error("expected validation error for extension without dot")
	}
}

func TestSaveToDefaultPath(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is only used on Linux and other Unix systems")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := Default().Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want := filepath.Join(xdg, "oslexport", "config.yaml"); path != want || path != DefaultPath() {
		t.Errorf("expected %s, got %s", want, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected saved config: %v", err)
	}
}

func TestFileModeMarshalsOctal(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "file_mode: 0644") {
		t.Errorf("expected octal file mode in output, got:\n%s", data)
	}

	loaded := Default()
	loaded.Export.FileMode = 0
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load marshaled config: %v", err)
	}
	if loaded.Export.FileMode != 0644 {
		t.Errorf("expected 0644 after reload, got %o", loaded.Export.FileMode)
	}
}

func TestFileModeUnmarshal(t *testing.T) {
	tests := []struct {
		value   string
		want    FileMode
		wantErr bool
	}{
		{"0600", 0600, false},
		{"0o640", 0640, false},
		{"420", 0644, false},
		{"rw-r--r--", 0, true},
		{"[1, 2]", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			content := "export:\n  file_mode: " + tt.value + "\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			cfg := Default()
			err := loadFromFile(cfg, path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if cfg.Export.FileMode != tt.want {
				t.Errorf("expected %o, got %o", tt.want, cfg.Export.FileMode)
			}
		})
	}
}

func TestFileModePerm(t *testing.T) {
	if got := FileMode(0100644).Perm(); got != 0644 {
		t.Errorf("expected permission bits 0644, got %o", got)
	}
}
