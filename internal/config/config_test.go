package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Data.DefaultVariant != "smplx" {
		t.Errorf("expected default variant 'smplx', got %s", cfg.Data.DefaultVariant)
	}
	if cfg.Data.DefaultGender != "neutral" {
		t.Errorf("expected default gender 'neutral', got %s", cfg.Data.DefaultGender)
	}
	if cfg.Data.DataRoot != "" {
		t.Errorf("expected empty data root, got %s", cfg.Data.DataRoot)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
data:
  data_root: /data/smplx
  default_variant: smplh
  default_gender: male

logging:
  level: debug
  log_file: smplxtool.log
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.DataRoot != "/data/smplx" {
		t.Errorf("expected data root /data/smplx, got %s", cfg.Data.DataRoot)
	}
	if cfg.Data.DefaultVariant != "smplh" {
		t.Errorf("expected default variant 'smplh', got %s", cfg.Data.DefaultVariant)
	}
	if cfg.Data.DefaultGender != "male" {
		t.Errorf("expected default gender 'male', got %s", cfg.Data.DefaultGender)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "smplxtool.log" {
		t.Errorf("expected log file 'smplxtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
data:
  data_root: not: valid: yaml
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "smplxgo.yaml")
	if err := os.WriteFile(configPath, []byte("data:\n  default_variant: smpl\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find smplxgo.yaml in current directory")
	}
}

func TestLoad(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if err := os.WriteFile("smplxgo.yaml", []byte("data:\n  default_variant: smplh\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.DefaultVariant != "smplh" {
		t.Errorf("expected variant 'smplh' from file, got %s", cfg.Data.DefaultVariant)
	}
	// Untouched fields keep their defaults.
	if cfg.Data.DefaultGender != "neutral" {
		t.Errorf("expected gender 'neutral' default, got %s", cfg.Data.DefaultGender)
	}
}
