package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bluecarbon/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Error("missing file should report exists=false")
	}
	if path == "" {
		t.Error("resolved path should still be reported")
	}
	if cfg.Registry.BaseURL != "http://127.0.0.1:8001/api" {
		t.Errorf("unexpected default base URL %q", cfg.Registry.BaseURL)
	}
	if cfg.Capture.Device != "/dev/video0" {
		t.Errorf("unexpected default capture device %q", cfg.Capture.Device)
	}
	if cfg.Stager.MaxFileBytes != 25<<20 {
		t.Errorf("unexpected default file cap %d", cfg.Stager.MaxFileBytes)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[registry]
base_url = "https://registry.example.com/api/"
timeout_seconds = 5

[paths]
staging_dir = "` + filepath.Join(dir, "staging") + `"

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("config file should exist")
	}
	if cfg.Registry.BaseURL != "https://registry.example.com/api" {
		t.Errorf("trailing slash should be trimmed, got %q", cfg.Registry.BaseURL)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging values should lowercase, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if cfg.Paths.DataDir == "" || cfg.Paths.LogDir == "" {
		t.Error("unset path fields should fall back to defaults")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"relative url", "[registry]\nbase_url = \"registry.example.com\"\n"},
		{"bad scheme", "[registry]\nbase_url = \"ftp://registry.example.com\"\n"},
		{"bad log format", "[logging]\nformat = \"yaml\"\n"},
		{"bad log level", "[logging]\nlevel = \"verbose\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAPITokenFromEnvironment(t *testing.T) {
	t.Setenv("BLUECARBON_API_TOKEN", " secret-token ")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Registry.APIToken != "secret-token" {
		t.Errorf("token should come trimmed from the environment, got %q", cfg.Registry.APIToken)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly, exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(dir, "staging")
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, d := range []string{cfg.Paths.StagingDir, cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Errorf("directory %s missing after EnsureDirectories", d)
		}
	}
}
