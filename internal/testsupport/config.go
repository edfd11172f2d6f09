// Package testsupport provides shared fixtures for package tests: temp-dir
// backed configs, a fake registry server, and staged file helpers.
package testsupport

import (
	"path/filepath"
	"testing"

	"bluecarbon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Registry.BaseURL = "http://127.0.0.1:0/api"
	cfg.Registry.APIToken = "test"
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithRegistryURL points the test config at the given registry base URL.
func WithRegistryURL(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Registry.BaseURL = baseURL
	}
}

// WithCaptureDevice overrides the camera device path on the test config.
func WithCaptureDevice(device string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Capture.Device = device
	}
}

// WithMaxFileBytes overrides the staged file size cap on the test config.
func WithMaxFileBytes(limit int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Stager.MaxFileBytes = limit
	}
}
