// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/Nenoeldeeb/quran-databases/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.DBDir = filepath.Join(base, "databases")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Download.WriteWorkers = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithPageRange overrides the configured download range.
func WithPageRange(start, end int) ConfigOption {
	return func(c *config.Config) {
		c.Download.StartPage = start
		c.Download.EndPage = end
	}
}
