// Package testsupport provides shared fixtures for writ tests: temp-dir
// configs and small deterministic corpora.
package testsupport

import (
	"path/filepath"
	"testing"

	"writ/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CachePath = filepath.Join(base, "cache", "corpus.bin")
	cfg.Paths.LedgerPath = filepath.Join(base, "state", "ledger.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithMinScore overrides the matching threshold on the test config.
func WithMinScore(min float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.MinScore = min
	}
}

// WithOptimize enables deep scanning on the test config.
func WithOptimize() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.Optimize = true
	}
}
