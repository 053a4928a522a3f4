package testsupport

import (
	"path/filepath"
	"testing"

	"prick/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "catalog.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scan.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithAlgorithm overrides the hash algorithm on the test config.
func WithAlgorithm(alg string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Algorithm = alg
	}
}

// WithWorkers overrides scan parallelism on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Workers = n
	}
}

// WithSkipUnchanged toggles catalog reuse for unchanged files.
func WithSkipUnchanged(skip bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.SkipUnchanged = skip
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.CatalogPath))
}
