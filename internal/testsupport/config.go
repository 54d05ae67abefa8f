package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"resyncinator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// All path fields point under t.TempDir and exist by the time it returns.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ToolsDir = filepath.Join(base, "tools")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{
		builder.cfg.Paths.WorkDir,
		builder.cfg.Paths.StagingDir,
		builder.cfg.Paths.LogDir,
		builder.cfg.Paths.ToolsDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	return builder.cfg
}

// WithDelay overrides the default offset delay on the test config.
func WithDelay(delayMs int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Offset.DelayMs = delayMs
	}
}

// WithArchiveName overrides the archive base name on the test config.
func WithArchiveName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.Name = name
	}
}
