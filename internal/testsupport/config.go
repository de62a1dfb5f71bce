package testsupport

import (
	"path/filepath"
	"testing"

	"copydesk/internal/config"
)

// ConfigOption adjusts a generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns a config rooted in a fresh temp directory. The store is a
// SQLite file under the data dir, ntfy is off and stats are not cached.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Database.DSN = "sqlite:" + filepath.Join(cfg.Paths.DataDir, "copydesk.db")
	cfg.Notifications.NtfyTopic = ""
	cfg.Stats.CacheTTLSeconds = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDSN overrides the store DSN.
func WithDSN(dsn string) ConfigOption {
	return func(cfg *config.Config) { cfg.Database.DSN = dsn }
}

// WithNtfyTopic points notifications at url, usually an httptest server.
func WithNtfyTopic(url string) ConfigOption {
	return func(cfg *config.Config) { cfg.Notifications.NtfyTopic = url }
}

// WithStatsTTL enables the statistics cache.
func WithStatsTTL(seconds int) ConfigOption {
	return func(cfg *config.Config) { cfg.Stats.CacheTTLSeconds = seconds }
}
