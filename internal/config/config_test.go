package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"copydesk/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("COPYDESK_DSN", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "copydesk")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	wantDSN := "sqlite:" + filepath.Join(wantData, "copydesk.db")
	if cfg.Database.DSN != wantDSN {
		t.Fatalf("unexpected dsn: got %q want %q", cfg.Database.DSN, wantDSN)
	}
	if cfg.SchedulerInterval() != time.Minute {
		t.Fatalf("expected one minute reconciler interval, got %s", cfg.SchedulerInterval())
	}
	if !cfg.Scheduler.Enabled {
		t.Fatal("expected scheduler enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.LockPath() != filepath.Join(wantData, "copydesk.lock") {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "copydesk.toml")
	t.Setenv("COPYDESK_DSN", "")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Scheduler struct {
			IntervalSeconds   int `toml:"interval_seconds"`
			ErrorRetrySeconds int `toml:"error_retry_seconds"`
		} `toml:"scheduler"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Scheduler.IntervalSeconds = 5
	custom.Scheduler.ErrorRetrySeconds = 2
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.SchedulerInterval() != 5*time.Second {
		t.Fatalf("expected interval override, got %s", cfg.SchedulerInterval())
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
	if !strings.HasPrefix(cfg.Database.DSN, "sqlite:"+filepath.Join(tempDir, "data")) {
		t.Fatalf("expected dsn under custom data dir, got %q", cfg.Database.DSN)
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "copydesk.toml")
	contents := "[database]\ndsn = \"sqlite:/tmp/file.db\"\n\n[notifications]\nntfy_topic = \"https://ntfy.example/file\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("COPYDESK_DSN", "postgres://copydesk@localhost/copydesk?sslmode=disable")
	t.Setenv("COPYDESK_NTFY_TOPIC", "https://ntfy.example/env")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.DSN != "postgres://copydesk@localhost/copydesk?sslmode=disable" {
		t.Errorf("expected DSN from env, got %q", cfg.Database.DSN)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.example/env" {
		t.Errorf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "interval_seconds") {
		t.Fatalf("sample config missing scheduler section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Scheduler.IntervalSeconds != 60 {
		t.Fatalf("unexpected sample interval %d", cfg.Scheduler.IntervalSeconds)
	}
	if !strings.Contains(cfg.Paths.DataDir, "copydesk") {
		t.Fatalf("expected data dir to contain copydesk, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.Paths.DataDir = "/tmp/copydesk"
		cfg.Database.DSN = "sqlite:/tmp/copydesk/copydesk.db"
		return cfg
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg = valid()
	cfg.Scheduler.IntervalSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive interval")
	}

	cfg = valid()
	cfg.Notifications.DispatchTimeout = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative dispatch timeout")
	}

	cfg = valid()
	cfg.Notifications.NtfyTopic = "newsroom"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bare ntfy topic")
	}

	cfg = valid()
	cfg.Database.DSN = "copydesk.db"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for dsn without scheme")
	}

	cfg = valid()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = valid()
	cfg.Stats.CacheTTLSeconds = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative cache ttl")
	}
}
