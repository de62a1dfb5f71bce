package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath string
	dataDir    string
	logDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("USER", "")
	t.Setenv("COPYDESK_ACTOR", "")
	t.Setenv("COPYDESK_ROLE", "")
	t.Setenv("COPYDESK_DSN", "")
	t.Setenv("COPYDESK_NTFY_TOPIC", "")

	env := &cliTestEnv{
		configPath: filepath.Join(homeDir, ".config", "copydesk", "config.toml"),
		dataDir:    filepath.Join(base, "data"),
		logDir:     filepath.Join(base, "logs"),
	}
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[stats]\ncache_ttl_seconds = 0\n\n[logging]\nlevel = \"error\"\n",
		env.dataDir,
		env.logDir,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runAs runs a command with the given actor and role flags.
func runAs(t *testing.T, env *cliTestEnv, actor, role string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLI(t, env, append([]string{"--actor", actor, "--role", role}, args...)...)
	return out, err
}

func decodeJSON(t *testing.T, data string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(data), v); err != nil {
		t.Fatalf("decode json %q: %v", data, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
