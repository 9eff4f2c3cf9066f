package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsPositiveTimeout(t *testing.T) {
	cfg := Default()
	if cfg.McpServers.LaunchTimeoutSeconds <= 0 {
		t.Errorf("LaunchTimeoutSeconds = %d, want > 0", cfg.McpServers.LaunchTimeoutSeconds)
	}
	if cfg.McpLaunchTimeout().Seconds() != float64(cfg.McpServers.LaunchTimeoutSeconds) {
		t.Errorf("McpLaunchTimeout() = %v", cfg.McpLaunchTimeout())
	}
}

func TestLoadOrCreateWritesDefaultsOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acpcore.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.Relay.ListenAddr != ":8999" {
		t.Errorf("ListenAddr = %v", cfg.Relay.ListenAddr)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate (second run): %v", err)
	}
	if again.Relay.ListenAddr != cfg.Relay.ListenAddr {
		t.Errorf("config changed across reload: %+v vs %+v", again, cfg)
	}
}

func TestLoadOrCreateRejectsNonPositiveTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acpcore.toml")
	if err := writeFile(path, "mcp_servers.launch_timeout_seconds = 0\n"); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	if _, err := LoadOrCreate(path); err == nil {
		t.Error("expected an error for a non-positive launch timeout")
	}
}

func TestExpandPathResolvesHome(t *testing.T) {
	got := expandPath("~/acpcore-data")
	if got == "~/acpcore-data" {
		t.Error("expandPath did not expand the home directory")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
