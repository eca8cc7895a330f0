package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
[monitor]
bind_address = ":6767"
interface = "eth1"
log_level = "debug"
db = "/tmp/watch.db"
expected_servers = ["192.168.1.1", "192.168.1.2"]
log_options = true

[metrics]
enabled = true
listen = "127.0.0.1:9200"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Monitor.BindAddress != ":6767" {
		t.Errorf("BindAddress = %q", cfg.Monitor.BindAddress)
	}
	if cfg.Monitor.Interface != "eth1" {
		t.Errorf("Interface = %q", cfg.Monitor.Interface)
	}
	if !cfg.Monitor.LogOptions {
		t.Error("LogOptions = false, want true")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Listen != "127.0.0.1:9200" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	ips := cfg.ExpectedServerIPs()
	if len(ips) != 2 || ips[0].String() != "192.168.1.1" {
		t.Errorf("ExpectedServerIPs = %v", ips)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Monitor.BindAddress != DefaultBindAddress {
		t.Errorf("BindAddress = %q, want %q", cfg.Monitor.BindAddress, DefaultBindAddress)
	}
	if cfg.Monitor.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.Monitor.LogLevel, DefaultLogLevel)
	}
	if cfg.Monitor.DB != DefaultDB {
		t.Errorf("DB = %q, want %q", cfg.Monitor.DB, DefaultDB)
	}
	if cfg.Metrics.Listen != DefaultMetricsListen {
		t.Errorf("Metrics.Listen = %q, want %q", cfg.Metrics.Listen, DefaultMetricsListen)
	}
}

func TestLoadBadExpectedServer(t *testing.T) {
	_, err := Load(writeConfig(t, `
[monitor]
expected_servers = ["not-an-ip"]
`))
	if err == nil {
		t.Error("expected error for invalid expected_servers entry")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Monitor.BindAddress != DefaultBindAddress {
		t.Errorf("BindAddress = %q", cfg.Monitor.BindAddress)
	}
}
