package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/edgecli/internal/console"
	"github.com/danmuck/edgecli/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServeConfigExampleFile(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadServeConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Console.Hostname != "edge01" {
		t.Fatalf("unexpected hostname: %q", cfg.Console.Hostname)
	}
	if cfg.Console.Port != 55555 || cfg.Console.Address != "127.0.0.1" {
		t.Fatalf("unexpected listen addr: %q", cfg.Console.ListenAddr())
	}
	if cfg.Console.HistorySize != 128 {
		t.Fatalf("unexpected history size: %d", cfg.Console.HistorySize)
	}
	if cfg.MetricsAddr != "127.0.0.1:9105" {
		t.Fatalf("unexpected metrics addr: %q", cfg.MetricsAddr)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.AllowExec {
		t.Fatalf("expected exec disabled")
	}
	if cfg.ExecTimeout != 5*time.Second {
		t.Fatalf("unexpected exec timeout: %v", cfg.ExecTimeout)
	}
}

func TestLoadServeConfigPartialKeepsDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "hostname = \"  lab \"\nport = 0\nallow_exec = true\n")
	cfg, err := loadServeConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Console.Hostname != "lab" || cfg.Console.Port != 0 {
		t.Fatalf("unexpected overrides: %+v", cfg.Console)
	}
	if cfg.Console.Address != console.DefaultAddress {
		t.Fatalf("unexpected address: %q", cfg.Console.Address)
	}
	if cfg.Console.MaxUserCommands != console.DefaultMaxUserCommands {
		t.Fatalf("unexpected max user commands: %d", cfg.Console.MaxUserCommands)
	}
	if !cfg.AllowExec || cfg.MetricsAddr != "" {
		t.Fatalf("unexpected exec/metrics: %+v", cfg)
	}
}

func TestLoadServeConfigEmptyPath(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadServeConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Console.ListenAddr() != "127.0.0.1:55555" {
		t.Fatalf("unexpected default addr: %q", cfg.Console.ListenAddr())
	}
}

func TestLoadServeConfigRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"port":         "port = 70000\n",
		"exec_timeout": "exec_timeout = \"soon\"\n",
		"unknown key":  "colour = \"blue\"\n",
		"syntax":       "hostname = \n",
	}
	for name, body := range cases {
		if _, err := loadServeConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := loadServeConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil || !strings.Contains(err.Error(), "load console config") {
		t.Fatalf("expected load error for missing file, got %v", err)
	}
}

func TestLoadServeConfigMetricsToken(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadServeConfig(writeConfig(t, "metrics_addr = \"127.0.0.1:0\"\nmetrics_token = \" scrape \"\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MetricsToken != "scrape" {
		t.Fatalf("unexpected metrics token: %q", cfg.MetricsToken)
	}
}
