package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/edgecli/internal/console"
	"github.com/danmuck/edgecli/internal/diag"
)

type fileConfig struct {
	Address           string   `toml:"address"`
	Port              int      `toml:"port"`
	Hostname          string   `toml:"hostname"`
	MaxUserCommands   int      `toml:"max_user_commands"`
	MaxParentCommands int      `toml:"max_parent_commands"`
	HistorySize       int      `toml:"history_size"`
	MaxLineLength     int      `toml:"max_line_length"`
	MetricsAddr       string   `toml:"metrics_addr"`
	CORSOrigins       []string `toml:"cors_origins"`
	MetricsToken      string   `toml:"metrics_token"`
	AllowExec         bool     `toml:"allow_exec"`
	ExecTimeout       string   `toml:"exec_timeout"`
}

// serveConfig is everything "consolectl serve" needs.
type serveConfig struct {
	Console     console.Params
	MetricsAddr string
	CORSOrigins []string
	// MetricsToken, when set, is required as a bearer token on /metrics.
	MetricsToken string
	AllowExec    bool
	ExecTimeout  time.Duration
}

func defaultServeConfig() serveConfig {
	return serveConfig{
		Console:     console.DefaultParams(),
		ExecTimeout: diag.DefaultExecTimeout,
	}
}

// loadServeConfig overlays keys present in the file onto the defaults. An
// empty path returns the defaults.
func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serveConfig{}, fmt.Errorf("load console config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return serveConfig{}, fmt.Errorf("load console config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("address") {
		cfg.Console.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("port") {
		if raw.Port < 0 || raw.Port > 65535 {
			return serveConfig{}, fmt.Errorf("parse port: %d out of range", raw.Port)
		}
		cfg.Console.Port = uint16(raw.Port)
	}
	if meta.IsDefined("hostname") {
		cfg.Console.Hostname = strings.TrimSpace(raw.Hostname)
	}
	if meta.IsDefined("max_user_commands") {
		cfg.Console.MaxUserCommands = raw.MaxUserCommands
	}
	if meta.IsDefined("max_parent_commands") {
		cfg.Console.MaxParentCommands = raw.MaxParentCommands
	}
	if meta.IsDefined("history_size") {
		cfg.Console.HistorySize = raw.HistorySize
	}
	if meta.IsDefined("max_line_length") {
		cfg.Console.MaxLineLength = raw.MaxLineLength
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeOrigins(raw.CORSOrigins)
	}
	if meta.IsDefined("metrics_token") {
		cfg.MetricsToken = strings.TrimSpace(raw.MetricsToken)
	}
	if meta.IsDefined("allow_exec") {
		cfg.AllowExec = raw.AllowExec
	}
	if meta.IsDefined("exec_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ExecTimeout))
		if err != nil {
			return serveConfig{}, fmt.Errorf("parse exec_timeout: %w", err)
		}
		if d <= 0 {
			return serveConfig{}, fmt.Errorf("parse exec_timeout: must be positive, got %s", d)
		}
		cfg.ExecTimeout = d
	}

	cfg.Console = cfg.Console.WithDefaults()
	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if v := strings.TrimSpace(o); v != "" {
			out = append(out, v)
		}
	}
	return out
}
