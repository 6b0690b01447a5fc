package main

// Notes:
// - loadEnvConfig: we test every IDIOMPAGE_* variable. Invalid and negative
//   values for timeout and workers are ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig and loadConfig: we test that env overrides the file and
//   that an explicit --config wins over IDIOMPAGE_CONFIG.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-idiompage/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("IDIOMPAGE_CONFIG", "/path/to/config.yaml")
		t.Setenv("IDIOMPAGE_TIMEOUT", "3s")
		t.Setenv("IDIOMPAGE_UPSTREAM", "http://localhost:9000")
		t.Setenv("IDIOMPAGE_LOG_LEVEL", "DEBUG")
		t.Setenv("IDIOMPAGE_WORKERS", "4")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/config.yaml" {
			t.Errorf("ConfigPath = %q", cfg.ConfigPath)
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
		}
		if cfg.Upstream != "http://localhost:9000" {
			t.Errorf("Upstream = %q", cfg.Upstream)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		t.Setenv("IDIOMPAGE_TIMEOUT", "soon")
		t.Setenv("IDIOMPAGE_WORKERS", "-2")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})

	t.Run("negative timeout is ignored", func(t *testing.T) {
		t.Setenv("IDIOMPAGE_TIMEOUT", "-5s")

		if cfg := loadEnvConfig(); cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("IDIOMPAGE_TIMEOUT", "5s")
	t.Setenv("IDIOMPAGE_UPSTREM", "typo")
	t.Setenv("IDIOMPAGE_WORKER", "typo")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)
	out := buf.String()

	if !strings.Contains(out, "IDIOMPAGE_UPSTREM") || !strings.Contains(out, "IDIOMPAGE_WORKER ") {
		t.Errorf("missing warnings in %q", out)
	}
	if strings.Contains(out, "IDIOMPAGE_TIMEOUT") {
		t.Errorf("known variable reported: %q", out)
	}
	if strings.Index(out, "IDIOMPAGE_UPSTREM") > strings.Index(out, "IDIOMPAGE_WORKER ") {
		t.Errorf("warnings not sorted: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides file values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Serve.Upstream = "https://file.example.com"
		applyEnvConfig(&envConfig{
			Timeout:  2 * time.Second,
			Upstream: "https://env.example.com",
			LogLevel: "warn",
		}, cfg)

		if cfg.Fetch.Timeout != "2s" {
			t.Errorf("Fetch.Timeout = %q, want 2s", cfg.Fetch.Timeout)
		}
		if cfg.Serve.Upstream != "https://env.example.com" {
			t.Errorf("Serve.Upstream = %q", cfg.Serve.Upstream)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %q", cfg.Log.Level)
		}
	})

	t.Run("empty env keeps config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Serve.Upstream = "https://file.example.com"
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Serve.Upstream != "https://file.example.com" {
			t.Errorf("Serve.Upstream = %q", cfg.Serve.Upstream)
		}
		if cfg.Fetch.Timeout != config.DefaultFetchTimeout.String() {
			t.Errorf("Fetch.Timeout = %q", cfg.Fetch.Timeout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config resolution for commands
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("flag wins over env path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeConfig(t, dir, "site:\n  name: From Flag\n")

		cfg, err := loadConfig(path, &envConfig{ConfigPath: "/nonexistent/env.yaml"})
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.Site.Name != "From Flag" {
			t.Errorf("Site.Name = %q", cfg.Site.Name)
		}
	})

	t.Run("env path used without flag", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeConfig(t, dir, "site:\n  name: From Env\n")

		cfg, err := loadConfig("", &envConfig{ConfigPath: path})
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.Site.Name != "From Env" {
			t.Errorf("Site.Name = %q", cfg.Site.Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig("/nonexistent/cfg.yaml", &envConfig{})
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid env level rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeConfig(t, dir, "log:\n  level: info\n")

		_, err := loadConfig(path, &envConfig{LogLevel: "loud"})
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Fatalf("error = %v, want ErrInvalidConfig", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveWorkers - Flag over env
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		flag int
		env  int
		want int
	}{
		{"flag wins", 3, 6, 3},
		{"env fallback", 0, 6, 6},
		{"auto", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveWorkers(tt.flag, &envConfig{Workers: tt.env}); got != tt.want {
				t.Errorf("resolveWorkers(%d, %d) = %d, want %d", tt.flag, tt.env, got, tt.want)
			}
		})
	}
}
