package main

// Notes:
// - parseRenderFlags / parseServeFlags / parseConfigFlags: we test short
//   and long forms, positional args, help, and that parse failures wrap
//   ErrUsage.
// - mergeRenderFlags / mergeServeFlags: we test that set flags override the
//   config and unset ones leave it alone.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-idiompage/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseRenderFlags - Render command flags
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	t.Run("long and short forms", func(t *testing.T) {
		t.Parallel()

		args := []string{
			"pages", "-i", "19", "-o", "out", "-w", "3", "-t", "5s",
			"--highlight", "--comment-policy", "sanitized", "--asset-path", "./assets",
			"--pdf", "-p", "a4", "-c", "site", "-q",
		}
		f, positional, err := parseRenderFlags(args, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseRenderFlags: %v", err)
		}

		if len(positional) != 1 || positional[0] != "pages" {
			t.Errorf("positional = %v, want [pages]", positional)
		}
		if f.idiom != "19" || f.output != "out" || f.workers != 3 || f.timeout != "5s" {
			t.Errorf("I/O flags = %+v", f)
		}
		if !f.highlight || f.commentPolicy != "sanitized" || f.assetPath != "./assets" {
			t.Errorf("render flags = %+v", f)
		}
		if !f.pdf || f.paper != "a4" {
			t.Errorf("pdf flags = %+v", f)
		}
		if f.common.config != "site" || !f.common.quiet || f.common.verbose {
			t.Errorf("common flags = %+v", f.common)
		}
	})

	t.Run("unknown flag wraps ErrUsage", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseRenderFlags([]string{"--watermark"}, &bytes.Buffer{})
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("help prints usage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _, err := parseRenderFlags([]string{"-h"}, &buf)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("error = %v, want ErrHelp", err)
		}
		if !strings.Contains(buf.String(), "Usage: idiompage render") {
			t.Errorf("usage not printed: %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseServeFlags - Serve command flags
// ---------------------------------------------------------------------------

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	t.Run("flags", func(t *testing.T) {
		t.Parallel()

		f, err := parseServeFlags([]string{"-a", ":9090", "--upstream", "http://localhost:3000", "-v"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseServeFlags: %v", err)
		}
		if f.addr != ":9090" || f.upstream != "http://localhost:3000" || !f.common.verbose {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("positional rejected", func(t *testing.T) {
		t.Parallel()

		_, err := parseServeFlags([]string{"page.html"}, &bytes.Buffer{})
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("error = %v, want ErrUsage", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseConfigFlags - Config command flags
// ---------------------------------------------------------------------------

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()

	f, err := parseConfigFlags([]string{"--config", "team"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConfigFlags: %v", err)
	}
	if f.config != "team" {
		t.Errorf("config = %q, want team", f.config)
	}
}

// ---------------------------------------------------------------------------
// TestMergeRenderFlags - CLI overrides config
// ---------------------------------------------------------------------------

func TestMergeRenderFlags(t *testing.T) {
	t.Parallel()

	t.Run("set flags override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		flags := &renderFlags{
			timeout:       "250ms",
			highlight:     true,
			commentPolicy: "sanitized",
			assetPath:     "/srv/assets",
			pdf:           true,
			paper:         "a4",
		}
		if err := mergeRenderFlags(flags, cfg); err != nil {
			t.Fatalf("mergeRenderFlags: %v", err)
		}

		if cfg.Fetch.Timeout != "250ms" {
			t.Errorf("Fetch.Timeout = %q", cfg.Fetch.Timeout)
		}
		if !cfg.Render.Highlight || cfg.Render.CommentPolicy != "sanitized" {
			t.Errorf("Render = %+v", cfg.Render)
		}
		if cfg.Assets.BasePath != "/srv/assets" {
			t.Errorf("Assets.BasePath = %q", cfg.Assets.BasePath)
		}
		if !cfg.Print.Enabled || cfg.Print.Paper != "a4" {
			t.Errorf("Print = %+v", cfg.Print)
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Highlight = true
		cfg.Print.Paper = "a4"
		if err := mergeRenderFlags(&renderFlags{}, cfg); err != nil {
			t.Fatalf("mergeRenderFlags: %v", err)
		}
		if !cfg.Render.Highlight || cfg.Print.Paper != "a4" {
			t.Errorf("config changed: %+v %+v", cfg.Render, cfg.Print)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			flags *renderFlags
			want  error
		}{
			{"bad timeout", &renderFlags{timeout: "later"}, ErrUsage},
			{"zero timeout", &renderFlags{timeout: "0s"}, ErrUsage},
			{"bad policy", &renderFlags{commentPolicy: "raw"}, config.ErrInvalidConfig},
			{"bad paper", &renderFlags{paper: "legal"}, config.ErrInvalidConfig},
		}
		for _, tt := range tests {
			err := mergeRenderFlags(tt.flags, config.DefaultConfig())
			if !errors.Is(err, tt.want) {
				t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeServeFlags - CLI overrides config
// ---------------------------------------------------------------------------

func TestMergeServeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	err := mergeServeFlags(&serveFlags{addr: "127.0.0.1:0", upstream: "http://localhost:3000", timeout: "2s"}, cfg)
	if err != nil {
		t.Fatalf("mergeServeFlags: %v", err)
	}
	if cfg.Serve.Addr != "127.0.0.1:0" || cfg.Serve.Upstream != "http://localhost:3000" || cfg.Fetch.Timeout != "2s" {
		t.Errorf("config = %+v %+v", cfg.Serve, cfg.Fetch)
	}

	if err := mergeServeFlags(&serveFlags{upstream: "ftp://nope"}, config.DefaultConfig()); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("ftp upstream: error = %v, want ErrInvalidConfig", err)
	}
}
