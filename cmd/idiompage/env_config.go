package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-idiompage/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // IDIOMPAGE_CONFIG: config file name or path
	Timeout    time.Duration // IDIOMPAGE_TIMEOUT: idiom fetch timeout
	Upstream   string        // IDIOMPAGE_UPSTREAM: upstream site
	LogLevel   string        // IDIOMPAGE_LOG_LEVEL: debug, info, warn, error
	Workers    int           // IDIOMPAGE_WORKERS: parallel workers
}

// knownEnvVars lists valid IDIOMPAGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"IDIOMPAGE_CONFIG":    true,
	"IDIOMPAGE_TIMEOUT":   true,
	"IDIOMPAGE_UPSTREAM":  true,
	"IDIOMPAGE_LOG_LEVEL": true,
	"IDIOMPAGE_WORKERS":   true,
	// Not a setting: enables browser tests.
	"IDIOMPAGE_BROWSER_TESTS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("IDIOMPAGE_CONFIG"),
		Upstream:   os.Getenv("IDIOMPAGE_UPSTREAM"),
		LogLevel:   strings.ToLower(os.Getenv("IDIOMPAGE_LOG_LEVEL")),
	}

	if timeout := os.Getenv("IDIOMPAGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("IDIOMPAGE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized IDIOMPAGE_*
// variable, in name order.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "IDIOMPAGE_") {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides file values with environment values.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 {
		cfg.Fetch.Timeout = env.Timeout.String()
	}
	if env.Upstream != "" {
		cfg.Serve.Upstream = env.Upstream
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}

// loadConfig resolves the configuration for a command: the --config flag,
// else IDIOMPAGE_CONFIG, else the default config if one exists. Environment
// overrides are applied and the result is validated.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	var (
		cfg *config.Config
		err error
	)
	if name != "" {
		cfg, err = config.LoadConfig(name)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(env, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveWorkers picks the worker count: flag, then IDIOMPAGE_WORKERS.
// Zero means auto.
func resolveWorkers(flagWorkers int, env *envConfig) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return env.Workers
}
