package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-idiompage/internal/fileutil"
	"github.com/alnah/go-idiompage/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// DefaultName is the config file looked up when none is given.
const DefaultName = "idiompage"

// appDir is the directory under the user config dir searched for configs.
const appDir = "go-idiompage"

// Defaults applied when a field is left empty.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultServeAddr    = ":8080"
	DefaultUpstream     = "https://programming-idioms.org"
	DefaultPaper        = "letter"
	DefaultLogLevel     = "info"
)

// Field length limits.
const (
	MaxSiteNameLength = 100
	MaxPrefixLength   = 200
	MaxURLLength      = 2048
	MaxPathLength     = 4096
)

// Config holds every setting of the renderer, the server and the printer.
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Render RenderConfig `yaml:"render"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Serve  ServeConfig  `yaml:"serve"`
	Print  PrintConfig  `yaml:"print"`
	Assets AssetsConfig `yaml:"assets"`
	Log    LogConfig    `yaml:"log"`
}

// SiteConfig feeds the header template.
type SiteConfig struct {
	Name         string `yaml:"name"`         // empty = "Programming-Idioms"
	StaticPrefix string `yaml:"staticPrefix"` // empty = production prefix
}

// RenderConfig controls implementation rendering.
type RenderConfig struct {
	Highlight     bool   `yaml:"highlight"`
	CommentPolicy string `yaml:"commentPolicy"` // "trusted" (default) or "sanitized"
}

// FetchConfig controls idiom data retrieval.
type FetchConfig struct {
	Timeout  string `yaml:"timeout"`  // Go duration, e.g. "10s"
	IdiomURL string `yaml:"idiomURL"` // template with "{id}", e.g. "https://host/api/idiom/{id}"
}

// ServeConfig controls the HTTP server.
type ServeConfig struct {
	Addr     string `yaml:"addr"`
	Upstream string `yaml:"upstream"` // server that renders pages and serves /api/idiom/{id}
}

// PrintConfig controls PDF output.
type PrintConfig struct {
	Enabled bool   `yaml:"enabled"`
	Paper   string `yaml:"paper"` // "letter" or "a4"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{CommentPolicy: "trusted"},
		Fetch:  FetchConfig{Timeout: DefaultFetchTimeout.String()},
		Serve:  ServeConfig{Addr: DefaultServeAddr, Upstream: DefaultUpstream},
		Print:  PrintConfig{Paper: DefaultPaper},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// ApplyDefaults fills empty fields with the DefaultConfig values.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Render.CommentPolicy == "" {
		c.Render.CommentPolicy = d.Render.CommentPolicy
	}
	if c.Fetch.Timeout == "" {
		c.Fetch.Timeout = d.Fetch.Timeout
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = d.Serve.Addr
	}
	if c.Serve.Upstream == "" {
		c.Serve.Upstream = d.Serve.Upstream
	}
	if c.Print.Paper == "" {
		c.Print.Paper = d.Print.Paper
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks enumerations, durations, URLs and field lengths.
// Every failure wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"site.name", c.Site.Name, MaxSiteNameLength},
		{"site.staticPrefix", c.Site.StaticPrefix, MaxPrefixLength},
		{"fetch.idiomURL", c.Fetch.IdiomURL, MaxURLLength},
		{"serve.upstream", c.Serve.Upstream, MaxURLLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Render.CommentPolicy) {
	case "", "trusted", "sanitized":
	default:
		return invalid("render.commentPolicy: %q (must be trusted or sanitized)", c.Render.CommentPolicy)
	}

	if c.Fetch.Timeout != "" {
		d, err := time.ParseDuration(c.Fetch.Timeout)
		if err != nil || d <= 0 {
			return invalid("fetch.timeout: %q is not a positive duration", c.Fetch.Timeout)
		}
	}

	if c.Fetch.IdiomURL != "" {
		if !fileutil.IsURL(c.Fetch.IdiomURL) {
			return invalid("fetch.idiomURL: %q must be an http(s) URL", c.Fetch.IdiomURL)
		}
		if !strings.Contains(c.Fetch.IdiomURL, "{id}") {
			return invalid("fetch.idiomURL: %q must contain {id}", c.Fetch.IdiomURL)
		}
	}

	if c.Serve.Upstream != "" && !fileutil.IsURL(c.Serve.Upstream) {
		return invalid("serve.upstream: %q must be an http(s) URL", c.Serve.Upstream)
	}

	switch strings.ToLower(c.Print.Paper) {
	case "", "letter", "a4":
	default:
		return invalid("print.paper: %q (must be letter or a4)", c.Print.Paper)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return invalid("log.level: %q (must be debug, info, warn or error)", c.Log.Level)
	}

	return nil
}

// FetchTimeout returns the parsed fetch timeout, or DefaultFetchTimeout.
func (c *Config) FetchTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Fetch.Timeout); err == nil && d > 0 {
		return d
	}
	return DefaultFetchTimeout
}

// IdiomURLFor expands fetch.idiomURL for an idiom id.
// Without a template, the upstream's /api/idiom/{id} route is used.
func (c *Config) IdiomURLFor(id string) string {
	tmpl := c.Fetch.IdiomURL
	if tmpl == "" {
		upstream := c.Serve.Upstream
		if upstream == "" {
			upstream = DefaultUpstream
		}
		tmpl = strings.TrimSuffix(upstream, "/") + "/api/idiom/{id}"
	}
	return strings.ReplaceAll(tmpl, "{id}", id)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %w: %s (%d chars, max %d)", ErrInvalidConfig, ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is read as a file; anything else is
// searched by name in the current directory, then in the user config
// directory. Missing files are an error: there is no silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	return loadFile(configPath)
}

// LoadDefault looks for the DefaultName config. When none exists it returns
// DefaultConfig and an empty path.
func LoadDefault() (*Config, string, error) {
	configPath, err := resolveConfigPath(DefaultName)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), "", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadFile(configPath)
	if err != nil {
		return nil, configPath, err
	}
	return cfg, configPath, nil
}

func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists the files tried for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
