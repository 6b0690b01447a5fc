package idiompage

import (
	"fmt"
	"time"

	"github.com/alnah/go-idiompage/internal/assets"
	"go.uber.org/zap"
)

// AssetLoader loads stylesheets and HTML templates by name.
// Templates: "header". Styles: "print".
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns a loader that reads basePath/templates/*.html and
// basePath/styles/*.css, falling back to the built-in assets for names the
// directory does not provide. An empty basePath uses built-in assets only.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}

// rendererConfig holds settings applied by options before NewRenderer
// builds the stages.
type rendererConfig struct {
	timeout       time.Duration
	highlight     bool
	commentPolicy string
	siteName      string
	staticPrefix  string
	assetPath     string
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout bounds each idiom fetch. Panics if d is not positive.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("idiompage: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithHighlighting turns on syntax highlighting of implementation code.
func WithHighlighting(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.highlight = enabled
	}
}

// WithCommentPolicy selects how author comments are inserted:
// "trusted" (default) or "sanitized". NewRenderer rejects other values.
func WithCommentPolicy(policy string) Option {
	return func(r *Renderer) {
		r.cfg.commentPolicy = policy
	}
}

// WithSite sets the header site name and static asset prefix.
// Empty values keep the defaults.
func WithSite(name, staticPrefix string) Option {
	return func(r *Renderer) {
		r.cfg.siteName = name
		r.cfg.staticPrefix = staticPrefix
	}
}

// WithAssetPath overrides built-in assets with files from a directory.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(r *Renderer) {
		r.assetLoader = loader
	}
}
