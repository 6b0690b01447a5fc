package main

import (
	"context"
	"fmt"
	"time"

	idiompage "github.com/alnah/go-idiompage"
	"github.com/alnah/go-idiompage/internal/config"
	"go.uber.org/zap"
)

// runRenderCmd parses flags and runs the render command.
func runRenderCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	return runRender(ctx, positional, flags, env)
}

// runRender orchestrates page discovery, rendering and output.
func runRender(ctx context.Context, positional []string, flags *renderFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	workers := resolveWorkers(flags.workers, envCfg)
	if err := validateWorkers(workers); err != nil {
		return err
	}

	if len(positional) == 0 {
		return ErrNoInput
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: render takes one page or directory, got %d", ErrUsage, len(positional))
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	if err := mergeRenderFlags(flags, cfg); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, logLevelFor(cfg.Log.Level, flags.common.quiet, flags.common.verbose), logConsole)
	defer func() { _ = logger.Sync() }()

	outExt := extHTML
	if cfg.Print.Enabled {
		outExt = extPDF
	}
	pages, err := discoverPages(positional[0], flags.output, resolveIdiomRef(flags.idiom, cfg), outExt)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: no HTML pages found in %s", ErrNoInput, positional[0])
	}

	renderer, err := idiompage.NewRenderer(rendererOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	params := &renderParams{
		renderer: renderer,
		client:   env.HTTPClient,
		paper:    cfg.Print.Paper,
		workers:  idiompage.ResolvePoolSize(workers),
	}

	if cfg.Print.Enabled {
		printerOpts, err := printerOptions(cfg, logger)
		if err != nil {
			return err
		}
		pool := idiompage.NewPrinterPool(params.workers, printerOpts...)
		defer func() {
			if err := pool.Close(); err != nil {
				logger.Warn("closing printers", zap.Error(err))
			}
		}()
		params.pool = &poolAdapter{pool: pool}
	}

	logger.Debug("rendering pages",
		zap.Int("pages", len(pages)),
		zap.Int("workers", params.workers),
		zap.Bool("pdf", cfg.Print.Enabled),
	)

	results := renderBatch(ctx, pages, params)
	return printResults(results, flags.common.quiet, flags.common.verbose, env)
}

// mergeRenderFlags merges CLI flags into config. CLI values override config values.
func mergeRenderFlags(flags *renderFlags, cfg *config.Config) error {
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: --timeout %q is not a positive duration", ErrUsage, flags.timeout)
		}
		cfg.Fetch.Timeout = d.String()
	}
	if flags.highlight {
		cfg.Render.Highlight = true
	}
	if flags.commentPolicy != "" {
		cfg.Render.CommentPolicy = flags.commentPolicy
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
	if flags.pdf {
		cfg.Print.Enabled = true
	}
	if flags.paper != "" {
		cfg.Print.Paper = flags.paper
	}
	return cfg.Validate()
}

// rendererOptions maps the config onto renderer options.
func rendererOptions(cfg *config.Config, logger *zap.Logger) []idiompage.Option {
	return []idiompage.Option{
		idiompage.WithLogger(logger),
		idiompage.WithTimeout(cfg.FetchTimeout()),
		idiompage.WithHighlighting(cfg.Render.Highlight),
		idiompage.WithCommentPolicy(cfg.Render.CommentPolicy),
		idiompage.WithSite(cfg.Site.Name, cfg.Site.StaticPrefix),
		idiompage.WithAssetPath(cfg.Assets.BasePath),
	}
}

// printerOptions maps the config onto printer options.
func printerOptions(cfg *config.Config, logger *zap.Logger) ([]idiompage.PrinterOption, error) {
	opts := []idiompage.PrinterOption{idiompage.WithPrintLogger(logger)}
	if cfg.Assets.BasePath != "" {
		loader, err := idiompage.NewAssetLoader(cfg.Assets.BasePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, idiompage.WithPrintAssets(loader))
	}
	return opts, nil
}
