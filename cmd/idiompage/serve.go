package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	idiompage "github.com/alnah/go-idiompage"
	"github.com/alnah/go-idiompage/internal/config"
)

// ErrUpstream reports a failed upstream page request.
var ErrUpstream = errors.New("upstream request failed")

// Server limits.
const (
	maxPageSize     = 8 << 20
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// stageHeader exposes the reached render stage on augmented responses.
const stageHeader = "X-Idiompage-Stage"

// runServeCmd parses flags and runs the serve command.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	if err := mergeServeFlags(flags, cfg); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, logLevelFor(cfg.Log.Level, flags.common.quiet, flags.common.verbose), logJSON)
	defer func() { _ = logger.Sync() }()

	renderer, err := idiompage.NewRenderer(rendererOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           newRouter(&pageServer{cfg: cfg, renderer: renderer, client: env.HTTPClient, logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Serve.Addr), zap.String("upstream", cfg.Serve.Upstream))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// mergeServeFlags merges CLI flags into config. CLI values override config values.
func mergeServeFlags(flags *serveFlags, cfg *config.Config) error {
	if flags.addr != "" {
		cfg.Serve.Addr = flags.addr
	}
	if flags.upstream != "" {
		cfg.Serve.Upstream = flags.upstream
	}
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: --timeout %q is not a positive duration", ErrUsage, flags.timeout)
		}
		cfg.Fetch.Timeout = d.String()
	}
	return cfg.Validate()
}

// pageServer augments upstream idiom pages per request.
type pageServer struct {
	cfg      *config.Config
	renderer PageRenderer
	client   *http.Client
	logger   *zap.Logger
}

// newRouter wires middlewares and routes.
func newRouter(s *pageServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/idiom/{id}", s.handleIdiom)
	r.Get("/idiom/{id}/*", s.handleIdiom)

	return r
}

// handleIdiom fetches the server-rendered page, augments it with the idiom
// API data and returns it. A failed idiom fetch still returns the page with
// its header rebuilt.
func (s *pageServer) handleIdiom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || strings.Trim(id, "0123456789") != "" {
		http.Error(w, "idiom id must be numeric", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	logger := s.logger.With(zap.String("request_id", middleware.GetReqID(ctx)), zap.String("idiom_id", id))

	page, status, err := s.fetchPage(ctx, r.URL.Path)
	if err != nil {
		logger.Error("upstream page failed", zap.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}

	src := &idiompage.HTTPSource{URL: s.cfg.IdiomURLFor(id), Client: s.client}
	result, err := s.renderer.Render(ctx, page, src)
	if err != nil && result == nil {
		logger.Error("render failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err != nil {
		logger.Warn("serving partially augmented page", zap.Error(err), zap.String("stage", string(result.Report.Stage)))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(stageHeader, string(result.Report.Stage))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.HTML)
}

// fetchPage GETs path from the upstream site. The returned status is the
// one to answer with on error.
func (s *pageServer) fetchPage(ctx context.Context, path string) ([]byte, int, error) {
	url := strings.TrimSuffix(s.cfg.Serve.Upstream, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "text/html")

	client := s.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, http.StatusNotFound, fmt.Errorf("%w: %s: %s", ErrUpstream, url, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, http.StatusBadGateway, fmt.Errorf("%w: %s: %s", ErrUpstream, url, resp.Status)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize+1))
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("%w: reading %s: %v", ErrUpstream, url, err)
	}
	if len(page) > maxPageSize {
		return nil, http.StatusBadGateway, fmt.Errorf("%w: %s exceeds %d bytes", ErrUpstream, url, maxPageSize)
	}
	return page, http.StatusOK, nil
}

// requestLogger logs each request once it completes, with status, latency
// and size. 4xx log at Warn, 5xx at Error.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				fields := []zap.Field{
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_ip", r.RemoteAddr),
					zap.Int("status", status),
					zap.Duration("latency", time.Since(start)),
					zap.Int("bytes", ww.BytesWritten()),
				}
				switch {
				case status >= http.StatusInternalServerError:
					logger.Error("request completed", fields...)
				case status >= http.StatusBadRequest:
					logger.Warn("request completed", fields...)
				default:
					logger.Info("request completed", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
