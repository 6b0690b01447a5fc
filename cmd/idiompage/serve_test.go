package main

// Notes:
// - newRouter / handleIdiom: we run the router against an httptest upstream
//   that serves the idiom 19 page and its /api/idiom/19 JSON, with the real
//   renderer.
// - requestLogger: we assert level and fields with zaptest/observer.
// - runServeCmd's listen/shutdown loop is not tested: it binds a real port.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	idiompage "github.com/alnah/go-idiompage"
	"github.com/alnah/go-idiompage/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake upstream site
// ---------------------------------------------------------------------------

// upstreamOptions shapes the fake upstream.
type upstreamOptions struct {
	apiStatus int // 0 = 200 with the fixture
}

// newUpstream serves the fixture page under /idiom/19[/...] and its JSON
// under /api/idiom/19.
func newUpstream(t *testing.T, opts upstreamOptions) *httptest.Server {
	t.Helper()
	page := readFixture(t, fixturePage)
	idiom := readFixture(t, fixtureIdiom)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/idiom/19":
			if opts.apiStatus != 0 {
				http.Error(w, "backend down", opts.apiStatus)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(idiom)
		case r.URL.Path == "/idiom/19" || strings.HasPrefix(r.URL.Path, "/idiom/19/"):
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(page)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newTestServer builds the router against upstream with a real renderer.
func newTestServer(t *testing.T, upstream string, logger *zap.Logger) http.Handler {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Serve.Upstream = upstream

	renderer, err := idiompage.NewRenderer(rendererOptions(cfg, zap.NewNop())...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return newRouter(&pageServer{cfg: cfg, renderer: renderer, logger: logger})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("parsing body: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestRouter_Idiom - Augmented pages
// ---------------------------------------------------------------------------

func TestRouter_Idiom(t *testing.T) {
	t.Parallel()

	t.Run("augments page with slug", func(t *testing.T) {
		t.Parallel()

		up := newUpstream(t, upstreamOptions{})
		h := newTestServer(t, up.URL, zap.NewNop())

		rec := get(t, h, "/idiom/19/reverse-a-list")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get(stageHeader); got != string(idiompage.StageSummaryDecorated) {
			t.Errorf("%s = %q", stageHeader, got)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Content-Type = %q", ct)
		}

		doc := parseBody(t, rec)
		if n := doc.Find("div.implementation").Length(); n != 3 {
			t.Errorf("implementations = %d, want 3", n)
		}
		if href, _ := doc.Find("#impl-2101 a.edit").Attr("href"); href != "/impl-edit/19/2101" {
			t.Errorf("impl-2101 edit href = %q", href)
		}
	})

	t.Run("augments page without slug", func(t *testing.T) {
		t.Parallel()

		up := newUpstream(t, upstreamOptions{})
		rec := get(t, newTestServer(t, up.URL, zap.NewNop()), "/idiom/19")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("api failure serves header-only page", func(t *testing.T) {
		t.Parallel()

		up := newUpstream(t, upstreamOptions{apiStatus: http.StatusInternalServerError})
		rec := get(t, newTestServer(t, up.URL, zap.NewNop()), "/idiom/19")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := rec.Header().Get(stageHeader); got != string(idiompage.StageFetchPending) {
			t.Errorf("%s = %q, want fetch-pending", stageHeader, got)
		}

		doc := parseBody(t, rec)
		if n := doc.Find("header form.form-search").Length(); n != 1 {
			t.Errorf("header not rebuilt: %d search forms", n)
		}
		if n := doc.Find("a.edit").Length(); n != 0 {
			t.Errorf("edit links = %d, want 0", n)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		up := newUpstream(t, upstreamOptions{})
		h := newTestServer(t, up.URL, zap.NewNop())

		tests := []struct {
			path string
			want int
		}{
			{"/idiom/abc", http.StatusBadRequest},
			{"/idiom/404", http.StatusNotFound},
			{"/nope", http.StatusNotFound},
		}
		for _, tt := range tests {
			if rec := get(t, h, tt.path); rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
			}
		}
	})

	t.Run("upstream unreachable", func(t *testing.T) {
		t.Parallel()

		up := newUpstream(t, upstreamOptions{})
		url := up.URL
		up.Close()

		if rec := get(t, newTestServer(t, url, zap.NewNop()), "/idiom/19"); rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rec.Code)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRouter_Healthz - Liveness probe
// ---------------------------------------------------------------------------

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, "http://127.0.0.1:1", zap.NewNop()), "/healthz")

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// TestRequestLogger - Completion entries
// ---------------------------------------------------------------------------

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	h := newTestServer(t, "http://127.0.0.1:1", zap.New(core))

	get(t, h, "/healthz")
	get(t, h, "/idiom/abc")

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	ok, bad := entries[0], entries[1]
	if ok.Level != zapcore.InfoLevel || ok.ContextMap()["status"] != int64(http.StatusOK) {
		t.Errorf("healthz entry = %v %v", ok.Level, ok.ContextMap())
	}
	if bad.Level != zapcore.WarnLevel || bad.ContextMap()["status"] != int64(http.StatusBadRequest) {
		t.Errorf("bad id entry = %v %v", bad.Level, bad.ContextMap())
	}
	if bad.ContextMap()["path"] != "/idiom/abc" {
		t.Errorf("path = %v", bad.ContextMap()["path"])
	}
	if id, _ := bad.ContextMap()["request_id"].(string); id == "" {
		t.Error("request_id missing")
	}
}
