package pipeline

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/alnah/go-idiompage/internal/dom"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

const idiomPage = `<!DOCTYPE html>
<html><head><title>Idiom</title></head>
<body>
<header><p>server header</p></header>
<div class="summary-large"><h1>Reverse a list</h1></div>
<div class="implementations">
<div class="implementation" id="impl-2"><h2>Go</h2></div>
</div>
<footer></footer>
</body></html>`

func parsePage(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

// query re-parses the current state of doc for goquery assertions.
func query(t *testing.T, doc *dom.Document) *goquery.Document {
	t.Helper()
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	q, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("goquery parse error = %v", err)
	}
	return q
}

// queryNode parses a single rendered node for goquery assertions.
func queryNode(t *testing.T, n *html.Node) *goquery.Document {
	t.Helper()
	out, err := dom.Render(n)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	q, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("goquery parse error = %v", err)
	}
	return q
}

func observedRecorder() (*Recorder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewRecorder(zap.New(core)), logs
}

func sampleIdiom() IdiomData {
	return IdiomData{
		ID: 19,
		Implementations: []ImplData{
			{ID: 1, LanguageName: "Python", CodeBlock: "x = x[::-1]"},
			{ID: 2, LanguageName: "Go", CodeBlock: "slices.Reverse(x)"},
			{ID: 3, LanguageName: "Rust", CodeBlock: "x.reverse();", DemoURL: "https://play.rust-lang.org/"},
		},
	}
}
