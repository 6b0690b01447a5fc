package dom

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	s, err := Render(n)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return s
}

// ---------------------------------------------------------------------------
// TestElem - Element builder with trusted markup
// ---------------------------------------------------------------------------

func TestElem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tag      string
		class    string
		rawHTML  string
		expected string
	}{
		{
			name:     "bare element",
			tag:      "div",
			expected: "<div></div>",
		},
		{
			name:     "class only",
			tag:      "div",
			class:    "picode",
			expected: `<div class="picode"></div>`,
		},
		{
			name:     "markup is parsed, not escaped",
			tag:      "div",
			class:    "comment",
			rawHTML:  `<span class="variable">x</span><br/>`,
			expected: `<div class="comment"><span class="variable">x</span><br/></div>`,
		},
		{
			name:     "plain text markup",
			tag:      "h2",
			rawHTML:  "Go",
			expected: "<h2>Go</h2>",
		},
		{
			name:     "upper case tag is normalized",
			tag:      "UL",
			expected: "<ul></ul>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := Elem(tt.tag, tt.class, tt.rawHTML)
			if n.Parent != nil {
				t.Error("Elem() returned an attached node")
			}
			if got := render(t, n); got != tt.expected {
				t.Errorf("Elem(%q, %q, %q) = %q, want %q", tt.tag, tt.class, tt.rawHTML, got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestElemText - Element builder with escaped text
// ---------------------------------------------------------------------------

func TestElemText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "empty text adds no child",
			text:     "",
			expected: "<pre></pre>",
		},
		{
			name:     "angle brackets are escaped",
			text:     "if a < b && c > d {}",
			expected: "<pre>if a &lt; b &amp;&amp; c &gt; d {}</pre>",
		},
		{
			name:     "markup stays text",
			text:     "<script>alert(1)</script>",
			expected: "<pre>&lt;script&gt;alert(1)&lt;/script&gt;</pre>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := ElemText("pre", "", tt.text)
			if got := render(t, n); got != tt.expected {
				t.Errorf("ElemText(pre, %q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestAppendHTML_NilParent(t *testing.T) {
	t.Parallel()

	if err := AppendHTML(nil, "<a>x</a>"); !errors.Is(err, ErrNilParent) {
		t.Errorf("AppendHTML(nil) error = %v, want ErrNilParent", err)
	}
}

func TestAppendHTML_AppendsAtEnd(t *testing.T) {
	t.Parallel()

	n := Elem("div", "", "<h2>Go</h2>")
	if err := AppendHTML(n, `<a href="/x" class="edit">Edit</a>`); err != nil {
		t.Fatalf("AppendHTML() error: %v", err)
	}
	want := `<div><h2>Go</h2><a href="/x" class="edit">Edit</a></div>`
	if got := render(t, n); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSetAttr_Replaces(t *testing.T) {
	t.Parallel()

	n := Elem("a", "", "")
	SetAttr(n, "href", "/one")
	SetAttr(n, "href", "/two")
	if len(n.Attr) != 1 {
		t.Fatalf("len(Attr) = %d, want 1", len(n.Attr))
	}
	if got := Attr(n, "href"); got != "/two" {
		t.Errorf("Attr(href) = %q, want %q", got, "/two")
	}
	if got := Attr(n, "missing"); got != "" {
		t.Errorf("Attr(missing) = %q, want empty", got)
	}
}

func TestRemoveChildren(t *testing.T) {
	t.Parallel()

	n := Elem("header", "", "<a>1</a><h1>2</h1>text")
	RemoveChildren(n)
	if n.FirstChild != nil {
		t.Error("RemoveChildren() left children behind")
	}
}

func TestSetText(t *testing.T) {
	t.Parallel()

	n := Elem("title", "", "<b>old</b>")
	SetText(n, "Reverse <a> list")
	if got := render(t, n); got != "<title>Reverse &lt;a&gt; list</title>" {
		t.Errorf("SetText() rendered %q", got)
	}

	SetText(n, "")
	if n.FirstChild != nil {
		t.Error("SetText(\"\") left children behind")
	}
}

// ---------------------------------------------------------------------------
// TestDocument - Page lookups
// ---------------------------------------------------------------------------

const page = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body>
<header><span>old</span></header>
<div class="summary-large">S</div>
<div class="implementations">
  <div class="implementation" id="impl-12"></div>
</div>
<header>second</header>
</body></html>`

func TestDocument_Lookups(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	if n := doc.ByID("impl-12"); n == nil || Attr(n, "class") != "implementation" {
		t.Errorf("ByID(impl-12) = %v, want implementation div", n)
	}
	if n := doc.ByID("impl-1"); n != nil {
		t.Error("ByID(impl-1) should not match impl-12")
	}
	if n := doc.FirstByClass("implementations"); n == nil || n.Data != "div" {
		t.Error("FirstByClass(implementations) not found")
	}
	if n := doc.FirstByClass("summary-small"); n != nil {
		t.Error("FirstByClass(summary-small) should be nil")
	}

	h := doc.FirstByTag("header")
	if h == nil {
		t.Fatal("FirstByTag(header) = nil")
	}
	if got := render(t, h); !strings.Contains(got, "old") {
		t.Errorf("FirstByTag(header) picked %q, want the first header", got)
	}
	if got := doc.Count("header"); got != 2 {
		t.Errorf("Count(header) = %d, want 2", got)
	}
}

func TestDocument_HTMLRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("HTML() lost doctype: %q", out[:20])
	}
	if !strings.Contains(out, `id="impl-12"`) {
		t.Error("HTML() lost implementation node")
	}
}
