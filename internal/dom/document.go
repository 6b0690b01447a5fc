package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed page whose nodes can be looked up and mutated.
type Document struct {
	doc *goquery.Document
}

// Parse reads a complete HTML page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parsing document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ByID returns the first element whose id attribute equals id, or nil.
// The comparison is exact, so ids need no selector escaping.
func (d *Document) ByID(id string) *html.Node {
	return findFirst(d.Root(), func(n *html.Node) bool {
		return Attr(n, "id") == id
	})
}

// FirstByTag returns the first element with the given tag name, or nil.
func (d *Document) FirstByTag(tag string) *html.Node {
	return first(d.doc.Find(tag))
}

// FirstByClass returns the first element carrying class, or nil.
func (d *Document) FirstByClass(class string) *html.Node {
	return first(d.doc.FindMatcher(goquery.Single("." + class)))
}

// Count returns the number of elements matching a CSS selector.
func (d *Document) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.doc.Nodes[0]
}

// Render writes the whole page.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.Root())
}

// HTML returns the whole page as a string.
func (d *Document) HTML() (string, error) {
	var buf strings.Builder
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func first(s *goquery.Selection) *html.Node {
	if s.Length() == 0 {
		return nil
	}
	return s.Nodes[0]
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
