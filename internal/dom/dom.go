// Package dom builds and queries HTML node trees.
//
// Builders return new, unattached nodes; callers attach them. Queries run
// against a Document that owns a parsed page, so every lookup is scoped to an
// explicit tree rather than ambient state.
package dom

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNilParent indicates a markup append was attempted on a nil node.
var ErrNilParent = errors.New("dom: nil parent node")

// Elem creates an element with an optional class and optional inner markup.
// The markup is trusted and parsed as children of the new element.
// A markup parse failure leaves the element empty.
func Elem(tag, class, rawHTML string) *html.Node {
	n := newElement(tag, class)
	if rawHTML != "" {
		_ = AppendHTML(n, rawHTML)
	}
	return n
}

// ElemText creates an element with an optional class and optional text content.
// The text is escaped when the tree is rendered.
func ElemText(tag, class, text string) *html.Node {
	n := newElement(tag, class)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

func newElement(tag, class string) *html.Node {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
	if class != "" {
		SetAttr(n, "class", class)
	}
	return n
}

// AppendHTML parses markup in the context of parent and appends the resulting
// nodes as its last children.
func AppendHTML(parent *html.Node, markup string) error {
	if parent == nil {
		return ErrNilParent
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return fmt.Errorf("dom: parsing fragment: %w", err)
	}
	for _, c := range nodes {
		parent.AppendChild(c)
	}
	return nil
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Attr returns an attribute value, or "" if absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	RemoveChildren(n)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Render serializes a single node and its subtree.
func Render(n *html.Node) (string, error) {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
