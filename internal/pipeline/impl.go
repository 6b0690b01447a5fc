package pipeline

import (
	"context"

	"github.com/alnah/go-idiompage/internal/dom"
	"golang.org/x/net/html"
)

// External link labels, in display order.
const (
	demoLabel   = "Demo 🗗"
	docLabel    = "Doc 🗗"
	originLabel = "Origin 🗗"
)

// ImplRenderer renders one implementation into the implementations container.
type ImplRenderer interface {
	RenderImpl(ctx context.Context, container *html.Node, impl ImplData, rec *Recorder) error
}

// ImplRendering builds implementation nodes the way the server renders them.
type ImplRendering struct {
	comments    *CommentFormatter
	highlighter CodeHighlighter // nil = plain <pre>
}

// NewImplRendering creates an ImplRendering.
// A nil comments formatter uses CommentTrusted. A nil highlighter keeps code
// blocks as plain text.
func NewImplRendering(comments *CommentFormatter, highlighter CodeHighlighter) *ImplRendering {
	if comments == nil {
		comments = &CommentFormatter{policy: CommentTrusted}
	}
	return &ImplRendering{comments: comments, highlighter: highlighter}
}

// RenderImpl builds the implementation node and appends it to container.
// A nil container is recorded as a notice and nothing is appended.
func (r *ImplRendering) RenderImpl(ctx context.Context, container *html.Node, impl ImplData, rec *Recorder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nodeID := ImplNodeID(impl.ID)
	if container == nil {
		rec.Warn(OpRenderImpl, nodeID, "couldn't find implementations container")
		return nil
	}

	container.AppendChild(r.BuildImpl(impl))
	return nil
}

// BuildImpl returns the unattached implementation node.
//
// Children, in order: language heading, imports (if any), code, comment,
// external links.
func (r *ImplRendering) BuildImpl(impl ImplData) *html.Node {
	implNode := dom.Elem("div", "implementation", "")
	dom.SetAttr(implNode, "id", ImplNodeID(impl.ID))

	implNode.AppendChild(dom.Elem("h2", "", impl.LanguageName))

	if impl.ImportsBlock != "" {
		piimports := dom.Elem("div", "piimports", "")
		piimports.AppendChild(dom.ElemText("pre", "", impl.ImportsBlock))
		implNode.AppendChild(piimports)
	}

	picode := dom.Elem("div", "picode", "")
	picode.AppendChild(r.buildCode(impl))
	implNode.AppendChild(picode)

	implNode.AppendChild(dom.Elem("div", "comment", r.comments.Format(impl.AuthorComment)))

	links := dom.Elem("div", "external-links", "")
	links.AppendChild(buildExternalLinks(impl))
	implNode.AppendChild(links)

	return implNode
}

// buildCode returns the <pre> for the code block, highlighted when possible.
// Highlighting failures fall back to plain text.
func (r *ImplRendering) buildCode(impl ImplData) *html.Node {
	if r.highlighter != nil && impl.CodeBlock != "" {
		if markup, err := r.highlighter.Highlight(impl.LanguageName, impl.CodeBlock); err == nil {
			return dom.Elem("pre", "chroma", markup)
		}
	}
	return dom.ElemText("pre", "", impl.CodeBlock)
}

// buildExternalLinks returns the <ul> of demo, doc and origin links.
// Absent URLs are skipped; the order never changes.
func buildExternalLinks(impl ImplData) *html.Node {
	ul := dom.Elem("ul", "", "")
	for _, l := range []struct{ url, label string }{
		{impl.DemoURL, demoLabel},
		{impl.DocumentationURL, docLabel},
		{impl.OriginalAttributionURL, originLabel},
	} {
		if l.url == "" {
			continue
		}
		a := dom.Elem("a", "", l.label)
		dom.SetAttr(a, "href", l.url)
		dom.SetAttr(a, "target", "_blank")
		dom.SetAttr(a, "rel", "nofollow")

		li := dom.Elem("li", "", "")
		li.AppendChild(a)
		ul.AppendChild(li)
	}
	return ul
}
