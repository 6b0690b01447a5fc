package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/alnah/go-idiompage/internal/dom"
)

// Header defaults reproduce the production site header.
const (
	DefaultSiteName     = "Programming-Idioms"
	DefaultStaticPrefix = "/default_20171211_"
)

// HeaderData holds the values substituted into the header template.
type HeaderData struct {
	SiteName     string
	StaticPrefix string
}

// DefaultHeaderData returns the production header values.
func DefaultHeaderData() HeaderData {
	return HeaderData{SiteName: DefaultSiteName, StaticPrefix: DefaultStaticPrefix}
}

// HeaderRenderer rebuilds the page header.
type HeaderRenderer interface {
	RenderHeader(ctx context.Context, doc *dom.Document, rec *Recorder) error
}

// HeaderRendering replaces the children of the first <header> with fixed markup.
type HeaderRendering struct {
	markup string
}

// NewHeaderRendering executes the header template once.
// Returns error if the template cannot be parsed or executed.
func NewHeaderRendering(tmplContent string, data HeaderData) (*HeaderRendering, error) {
	tmpl, err := template.New("header").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing header template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing header template: %w", err)
	}

	return &HeaderRendering{markup: buf.String()}, nil
}

// Markup returns the header children markup.
func (h *HeaderRendering) Markup() string {
	return h.markup
}

// RenderHeader clears the first <header> and appends the header markup.
// If the page has no header, a notice is recorded and the page is untouched.
func (h *HeaderRendering) RenderHeader(ctx context.Context, doc *dom.Document, rec *Recorder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	header := doc.FirstByTag("header")
	if header == nil {
		rec.Warn(OpRenderHeader, "header", "couldn't find header element")
		return nil
	}

	dom.RemoveChildren(header)
	return dom.AppendHTML(header, h.markup)
}
