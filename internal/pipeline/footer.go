package pipeline

import (
	"context"

	"github.com/alnah/go-idiompage/internal/dom"
)

// FooterRenderer is the hook for page footer rendering.
type FooterRenderer interface {
	RenderFooter(ctx context.Context, doc *dom.Document, rec *Recorder) error
}

// NoopFooter leaves the footer as the server rendered it.
type NoopFooter struct{}

// RenderFooter does nothing.
func (NoopFooter) RenderFooter(context.Context, *dom.Document, *Recorder) error {
	return nil
}
