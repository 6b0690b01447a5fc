package pipeline

import (
	"context"
	"fmt"

	"github.com/alnah/go-idiompage/internal/dom"
)

// summaryClass marks the large idiom summary block.
const summaryClass = "summary-large"

// ImplDecorator appends edit links to implementation nodes.
type ImplDecorator interface {
	DecorateImpls(ctx context.Context, doc *dom.Document, idiom IdiomData, rec *Recorder) (int, error)
}

// SummaryDecorator appends an edit link to the idiom summary.
type SummaryDecorator interface {
	DecorateSummary(ctx context.Context, doc *dom.Document, idiom IdiomData, rec *Recorder) (bool, error)
}

// EditLinks implements ImplDecorator and SummaryDecorator.
type EditLinks struct{}

// DecorateImpls appends an edit link to every implementation node and
// returns how many were decorated. Missing nodes are recorded and skipped.
func (EditLinks) DecorateImpls(ctx context.Context, doc *dom.Document, idiom IdiomData, rec *Recorder) (int, error) {
	decorated := 0
	for _, impl := range idiom.Implementations {
		if err := ctx.Err(); err != nil {
			return decorated, err
		}

		nodeID := ImplNodeID(impl.ID)
		implNode := doc.ByID(nodeID)
		if implNode == nil {
			rec.Warn(OpDecorateImpls, nodeID, "couldn't find "+nodeID)
			continue
		}

		if err := dom.AppendHTML(implNode, implEditLink(idiom.ID, impl.ID)); err != nil {
			return decorated, err
		}
		decorated++
	}
	return decorated, nil
}

// DecorateSummary appends an edit link to the first summary-large element.
// Pages without one are left untouched; that is not an error.
func (EditLinks) DecorateSummary(ctx context.Context, doc *dom.Document, idiom IdiomData, _ *Recorder) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	summary := doc.FirstByClass(summaryClass)
	if summary == nil {
		return false, nil
	}

	if err := dom.AppendHTML(summary, idiomEditLink(idiom.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func implEditLink(idiomID, implID int) string {
	return fmt.Sprintf(`<a href="%s" class="edit hide-on-mobile" title="Edit this implementation">Edit</a>`,
		ImplEditPath(idiomID, implID))
}

func idiomEditLink(idiomID int) string {
	return fmt.Sprintf(`<a href="%s" title="Edit the idiom statement" class="edit hide-on-mobile">Edit</a>`,
		IdiomEditPath(idiomID))
}
