package pipeline

import (
	"context"

	"github.com/alnah/go-idiompage/internal/dom"
)

// implementationsClass marks the container of implementation nodes.
const implementationsClass = "implementations"

// PopulateStats counts what a population pass did.
type PopulateStats struct {
	Rendered int // implementations rendered client side
	Skipped  int // implementations already in the page
}

// ImplPopulator renders the implementations the server left out.
type ImplPopulator interface {
	Populate(ctx context.Context, doc *dom.Document, idiom IdiomData, rec *Recorder) (PopulateStats, error)
}

// Population renders every implementation whose node is absent.
type Population struct {
	renderer ImplRenderer
}

// NewPopulation creates a Population that delegates to renderer.
func NewPopulation(renderer ImplRenderer) *Population {
	return &Population{renderer: renderer}
}

// Populate walks the idiom implementations in order. Nodes already in the
// page are left alone, so running after server-side rendering never
// duplicates an implementation.
func (p *Population) Populate(ctx context.Context, doc *dom.Document, idiom IdiomData, rec *Recorder) (PopulateStats, error) {
	var stats PopulateStats
	container := doc.FirstByClass(implementationsClass)

	for _, impl := range idiom.Implementations {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if doc.ByID(ImplNodeID(impl.ID)) != nil {
			stats.Skipped++
			continue
		}

		if err := p.renderer.RenderImpl(ctx, container, impl, rec); err != nil {
			return stats, err
		}
		if container != nil {
			stats.Rendered++
		}
	}

	return stats, nil
}
