package idiompage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/alnah/go-idiompage/internal/assets"
	"github.com/alnah/go-idiompage/internal/dom"
	"github.com/alnah/go-idiompage/internal/pipeline"
	"go.uber.org/zap"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HeaderRenderer   = (*pipeline.HeaderRendering)(nil)
	_ pipeline.FooterRenderer   = pipeline.NoopFooter{}
	_ pipeline.ImplRenderer     = (*pipeline.ImplRendering)(nil)
	_ pipeline.ImplPopulator    = (*pipeline.Population)(nil)
	_ pipeline.ImplDecorator    = pipeline.EditLinks{}
	_ pipeline.SummaryDecorator = pipeline.EditLinks{}
	_ pipeline.CodeHighlighter  = (*pipeline.ChromaHighlighter)(nil)
)

// Renderer augments server-rendered idiom pages. It rebuilds the header,
// adds implementations missing from the page, then appends edit links.
//
// A Renderer holds no per-render state and is safe for concurrent use.
type Renderer struct {
	cfg         rendererConfig
	logger      *zap.Logger
	assetLoader AssetLoader

	header           pipeline.HeaderRenderer
	footer           pipeline.FooterRenderer
	populator        pipeline.ImplPopulator
	implDecorator    pipeline.ImplDecorator
	summaryDecorator pipeline.SummaryDecorator
}

// NewRenderer creates a Renderer.
// Returns error if the asset path, the header template or the comment
// policy is invalid.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:    rendererConfig{timeout: defaultTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.assetLoader == nil {
		loader, err := NewAssetLoader(r.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		r.assetLoader = loader
	}

	policy, err := pipeline.ParseCommentPolicy(r.cfg.commentPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommentPolicy, err)
	}
	comments, err := pipeline.NewCommentFormatter(policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommentPolicy, err)
	}

	if r.header == nil {
		tmpl, err := r.assetLoader.LoadTemplate(assets.HeaderTemplateName)
		if err != nil {
			return nil, fmt.Errorf("loading header template: %w", err)
		}
		r.header, err = pipeline.NewHeaderRendering(tmpl, r.headerData())
		if err != nil {
			return nil, fmt.Errorf("initializing header: %w", err)
		}
	}

	var highlighter pipeline.CodeHighlighter
	if r.cfg.highlight {
		highlighter = pipeline.NewChromaHighlighter()
	}

	if r.footer == nil {
		r.footer = pipeline.NoopFooter{}
	}
	if r.populator == nil {
		r.populator = pipeline.NewPopulation(pipeline.NewImplRendering(comments, highlighter))
	}
	if r.implDecorator == nil {
		r.implDecorator = pipeline.EditLinks{}
	}
	if r.summaryDecorator == nil {
		r.summaryDecorator = pipeline.EditLinks{}
	}

	return r, nil
}

func (r *Renderer) headerData() pipeline.HeaderData {
	data := pipeline.DefaultHeaderData()
	if r.cfg.siteName != "" {
		data.SiteName = r.cfg.siteName
	}
	if r.cfg.staticPrefix != "" {
		data.StaticPrefix = r.cfg.staticPrefix
	}
	return data
}

// Render augments page and returns the resulting HTML with a report.
//
// The header is rebuilt and the footer hook runs first. When src is nil the
// render stops there (StageNoFetch). Otherwise the idiom is fetched, missing
// implementations are rendered, and edit links are added to implementations
// and to the summary.
//
// A fetch, decode or validation failure is returned as an error together
// with a non-nil Result holding the page as rendered so far
// (StageFetchPending). Missing page anchors are not errors: they are logged
// and listed in Report.Notices.
//
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, page []byte, src IdiomSource) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, fmt.Errorf("internal error: %v", rec)
		}
	}()

	if len(bytes.TrimSpace(page)) == 0 {
		return nil, ErrEmptyPage
	}

	doc, err := dom.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageParse, err)
	}

	run := &renderRun{r: r, doc: doc, rec: pipeline.NewRecorder(r.logger), result: &Result{}}
	err = run.execute(ctx, src)
	return run.finish(err)
}

// renderRun carries the state of one Render call.
type renderRun struct {
	r      *Renderer
	doc    *dom.Document
	rec    *pipeline.Recorder
	result *Result
}

func (run *renderRun) reach(stage Stage) {
	run.result.Report.Stage = stage
	run.r.logger.Debug("render stage reached", zap.String("stage", string(stage)))
}

func (run *renderRun) execute(ctx context.Context, src IdiomSource) error {
	r := run.r

	if err := r.header.RenderHeader(ctx, run.doc, run.rec); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}
	run.reach(StageHeaderRendered)

	if err := r.footer.RenderFooter(ctx, run.doc, run.rec); err != nil {
		return fmt.Errorf("rendering footer: %w", err)
	}
	run.reach(StageFooterRendered)

	if src == nil {
		run.reach(StageNoFetch)
		return nil
	}

	run.reach(StageFetchPending)
	idiom, err := run.fetch(ctx, src)
	if err != nil {
		r.logger.Error("idiom fetch failed", zap.Error(err))
		return err
	}
	run.result.Idiom = idiom
	run.reach(StageJSONParsed)

	data := toIdiomData(idiom, run.rec)
	logger := r.logger.With(zap.Int("idiom_id", idiom.ID))

	stats, err := r.populator.Populate(ctx, run.doc, data, run.rec)
	run.result.Report.Rendered, run.result.Report.Skipped = stats.Rendered, stats.Skipped
	if err != nil {
		return fmt.Errorf("populating implementations: %w", err)
	}
	run.reach(StageImplementationsPopulated)

	decorated, err := r.implDecorator.DecorateImpls(ctx, run.doc, data, run.rec)
	run.result.Report.Decorated = decorated
	if err != nil {
		return fmt.Errorf("decorating implementations: %w", err)
	}
	run.reach(StageImplementationsDecorated)

	summary, err := r.summaryDecorator.DecorateSummary(ctx, run.doc, data, run.rec)
	run.result.Report.SummaryDecorated = summary
	if err != nil {
		return fmt.Errorf("decorating summary: %w", err)
	}
	run.reach(StageSummaryDecorated)

	logger.Info("idiom page augmented",
		zap.String("title", idiom.Title),
		zap.Int("rendered", stats.Rendered),
		zap.Int("skipped", stats.Skipped),
		zap.Int("decorated", decorated),
	)
	return nil
}

func (run *renderRun) fetch(ctx context.Context, src IdiomSource) (*Idiom, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, run.r.cfg.timeout)
	defer cancel()

	idiom, err := src.FetchIdiom(fetchCtx)
	if err != nil {
		return nil, err
	}
	if err := idiom.Validate(); err != nil {
		return nil, err
	}
	return idiom, nil
}

// finish serializes the page. The page is returned even when err is set so
// callers can still serve the header-only rendering.
func (run *renderRun) finish(err error) (*Result, error) {
	out, renderErr := run.doc.HTML()
	if renderErr != nil {
		return nil, fmt.Errorf("serializing page: %w", renderErr)
	}
	run.result.HTML = []byte(out)
	run.result.Report.Notices = toNotices(run.rec.Notices())
	return run.result, err
}

// toIdiomData converts idiom for the pipeline. Entries without a positive
// id, and repeats of an id already seen, are left out with a notice.
func toIdiomData(idiom *Idiom, rec *pipeline.Recorder) pipeline.IdiomData {
	impls := make([]pipeline.ImplData, 0, len(idiom.Implementations))
	seen := make(map[int]struct{}, len(idiom.Implementations))
	for idx, impl := range idiom.Implementations {
		target := fmt.Sprintf("implementations[%d]", idx)
		if impl.ID <= 0 {
			rec.Warn(pipeline.OpCheckImpls, target, fmt.Sprintf("implementation id must be positive, got %d", impl.ID))
			continue
		}
		if _, dup := seen[impl.ID]; dup {
			rec.Warn(pipeline.OpCheckImpls, target, fmt.Sprintf("duplicate implementation id %d", impl.ID))
			continue
		}
		seen[impl.ID] = struct{}{}
		impls = append(impls, pipeline.ImplData{
			ID:                     impl.ID,
			LanguageName:           impl.LanguageName,
			ImportsBlock:           impl.ImportsBlock,
			CodeBlock:              impl.CodeBlock,
			AuthorComment:          impl.AuthorComment,
			DemoURL:                impl.DemoURL,
			DocumentationURL:       impl.DocumentationURL,
			OriginalAttributionURL: impl.OriginalAttributionURL,
		})
	}
	return pipeline.IdiomData{ID: idiom.ID, Implementations: impls}
}

func toNotices(in []pipeline.Notice) []Notice {
	if len(in) == 0 {
		return nil
	}
	out := make([]Notice, len(in))
	for i, n := range in {
		out[i] = Notice(n)
	}
	return out
}
