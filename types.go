package idiompage

import (
	"fmt"
	"time"

	"github.com/alnah/go-idiompage/internal/pipeline"
)

// Idiom is the idiom payload served by the backend at /api/idiom/{id}.
// Only ID and Implementations drive rendering; Title and LeadParagraph are
// used for log fields and printed document titles.
type Idiom struct {
	ID              int              `json:"Id"`
	Title           string           `json:"Title"`
	LeadParagraph   string           `json:"LeadParagraph"`
	Implementations []Implementation `json:"Implementations"`
}

// Implementation is one language implementation of an idiom.
type Implementation struct {
	ID                     int    `json:"Id"`
	LanguageName           string `json:"LanguageName"`
	ImportsBlock           string `json:"ImportsBlock"`
	CodeBlock              string `json:"CodeBlock"`
	AuthorComment          string `json:"AuthorComment"`
	DemoURL                string `json:"DemoURL"`
	DocumentationURL       string `json:"DocumentationURL"`
	OriginalAttributionURL string `json:"OriginalAttributionURL"`
}

// Validate checks that the idiom is present and carries a positive id.
// Implementation entries are checked one by one while rendering, so a bad
// entry only drops itself.
func (i *Idiom) Validate() error {
	if i == nil {
		return fmt.Errorf("%w: nil idiom", ErrInvalidIdiom)
	}
	if i.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidIdiom, i.ID)
	}
	return nil
}

// ImplNodeID returns the id attribute of an implementation node ("impl-{id}").
func ImplNodeID(implID int) string {
	return pipeline.ImplNodeID(implID)
}

// ImplEditPath returns the edit route of an implementation.
func ImplEditPath(idiomID, implID int) string {
	return pipeline.ImplEditPath(idiomID, implID)
}

// IdiomEditPath returns the edit route of an idiom statement.
func IdiomEditPath(idiomID int) string {
	return pipeline.IdiomEditPath(idiomID)
}

// Stage is the last step a render reached.
type Stage string

// Render stages, in order. StageNoFetch is terminal when no source is given.
const (
	StageHeaderRendered           Stage = "header-rendered"
	StageFooterRendered           Stage = "footer-rendered"
	StageNoFetch                  Stage = "no-fetch"
	StageFetchPending             Stage = "fetch-pending"
	StageJSONParsed               Stage = "json-parsed"
	StageImplementationsPopulated Stage = "implementations-populated"
	StageImplementationsDecorated Stage = "implementations-decorated"
	StageSummaryDecorated         Stage = "summary-decorated"
)

// Notice is a non-fatal condition met during a render, such as a missing
// page anchor.
type Notice struct {
	Op      string // render-header, render-impl, decorate-impls, decorate-summary
	Target  string // element or node id that was looked up
	Message string
}

// Report describes what a render did.
type Report struct {
	Stage            Stage
	Rendered         int  // implementations added to the page
	Skipped          int  // implementations already rendered by the server
	Decorated        int  // implementation edit links added
	SummaryDecorated bool // idiom edit link added
	Notices          []Notice
}

// Result is the outcome of Renderer.Render.
type Result struct {
	HTML   []byte // the augmented page
	Idiom  *Idiom // nil when no source was given or the fetch failed
	Report Report
}

// Paper sizes for printing.
const (
	PaperLetter = "letter"
	PaperA4     = "a4"
)

// PrintOptions configures PDF output.
type PrintOptions struct {
	Paper string // "letter" (default) or "a4"
	Title string // document title; empty keeps the page <title>
}

// Validate checks the paper size. A nil receiver means defaults.
func (o *PrintOptions) Validate() error {
	if o == nil {
		return nil
	}
	switch o.Paper {
	case "", PaperLetter, PaperA4:
		return nil
	}
	return fmt.Errorf("%w: %q (must be letter or a4)", ErrInvalidPaper, o.Paper)
}

// Option configures a Renderer.
type Option func(*Renderer)

// defaultTimeout bounds one idiom fetch.
const defaultTimeout = 10 * time.Second
