package idiompage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-idiompage/internal/assets"
	"github.com/alnah/go-idiompage/internal/dom"
	"github.com/alnah/go-idiompage/internal/fileutil"
	"github.com/alnah/go-idiompage/internal/process"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Page geometry in inches.
const (
	marginInches = 0.5

	letterWidthInches  = 8.5
	letterHeightInches = 11.0
	a4WidthInches      = 8.27
	a4HeightInches     = 11.69
)

// defaultPrintTimeout bounds page load when ctx has no deadline.
const defaultPrintTimeout = 30 * time.Second

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithPrintTimeout bounds page load when the context has no deadline.
func WithPrintTimeout(d time.Duration) PrinterOption {
	return func(p *Printer) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPrintAssets sets the loader providing the "print" stylesheet.
func WithPrintAssets(loader AssetLoader) PrinterOption {
	return func(p *Printer) {
		p.assetLoader = loader
	}
}

// WithPrintLogger sets the printer logger.
func WithPrintLogger(logger *zap.Logger) PrinterOption {
	return func(p *Printer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Printer turns augmented idiom pages into PDF with headless Chrome.
// The browser starts on first use. Rod downloads Chromium on first run
// unless ROD_BROWSER_BIN points at an installed browser.
//
// A Printer serializes its calls; use a PrinterPool for parallel printing.
type Printer struct {
	timeout     time.Duration
	assetLoader AssetLoader
	logger      *zap.Logger
	style       string

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewPrinter creates a Printer and loads its print stylesheet.
func NewPrinter(opts ...PrinterOption) (*Printer, error) {
	p := &Printer{timeout: defaultPrintTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.assetLoader == nil {
		p.assetLoader = assets.NewEmbeddedLoader()
	}

	style, err := p.assetLoader.LoadStyle(assets.PrintStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading print style: %w", err)
	}
	p.style = style
	return p, nil
}

// ToPDF prints page (a complete HTML document) and returns the PDF bytes.
func (p *Printer) ToPDF(ctx context.Context, page []byte, opts *PrintOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared, err := preparePrintPage(page, p.style, opts)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(prepared, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}
	return p.renderFile(ctx, tmpPath, opts)
}

// preparePrintPage appends the print stylesheet to <head> and optionally
// replaces the document title.
func preparePrintPage(page []byte, style string, opts *PrintOptions) (string, error) {
	if len(strings.TrimSpace(string(page))) == 0 {
		return "", ErrEmptyPage
	}

	doc, err := dom.ParseString(string(page))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageParse, err)
	}

	head := doc.FirstByTag("head")
	if head == nil {
		return "", fmt.Errorf("%w: no head element", ErrPageParse)
	}

	if opts != nil && opts.Title != "" {
		title := doc.FirstByTag("title")
		if title == nil {
			title = dom.ElemText("title", "", "")
			head.AppendChild(title)
		}
		dom.SetText(title, opts.Title)
	}

	if style != "" {
		if err := dom.AppendHTML(head, "<style>"+style+"</style>"); err != nil {
			return "", fmt.Errorf("injecting print style: %w", err)
		}
	}

	return doc.HTML()
}

// ensureBrowser starts Chrome on first use.
func (p *Printer) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := newLauncher()
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	p.launcher, p.browser = l, browser
	p.logger.Debug("browser launched", zap.Int("pid", l.PID()))
	return nil
}

// newLauncher honours ROD_BROWSER_BIN and disables the sandbox when
// ROD_NO_SANDBOX=1 or under CI, where Chrome usually runs as root.
func newLauncher() *launcher.Launcher {
	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	noSandbox := os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true"
	return l.NoSandbox(noSandbox)
}

func (p *Printer) renderFile(ctx context.Context, filePath string, opts *PrintOptions) ([]byte, error) {
	page, err := p.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if timeout = time.Until(deadline); timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildPDFOptions maps PrintOptions to Chrome print parameters.
func buildPDFOptions(opts *PrintOptions) *proto.PagePrintToPDF {
	width, height := letterWidthInches, letterHeightInches
	if opts != nil && opts.Paper == PaperA4 {
		width, height = a4WidthInches, a4HeightInches
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// Close shuts the browser down and kills its process group so no renderer
// processes outlive the Printer.
func (p *Printer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser == nil {
		return nil
	}

	err := p.browser.Close()
	pid := p.launcher.PID()
	process.KillProcessGroup(pid)
	p.launcher.Kill()
	p.launcher.Cleanup()

	p.browser, p.launcher = nil, nil
	p.logger.Debug("browser closed", zap.Int("pid", pid))
	return err
}
