package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	idiompage "github.com/alnah/go-idiompage"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadPage    = errors.New("failed to read page")
	ErrWriteOutput = errors.New("failed to write output")
	ErrPrinterInit = errors.New("failed to initialize PDF printer")
	ErrUsage       = errors.New("invalid usage")
)

// PageRenderer augments one page.
type PageRenderer interface {
	Render(ctx context.Context, page []byte, src idiompage.IdiomSource) (*idiompage.Result, error)
}

// PDFPrinter prints an augmented page.
type PDFPrinter interface {
	ToPDF(ctx context.Context, page []byte, opts *idiompage.PrintOptions) ([]byte, error)
}

// Compile-time interface implementation checks.
var (
	_ PageRenderer = (*idiompage.Renderer)(nil)
	_ PDFPrinter   = (*idiompage.Printer)(nil)
)

// Pool abstracts printer pool operations for testability.
type Pool interface {
	Acquire() (PDFPrinter, error)
	Release(PDFPrinter)
	Size() int
}

// RenderOutcome holds the outcome of a single page.
type RenderOutcome struct {
	InputPath  string
	IdiomRef   string
	OutputPath string
	Report     idiompage.Report
	Err        error
	Duration   time.Duration
	// Partial is set when Render failed after augmenting part of the page
	// (typically the header before a failed fetch) and that page was still
	// written to OutputPath.
	Partial bool
}

// renderParams groups parameters shared across the batch.
type renderParams struct {
	renderer PageRenderer
	pool     Pool // nil = HTML output
	client   *http.Client
	paper    string
	workers  int
}

// batchError reports failed pages. It unwraps to the first failure so exit
// codes and hints follow the first error.
type batchError struct {
	failed int
	total  int
	first  RenderOutcome
}

func (e *batchError) Error() string {
	if e.total == 1 {
		return fmt.Sprintf("%s: %v", e.first.InputPath, e.first.Err)
	}
	return fmt.Sprintf("%d of %d page(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error {
	return e.first.Err
}

// renderBatch processes pages concurrently. With a printer pool, each worker
// holds one printer for its whole life.
func renderBatch(ctx context.Context, pages []PageToRender, params *renderParams) []RenderOutcome {
	if len(pages) == 0 {
		return nil
	}

	concurrency := params.workers
	if params.pool != nil {
		concurrency = params.pool.Size()
	}
	concurrency = max(1, min(concurrency, len(pages)))

	results := make([]RenderOutcome, len(pages))
	var wg sync.WaitGroup
	jobs := make(chan int, len(pages))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var printer PDFPrinter
			if params.pool != nil {
				p, err := params.pool.Acquire()
				if err != nil {
					// Printer creation failed, mark this worker's jobs as failed
					for idx := range jobs {
						results[idx] = RenderOutcome{
							InputPath: pages[idx].InputPath,
							IdiomRef:  pages[idx].IdiomRef,
							Err:       fmt.Errorf("%w: %w", ErrPrinterInit, err),
						}
					}
					return
				}
				printer = p
				defer params.pool.Release(printer)
			}

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = RenderOutcome{
						InputPath: pages[idx].InputPath,
						IdiomRef:  pages[idx].IdiomRef,
						Err:       err,
					}
					continue
				}
				results[idx] = renderPage(ctx, printer, pages[idx], params)
			}
		}()
	}

	for i := range pages {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderPage augments one page and writes HTML, or PDF when printer is set.
func renderPage(ctx context.Context, printer PDFPrinter, p PageToRender, params *renderParams) RenderOutcome {
	start := time.Now()
	outcome := RenderOutcome{
		InputPath:  p.InputPath,
		IdiomRef:   p.IdiomRef,
		OutputPath: p.OutputPath,
	}
	fail := func(err error) RenderOutcome {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}

	content, err := os.ReadFile(p.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadPage, err))
	}

	src := idiompage.ResolveSource(p.IdiomRef, params.client)
	result, renderErr := params.renderer.Render(ctx, content, src)
	if result != nil {
		outcome.Report = result.Report
	}
	if renderErr != nil && (result == nil || len(result.HTML) == 0) {
		return fail(renderErr)
	}

	output := result.HTML
	if printer != nil {
		opts := &idiompage.PrintOptions{Paper: params.paper}
		if result.Idiom != nil {
			opts.Title = result.Idiom.Title
		}
		if output, err = printer.ToPDF(ctx, result.HTML, opts); err != nil {
			return fail(err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(p.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}
	// #nosec G306 -- rendered pages are meant to be readable
	if err := os.WriteFile(p.OutputPath, output, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	if renderErr != nil {
		outcome.Partial = true
		return fail(renderErr)
	}
	outcome.Duration = time.Since(start)
	return outcome
}

// ResultSummary holds the count of succeeded and failed pages.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed pages.
func countResults(results []RenderOutcome) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the batch error, if any.
func printResults(results []RenderOutcome, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)
	var firstFailure *RenderOutcome

	for i, r := range results {
		if r.Err != nil {
			if firstFailure == nil {
				firstFailure = &results[i]
			}
			// A single failure is reported once, by the caller.
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			if r.Partial && !quiet {
				fmt.Fprintf(env.Stdout, "Created %s (header only)\n", r.OutputPath)
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n", r.InputPath, r.OutputPath, r.Report.Stage, r.Duration.Round(time.Millisecond))
			for _, n := range r.Report.Notices {
				fmt.Fprintf(env.Stdout, "  notice: %s %s: %s\n", n.Op, n.Target, n.Message)
			}
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if firstFailure == nil {
		return nil
	}
	return &batchError{failed: summary.Failed, total: len(results), first: *firstFailure}
}
