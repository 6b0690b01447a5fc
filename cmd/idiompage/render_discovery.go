package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	idiompage "github.com/alnah/go-idiompage"
	"github.com/alnah/go-idiompage/internal/config"
	"github.com/alnah/go-idiompage/internal/fileutil"
)

// Sentinel errors for page discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .html or .htm extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// renderedSuffix marks HTML written by render, so a second run over the
// same directory does not pick it up as input.
const renderedSuffix = ".rendered"

// Output extensions.
const (
	extHTML = ".html"
	extPDF  = ".pdf"
)

// PageToRender represents a single page to process.
type PageToRender struct {
	InputPath  string
	IdiomRef   string // "" = no fetch
	OutputPath string
}

// discoverPages finds the pages to render under inputPath.
// idiomRef applies to a single page only; directory pages use their sibling
// X.json when present.
func discoverPages(inputPath, outputDir, idiomRef, outExt string) ([]PageToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateHTMLExtension(inputPath); err != nil {
			return nil, err
		}
		ref := idiomRef
		if ref == "" {
			ref = siblingIdiom(inputPath)
		}
		return []PageToRender{{
			InputPath:  inputPath,
			IdiomRef:   ref,
			OutputPath: resolveOutputPath(inputPath, outputDir, "", outExt),
		}}, nil
	}

	if idiomRef != "" {
		return nil, fmt.Errorf("%w: --idiom needs a single page, got directory %s", ErrUsage, inputPath)
	}

	var pages []PageToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isHTMLFile(path) || isRenderedOutput(path) {
			return nil
		}
		pages = append(pages, PageToRender{
			InputPath:  path,
			IdiomRef:   siblingIdiom(path),
			OutputPath: resolveOutputPath(path, outputDir, inputPath, outExt),
		})
		return nil
	})

	return pages, err
}

// siblingIdiom returns X.json next to X.html, or "" when there is none.
func siblingIdiom(pagePath string) string {
	candidate := fileutil.ReplaceExt(pagePath, ".json")
	if fileutil.FileExists(candidate) {
		return candidate
	}
	return ""
}

// resolveOutputPath determines where a page's output goes.
//
//	no outputDir:        next to the input, X.rendered.html or X.pdf
//	outputDir ends ext:  that exact file
//	directory input:     outputDir + relative path of the page
func resolveOutputPath(inputPath, outputDir, baseInputDir, outExt string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := base + outExt
	if outExt == extHTML {
		name = base + renderedSuffix + extHTML
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if strings.HasSuffix(strings.ToLower(outputDir), outExt) {
		return outputDir
	}

	if outExt == extHTML {
		// Inside a separate output directory the input name is kept.
		name = base + extHTML
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

func isHTMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

func isRenderedOutput(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(base, renderedSuffix)
}

// validateHTMLExtension checks that the file has a .html or .htm extension.
func validateHTMLExtension(path string) error {
	if !isHTMLFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > idiompage.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, idiompage.MaxPoolSize)
	}
	return nil
}

// resolveIdiomRef expands a numeric --idiom value into the idiom API URL.
// Paths and URLs are returned unchanged.
func resolveIdiomRef(ref string, cfg *config.Config) string {
	if ref == "" || strings.Trim(ref, "0123456789") != "" {
		return ref
	}
	return cfg.IdiomURLFor(ref)
}
