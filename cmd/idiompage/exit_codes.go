package main

import (
	"context"
	"errors"
	"os"

	idiompage "github.com/alnah/go-idiompage"
	"github.com/alnah/go-idiompage/internal/config"
	"github.com/alnah/go-idiompage/internal/hints"
)

// Exit codes for the idiompage CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All pages rendered
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitFetch   = 5 // Idiom data could not be fetched or decoded
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, idiompage.ErrBrowserConnect) ||
		errors.Is(err, idiompage.ErrPageCreate) ||
		errors.Is(err, idiompage.ErrPageLoad) ||
		errors.Is(err, idiompage.ErrPDFGeneration) ||
		errors.Is(err, idiompage.ErrPoolClosed) {
		return ExitBrowser
	}

	// Fetch errors (exit 5)
	if errors.Is(err, idiompage.ErrFetchIdiom) ||
		errors.Is(err, idiompage.ErrDecodeIdiom) ||
		errors.Is(err, idiompage.ErrInvalidIdiom) ||
		errors.Is(err, ErrUpstream) {
		return ExitFetch
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadPage) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, idiompage.ErrEmptyPage) ||
		errors.Is(err, idiompage.ErrPageParse) ||
		errors.Is(err, idiompage.ErrInvalidAssetPath) ||
		errors.Is(err, idiompage.ErrInvalidCommentPolicy) ||
		errors.Is(err, idiompage.ErrInvalidPaper) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an action hint for errors users can usually fix
// themselves, or "".
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, idiompage.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(config.DefaultName))
	case errors.Is(err, idiompage.ErrFetchIdiom), errors.Is(err, idiompage.ErrDecodeIdiom):
		var be *batchError
		if errors.As(err, &be) {
			return hints.ForFetch(be.first.IdiomRef)
		}
		return hints.ForFetch("")
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
