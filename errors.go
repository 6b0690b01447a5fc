package idiompage

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyPage    = errors.New("page content cannot be empty")
	ErrPageParse    = errors.New("failed to parse page")
	ErrInvalidIdiom = errors.New("invalid idiom")

	// Idiom retrieval errors.
	ErrFetchIdiom  = errors.New("failed to fetch idiom")
	ErrDecodeIdiom = errors.New("failed to decode idiom")

	// Rendering setup errors.
	ErrInvalidAssetPath     = errors.New("invalid asset path")
	ErrInvalidCommentPolicy = errors.New("invalid comment policy")

	// Printing errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrInvalidPaper   = errors.New("invalid paper size")
	ErrPoolClosed     = errors.New("printer pool is closed")
)
