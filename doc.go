// Package idiompage augments server-rendered idiom detail pages.
//
// An idiom page arrives from the server with a placeholder header, a summary
// block and a container holding some implementations. The Renderer rebuilds
// the header, fetches the idiom, renders every implementation the server left
// out, and appends "Edit" links to implementations and to the summary.
//
// # Quick Start
//
//	r, err := idiompage.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	src := idiompage.ResolveSource("https://programming-idioms.org/api/idiom/19", nil)
//	result, err := r.Render(ctx, page, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("19.html", result.HTML, 0644)
//
// Pass a nil source when the page has no idiom data: only the header is
// rebuilt.
//
// # Render Stages
//
// Render records the last stage it reached in Result.Report.Stage:
//
//  1. header-rendered, footer-rendered
//  2. no-fetch (terminal when the source is nil) or fetch-pending
//  3. json-parsed
//  4. implementations-populated
//  5. implementations-decorated
//  6. summary-decorated
//
// A fetch or decode failure stops at fetch-pending; the error is returned
// together with the page as rendered so far. Missing page anchors (header,
// implementations container, an implementation node) are logged and listed
// in Report.Notices; they never fail a render.
//
// # Author Comments
//
// Implementation comments are emphasized: "_name" becomes
// <span class="variable">name</span> and newlines become <br/>. By default
// the result is inserted as markup, as the backend sanitizes comments.
// WithCommentPolicy("sanitized") strips everything else.
//
// # Configuration
//
//	r, err := idiompage.NewRenderer(
//	    idiompage.WithLogger(logger),
//	    idiompage.WithTimeout(5 * time.Second),
//	    idiompage.WithHighlighting(true),
//	    idiompage.WithSite("Programming-Idioms", "/default_20171211_"),
//	    idiompage.WithAssetPath("/path/to/assets"),
//	)
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── print.css
//	└── templates/
//	    └── header.html
//
// # Printing
//
// Printer renders augmented pages to PDF with headless Chrome (go-rod).
// Use PrinterPool for batch work. Set ROD_NO_SANDBOX=1 in containers and
// ROD_BROWSER_BIN to use an installed Chrome.
package idiompage
