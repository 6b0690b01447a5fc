package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeHighlighter turns source code into highlighted inline markup.
type CodeHighlighter interface {
	Highlight(language, code string) (string, error)
}

// ChromaHighlighter highlights code with chroma, emitting CSS classes
// instead of inline styles.
type ChromaHighlighter struct {
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a ChromaHighlighter.
// The output holds token spans only; the caller provides the <pre>.
func NewChromaHighlighter() *ChromaHighlighter {
	return &ChromaHighlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
			chromahtml.TabWidth(4),
		),
	}
}

// Highlight tokenises code with the lexer registered for language.
// Unknown languages fall back to plain text.
func (h *ChromaHighlighter) Highlight(language, code string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, styles.Fallback, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}
