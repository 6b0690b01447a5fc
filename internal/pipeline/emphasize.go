package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrUnknownCommentPolicy indicates an unsupported comment escaping policy.
var ErrUnknownCommentPolicy = errors.New("unknown comment policy")

// underscoreVarPattern matches "_name" tokens that start at a word boundary.
// Captures: 1=name without the underscore (may be empty).
var underscoreVarPattern = regexp.MustCompile(`\b_([\w$]*)`)

// Emphasize wraps every underscore-prefixed token in a "variable" span and
// turns newlines into <br/> tags.
//
//	_x -> <span class="variable">x</span>
//
// The result is meant to be inserted as markup. Emphasize does NOT escape
// angle brackets, ampersands or quotes: any markup already in raw passes
// through untouched. Use a CommentFormatter with CommentSanitized when the
// author comment is not sanitized upstream.
func Emphasize(raw string) string {
	refined := underscoreVarPattern.ReplaceAllString(raw, `<span class="variable">$1</span>`)
	return strings.ReplaceAll(refined, "\n", "<br/>")
}

// CommentPolicy selects how emphasized author comments are escaped.
type CommentPolicy string

const (
	// CommentTrusted inserts the emphasized comment verbatim.
	CommentTrusted CommentPolicy = "trusted"

	// CommentSanitized strips everything but variable spans and line breaks.
	CommentSanitized CommentPolicy = "sanitized"
)

// ParseCommentPolicy converts a config value to a CommentPolicy.
// The empty string selects CommentTrusted.
func ParseCommentPolicy(s string) (CommentPolicy, error) {
	switch CommentPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CommentTrusted:
		return CommentTrusted, nil
	case CommentSanitized:
		return CommentSanitized, nil
	}
	return "", fmt.Errorf("%w: %q (must be trusted or sanitized)", ErrUnknownCommentPolicy, s)
}

// CommentFormatter turns an author comment into markup under a policy.
type CommentFormatter struct {
	policy    CommentPolicy
	sanitizer *bluemonday.Policy
}

// NewCommentFormatter creates a CommentFormatter for the given policy.
func NewCommentFormatter(policy CommentPolicy) (*CommentFormatter, error) {
	switch policy {
	case CommentTrusted:
		return &CommentFormatter{policy: policy}, nil
	case CommentSanitized:
		return &CommentFormatter{policy: policy, sanitizer: newCommentSanitizer()}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommentPolicy, policy)
}

// Policy returns the policy in effect.
func (f *CommentFormatter) Policy() CommentPolicy {
	return f.policy
}

// Format emphasizes raw and applies the escaping policy.
func (f *CommentFormatter) Format(raw string) string {
	markup := Emphasize(raw)
	if f.sanitizer == nil {
		return markup
	}
	return f.sanitizer.Sanitize(markup)
}

// newCommentSanitizer allows exactly what Emphasize produces.
func newCommentSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("br")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^variable$`)).OnElements("span")
	return p
}
