package repositories

import (
	"github.com/rios0rios0/prbot/internal/domain/entities"
)

// MatcherRepository abstracts how a file is checked for an outdated entry and
// how that entry is rewritten. Structured matchers (Maven, Terraform) parse the
// file; the literal matcher works on raw text.
type MatcherRepository interface {
	// Name returns the matcher identifier (e.g. "maven", "literal").
	Name() string

	// SearchTerm returns the term used for code search.
	SearchTerm() string

	// CodeLanguage returns the code search language qualifier, empty for any.
	CodeLanguage() string

	// Match inspects the content. It never fails: unparseable content or
	// versions are reported through the match status.
	Match(content string) entities.Match

	// Replace applies a found match to content.
	Replace(content string, match entities.Match) string
}
