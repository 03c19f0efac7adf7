package literal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

const matcherName = "literal"

// LiteralMatcherRepository finds a case-sensitive string and replaces every
// occurrence of it.
type LiteralMatcherRepository struct {
	target      string
	replacement string
	pattern     *regexp.Regexp // nil unless word boundaries are required
}

// NewMatcherRepository creates the literal matcher.
func NewMatcherRepository(opts entities.MatcherOptions) (repositories.MatcherRepository, error) {
	if opts.Target == "" {
		return nil, fmt.Errorf("%w: the string to replace must not be empty", entities.ErrFatal)
	}

	matcher := &LiteralMatcherRepository{
		target:      opts.Target,
		replacement: opts.Replacement,
	}
	if opts.WordBoundary {
		matcher.pattern = regexp.MustCompile(boundedPattern(opts.Target))
	}
	return matcher, nil
}

// boundedPattern anchors target on word boundaries. A boundary is only
// required on an edge whose byte is a word character, since `\b` can never hold
// between a punctuation edge and the surrounding punctuation or space.
func boundedPattern(target string) string {
	pattern := regexp.QuoteMeta(target)
	if isWordByte(target[0]) {
		pattern = `\b` + pattern
	}
	if isWordByte(target[len(target)-1]) {
		pattern += `\b`
	}
	return pattern
}

// isWordByte mirrors the ASCII-only `\w` class RE2 uses for `\b`.
func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func (m *LiteralMatcherRepository) Name() string         { return matcherName }
func (m *LiteralMatcherRepository) SearchTerm() string   { return m.target }
func (m *LiteralMatcherRepository) CodeLanguage() string { return "" }

func (m *LiteralMatcherRepository) Match(content string) entities.Match {
	var found bool
	if m.pattern != nil {
		found = m.pattern.MatchString(content)
	} else {
		found = strings.Contains(content, m.target)
	}

	if !found {
		return entities.Match{Status: entities.MatchNotFound}
	}
	return entities.Match{Status: entities.MatchFound, Snippet: m.target}
}

// Replace substitutes every occurrence of the target.
func (m *LiteralMatcherRepository) Replace(content string, match entities.Match) string {
	if !match.Found() {
		return content
	}
	if m.pattern != nil {
		return m.pattern.ReplaceAllLiteralString(content, m.replacement)
	}
	return strings.ReplaceAll(content, m.target, m.replacement)
}
