package entities

// MatchStatus is the outcome of checking file content against a matcher.
type MatchStatus int

const (
	// MatchNotFound means the content holds nothing to update.
	MatchNotFound MatchStatus = iota
	// MatchFound means the content holds an outdated entry or the literal.
	MatchFound
	// MatchInvalid means a candidate entry exists but its version cannot be
	// parsed, so it cannot be compared.
	MatchInvalid
)

func (s MatchStatus) String() string {
	switch s {
	case MatchFound:
		return "found"
	case MatchInvalid:
		return "invalid"
	default:
		return "not-found"
	}
}

// Match is the result of a matcher run over one file.
type Match struct {
	Status     MatchStatus
	Snippet    string                // literal text that will be replaced
	Dependency *DependencyDescriptor // structured modes only
	Reason     string                // set for MatchInvalid

	// Start and End delimit Snippet in the content it was found in. Both are
	// zero when the matcher does not pin a single location.
	Start int
	End   int
}

// Found reports whether the match can be applied.
func (m Match) Found() bool {
	return m.Status == MatchFound
}

// Splice replaces the located snippet with replacement. Content that does not
// hold the snippet at the recorded range is returned unchanged.
func (m Match) Splice(content, replacement string) string {
	if m.Start < 0 || m.End <= m.Start || m.End > len(content) || content[m.Start:m.End] != m.Snippet {
		return content
	}
	return content[:m.Start] + replacement + content[m.End:]
}

// SameDependency reports whether both matches point at the same dependency
// declaration at the same version.
func (m Match) SameDependency(other Match) bool {
	if m.Dependency == nil || other.Dependency == nil {
		return false
	}
	return *m.Dependency == *other.Dependency
}

// MatchLocation ties a match to the file it was found in.
type MatchLocation struct {
	RawURL   string
	FilePath string
	Match    Match
}
