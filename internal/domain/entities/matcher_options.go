package entities

const (
	DependencyTypeDependency = "dependency"
	DependencyTypePlugin     = "plugin"
)

// MatcherOptions carries the command line input a matcher is built from.
type MatcherOptions struct {
	Target         string // artifact id, module source or literal string
	Version        string // minimum version, also the version written back
	Replacement    string // literal mode only
	GroupID        string // Maven only, optional
	DependencyType string // Maven only, DependencyTypeDependency or DependencyTypePlugin
	WordBoundary   bool   // literal mode only
}
